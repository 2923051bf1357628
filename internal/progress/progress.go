// Package progress показывает прогресс обработки пачки изображений.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Bar - прогресс-бар, поверх которого можно печатать сообщения.
// Выключенный Bar печатает сообщения напрямую в writer.
type Bar struct {
	bar *progressbar.ProgressBar

	// mu защищает bar и счётчики.
	mu sync.Mutex

	disabled bool

	description string

	done, skipped, failed int

	writer io.Writer
}

// Options содержит настройки для прогресс-бара.
type Options struct {
	// Total - количество файлов.
	Total int

	// Description - подпись слева от бара.
	Description string

	// Disabled - отключить прогресс-бар (только текстовый вывод).
	Disabled bool

	// Writer - куда выводить (по умолчанию os.Stderr).
	Writer io.Writer
}

// New создаёт новый прогресс-бар. При Total == 0 бар всегда выключен.
func New(opts Options) *Bar {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	b := &Bar{
		disabled: opts.Disabled || opts.Total <= 0,
		writer:   writer,
	}
	if b.disabled {
		return b
	}

	description := opts.Description
	if description == "" {
		description = "Обработка"
	}

	b.description = description
	b.bar = progressbar.NewOptions(
		opts.Total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]▓[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
		progressbar.OptionSetPredictTime(true),
	)

	return b
}

// Increment отмечает успешно обработанный файл.
func (b *Bar) Increment() {
	b.add(&b.done)
}

// IncrementSkipped отмечает пропущенный файл.
func (b *Bar) IncrementSkipped() {
	b.add(&b.skipped)
}

// IncrementFailed отмечает файл с ошибкой.
func (b *Bar) IncrementFailed() {
	b.add(&b.failed)
}

func (b *Bar) add(counter *int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	*counter++
	if b.bar == nil {
		return
	}
	if b.skipped > 0 || b.failed > 0 {
		b.bar.Describe(fmt.Sprintf("%s (пропущено: %d, ошибок: %d)", b.description, b.skipped, b.failed))
	}
	_ = b.bar.Add(1)
}

// Finish завершает прогресс-бар.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		_ = b.bar.Finish()
	}
}

// IsDisabled возвращает true, если прогресс-бар отключён.
func (b *Bar) IsDisabled() bool {
	return b.disabled
}

// WriteMessage выводит сообщение, временно скрывая прогресс-бар.
func (b *Bar) WriteMessage(format string, args ...interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		_ = b.bar.Clear()
	}

	fmt.Fprintf(b.writer, format, args...)

	if b.bar != nil {
		_ = b.bar.RenderBlank()
	}
}
