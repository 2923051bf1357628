// Package logging ведёт структурированный журнал обработки файлов.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Journal - структурированный журнал на базе zerolog.
// Пустой Journal ничего не пишет.
type Journal struct {
	logger zerolog.Logger
	file   *os.File
}

// Options содержит настройки журнала.
type Options struct {
	// Tool - имя инструмента (genthumbs, webresize).
	Tool string

	// RunID - идентификатор запуска; журнал дописывается, и по нему
	// строки разных запусков отделяются друг от друга.
	RunID string

	// Path - путь к JSON-файлу журнала (пусто = без файла).
	Path string

	// Verbose - выводить отладочные события в stderr, если файл не задан.
	Verbose bool

	// Writer - куда писать консольный вывод (по умолчанию os.Stderr).
	Writer io.Writer
}

// Open создаёт журнал. Вызывающий должен вызвать Close.
func Open(opts Options) (*Journal, error) {
	zerolog.TimeFieldFormat = time.RFC3339

	switch {
	case opts.Path != "":
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, fmt.Errorf("не удалось создать директорию журнала: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("не удалось открыть журнал %s: %w", opts.Path, err)
		}
		return &Journal{logger: newLogger(f, opts, zerolog.DebugLevel), file: f}, nil

	case opts.Verbose:
		w := opts.Writer
		if w == nil {
			w = os.Stderr
		}
		console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
		return &Journal{logger: newLogger(console, opts, zerolog.DebugLevel)}, nil

	default:
		return Nop(), nil
	}
}

// Nop возвращает журнал, который ничего не пишет.
func Nop() *Journal {
	return &Journal{logger: zerolog.Nop()}
}

func newLogger(w io.Writer, opts Options, level zerolog.Level) zerolog.Logger {
	ctx := zerolog.New(w).Level(level).With().
		Timestamp().
		Str("tool", opts.Tool)
	if opts.RunID != "" {
		ctx = ctx.Str("run_id", opts.RunID)
	}
	return ctx.Logger()
}

// Event описывает результат обработки одного файла.
type Event struct {
	File      string
	Status    string
	Width     int
	Height    int
	NewWidth  int
	NewHeight int
	Duration  time.Duration
	Err       error
}

// File записывает событие по файлу.
func (j *Journal) File(e Event) {
	ev := j.logger.Info()
	if e.Err != nil {
		ev = j.logger.Error().Err(e.Err)
	}
	ev = ev.Str("file", e.File).Str("status", e.Status)
	if e.Width > 0 {
		ev = ev.Int("width", e.Width).Int("height", e.Height)
	}
	if e.NewWidth > 0 {
		ev = ev.Int("new_width", e.NewWidth).Int("new_height", e.NewHeight)
	}
	ev.Dur("duration", e.Duration).Msg("file")
}

// Debugf записывает отладочное сообщение.
func (j *Journal) Debugf(format string, args ...interface{}) {
	j.logger.Debug().Msgf(format, args...)
}

// Run записывает итог запуска.
func (j *Journal) Run(found, processed, skipped, failed int, d time.Duration) {
	j.logger.Info().
		Int("found", found).
		Int("processed", processed).
		Int("skipped", skipped).
		Int("failed", failed).
		Dur("duration", d).
		Msg("run")
}

// Close закрывает файл журнала, если он был открыт.
func (j *Journal) Close() error {
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}
