// Package pipeline последовательно обрабатывает найденные файлы и собирает отчёт.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/artemshloyda/galleryprep/internal/logging"
	"github.com/artemshloyda/galleryprep/internal/progress"
	"github.com/artemshloyda/galleryprep/internal/scanner"
)

// Task обрабатывает один файл. Ошибка одного файла не прерывает пачку,
// поэтому Task возвращает результат, а не error.
type Task func(ctx context.Context, file scanner.File) FileResult

// Runner обрабатывает файлы по одному, в порядке сортировки.
type Runner struct {
	tool     string
	task     Task
	journal  *logging.Journal
	progress *progress.Bar
	verbose  bool
	out      io.Writer
	errOut   io.Writer
}

// NewRunner создаёт Runner для инструмента tool.
func NewRunner(tool string, task Task) *Runner {
	return &Runner{
		tool:    tool,
		task:    task,
		journal: logging.Nop(),
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
}

// SetJournal устанавливает структурированный журнал.
func (r *Runner) SetJournal(j *logging.Journal) {
	r.journal = j
}

// SetProgressBar устанавливает прогресс-бар для отображения прогресса.
func (r *Runner) SetProgressBar(bar *progress.Bar) {
	r.progress = bar
}

// SetVerbose включает вывод времени обработки каждого файла.
func (r *Runner) SetVerbose(v bool) {
	r.verbose = v
}

// SetOutput перенаправляет вывод (для тестов).
func (r *Runner) SetOutput(out, errOut io.Writer) {
	r.out = out
	r.errOut = errOut
}

// Run обрабатывает files и возвращает отчёт.
// Контекст проверяется только между файлами: начатый файл всегда
// доводится до конца, включая резервную копию и перезапись.
func (r *Runner) Run(ctx context.Context, files []scanner.File) *Report {
	report := NewReport(r.tool, len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			report.Interrupted = true
			r.printErr("⚠️  Остановлено: %v\n", err)
			break
		}

		res := r.task(ctx, file)
		if res.Name == "" {
			res.Name = file.Name
		}
		if res.OldSize == 0 {
			res.OldSize = file.Size
		}

		report.Add(res)
		r.emit(res)
	}

	report.Finish()
	r.journal.Run(report.Found, report.Processed, report.Skipped, report.Failed, report.Duration)

	if r.progress != nil {
		r.progress.Finish()
	}
	return report
}

// emit выводит результат по файлу в консоль, журнал и прогресс-бар.
func (r *Runner) emit(res FileResult) {
	switch res.Status {
	case StatusOK:
		r.print("✅ %s\n", res.Message)
		if res.Detail != "" {
			r.print("   %s\n", res.Detail)
		}
		if r.verbose {
			r.print("   (%.2fs)\n", res.Duration.Seconds())
		}
		if r.progress != nil {
			r.progress.Increment()
		}
	case StatusSkipped:
		r.print("⏭️  %s\n", res.Message)
		if r.progress != nil {
			r.progress.IncrementSkipped()
		}
	case StatusFailed:
		r.printErr("❌ Ошибка обработки %s: %v\n", res.Name, res.Err)
		if r.progress != nil {
			r.progress.IncrementFailed()
		}
	}

	r.journal.File(logging.Event{
		File:      res.Name,
		Status:    string(res.Status),
		Width:     res.Width,
		Height:    res.Height,
		NewWidth:  res.NewWidth,
		NewHeight: res.NewHeight,
		Duration:  res.Duration,
		Err:       res.Err,
	})
}

func (r *Runner) print(format string, args ...interface{}) {
	if r.progress != nil && !r.progress.IsDisabled() {
		r.progress.WriteMessage(format, args...)
		return
	}
	fmt.Fprintf(r.out, format, args...)
}

func (r *Runner) printErr(format string, args ...interface{}) {
	if r.progress != nil && !r.progress.IsDisabled() {
		r.progress.WriteMessage(format, args...)
		return
	}
	fmt.Fprintf(r.errOut, format, args...)
}

// elapsed округляет длительность для вывода.
func elapsed(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}
