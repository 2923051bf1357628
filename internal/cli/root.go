// Package cli содержит CLI интерфейс обоих инструментов.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/artemshloyda/galleryprep/internal/config"
	"github.com/artemshloyda/galleryprep/internal/logging"
	"github.com/artemshloyda/galleryprep/internal/pipeline"
	"github.com/artemshloyda/galleryprep/internal/progress"
	"github.com/artemshloyda/galleryprep/internal/scanner"
)

var (
	// Version будет установлена при сборке.
	Version = "dev"

	// BuildTime будет установлена при сборке.
	BuildTime = "unknown"
)

// addCommonFlags регистрирует флаги, общие для обоих инструментов.
func addCommonFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	flags.StringVar(&cfg.Root, "root", cfg.Root, "Корневая директория, относительно которой ищутся папки")
	flags.StringVar(&cfg.SourceDir, "source-dir", cfg.SourceDir, "Директория с исходными JPEG")
	flags.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Показать, что будет сделано, ничего не записывая")
	flags.BoolVar(&cfg.NoProgress, "no-progress", cfg.NoProgress, "Отключить прогресс-бар")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Путь к JSON-журналу обработки")
	flags.StringVar(&cfg.ReportPath, "report", cfg.ReportPath, "Сохранить YAML-отчёт о запуске")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Подробный вывод")
}

// session - всё, что нужно для одного запуска конвейера.
type session struct {
	cfg     *config.Config
	tool    string
	runID   string
	out     io.Writer
	errOut  io.Writer
	journal *logging.Journal
}

func newSession(cmd *cobra.Command, cfg *config.Config, tool string) (*session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка конфигурации: %w", err)
	}

	runID := uuid.NewString()
	journal, err := logging.Open(logging.Options{
		Tool:    tool,
		RunID:   runID,
		Path:    cfg.LogFile,
		Verbose: cfg.Verbose,
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:     cfg,
		tool:    tool,
		runID:   runID,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		journal: journal,
	}, nil
}

func (s *session) close() {
	if err := s.journal.Close(); err != nil {
		fmt.Fprintf(s.errOut, "⚠️  Не удалось закрыть журнал: %v\n", err)
	}
}

func (s *session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

// run обрабатывает files задачей task и сохраняет отчёт, если он запрошен.
// Контекст отменяется по SIGINT/SIGTERM; текущий файл доводится до конца.
func (s *session) run(ctx context.Context, files []scanner.File, task pipeline.Task, description string) *pipeline.Report {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(s.tool, task)
	runner.SetOutput(s.out, s.errOut)
	runner.SetJournal(s.journal)
	runner.SetVerbose(s.cfg.Verbose)
	runner.SetProgressBar(progress.New(progress.Options{
		Total:       len(files),
		Description: description,
		Disabled:    s.cfg.NoProgress,
		Writer:      s.errOut,
	}))

	report := runner.Run(ctx, files)
	report.RunID = s.runID
	report.DryRun = s.cfg.DryRun
	return report
}

// emptyReport возвращает отчёт запуска, в котором не нашлось файлов.
func (s *session) emptyReport() *pipeline.Report {
	report := pipeline.NewReport(s.tool, 0)
	report.RunID = s.runID
	report.DryRun = s.cfg.DryRun
	report.Finish()
	return report
}

// printErrors перечисляет файлы с ошибками в конце сводки.
func (s *session) printErrors(report *pipeline.Report) {
	errs := report.Errors()
	if len(errs) == 0 {
		return
	}
	s.printf("\n❌ Файлы с ошибками:\n")
	for _, res := range errs {
		s.printf("   %s: %s\n", res.Name, res.Error)
	}
}

// saveReport пишет YAML-отчёт, если задан --report.
// Ошибка записи отчёта не меняет код выхода.
func (s *session) saveReport(report *pipeline.Report) {
	if s.cfg.ReportPath == "" {
		return
	}
	if err := report.WriteYAML(s.cfg.ReportPath); err != nil {
		fmt.Fprintf(s.errOut, "⚠️  %v\n", err)
		return
	}
	s.printf("📝 Отчёт: %s\n", s.cfg.ReportPath)
}

// scan ищет JPEG-файлы в директории с исходниками.
func (s *session) scan() ([]scanner.File, error) {
	files, err := scanner.New(s.cfg).Scan(s.cfg.SourcePath())
	if err != nil {
		return nil, err
	}
	s.journal.Debugf("найдено %d файлов в %s", len(files), s.cfg.SourcePath())
	return files, nil
}

// newVersionCmd создаёт команду version.
func newVersionCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать версию",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (built %s)\n", name, Version, BuildTime)
		},
	}
}

// Execute запускает команду и завершает процесс с кодом 1 при ошибке.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		// Не выводим ошибку, cobra уже вывела
		os.Exit(1)
	}
}
