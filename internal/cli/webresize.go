package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/artemshloyda/galleryprep/internal/backup"
	"github.com/artemshloyda/galleryprep/internal/config"
	"github.com/artemshloyda/galleryprep/internal/converter"
	"github.com/artemshloyda/galleryprep/internal/pipeline"
)

// NewWebResizeCmd создаёт корневую команду webresize.
func NewWebResizeCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "webresize",
		Short: "Подготовка оригиналов галереи для веба",
		Long: `webresize уменьшает JPEG из images/ на месте: применяет EXIF-ориентацию,
ограничивает длинную сторону и пережимает файл без метаданных.

Перед изменением каждого файла его нетронутая копия сохраняется в
images_backup/. Существующая копия никогда не перезаписывается, поэтому
в ней всегда лежит самая первая версия файла.

Внимание: повторный запуск снова пережимает уже обработанные файлы,
и качество каждый раз немного падает. Оригиналы берите из images_backup/.

Примеры:
  webresize
  webresize --root ./site --max-dimension 2048
  webresize --dry-run`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWebResize(cmd, cfg)
		},
	}

	addCommonFlags(cmd, cfg)
	flags := cmd.Flags()
	flags.StringVar(&cfg.BackupDir, "backup-dir", cfg.BackupDir, "Директория для резервных копий оригиналов")
	flags.IntVar(&cfg.MaxDimension, "max-dimension", cfg.MaxDimension, "Максимальная длина длинной стороны в пикселях")
	flags.IntVarP(&cfg.WebQuality, "quality", "q", cfg.WebQuality, "Качество JPEG (1-100)")

	cmd.AddCommand(newVersionCmd("webresize"))
	return cmd
}

func runWebResize(cmd *cobra.Command, cfg *config.Config) error {
	s, err := newSession(cmd, cfg, "webresize")
	if err != nil {
		return err
	}
	defer s.close()

	// Без исходной директории делать нечего, но это не ошибка запуска
	if _, err := os.Stat(cfg.SourcePath()); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(s.errOut, "Ошибка: директория %s не существует\n", cfg.SourcePath())
		return nil
	}

	store := backup.Open(cfg.BackupPath())
	if !cfg.DryRun {
		if store, err = backup.New(cfg.BackupPath()); err != nil {
			return err
		}
	}

	files, err := s.scan()
	if err != nil {
		return fmt.Errorf("ошибка сканирования: %w", err)
	}

	if len(files) == 0 {
		s.printf("JPEG файлы не найдены в %s\n", cfg.SourcePath())
		s.saveReport(s.emptyReport())
		return nil
	}

	s.printf("Найдено %d изображений для обработки\n", len(files))
	s.printf("Максимальный размер: %dpx, качество: %d\n", cfg.MaxDimension, cfg.WebQuality)
	s.printf("Резервные копии: %s\n", store.Dir())
	if cfg.DryRun {
		s.printf("🔍 Режим симуляции (dry-run)\n")
	}
	s.printf("\n")

	task := pipeline.WebTask(cfg, converter.New(cfg), store)
	report := s.run(cmd.Context(), files, task, "Веб-версии")

	s.printf("\n📊 Результаты:\n")
	s.printf("   Обработано: %d из %d\n", report.Processed, report.Found)
	s.printf("   Уменьшено: %d\n", report.Resized)
	s.printf("   Без изменения размеров: %d\n", report.Processed-report.Resized)
	s.printf("   Новых резервных копий: %d\n", report.BackedUp)
	s.printf("   Ошибок: %d\n", report.Failed)
	if !cfg.DryRun {
		s.printf("   Сэкономлено: %s\n", pipeline.FormatBytes(report.SavedBytes()))
	}
	s.printf("   Время: %v\n", report.Elapsed())
	if report.Interrupted {
		s.printf("   Прервано: обработано %d из %d\n", len(report.Results), report.Found)
	}
	s.printErrors(report)
	s.printf("\nОригиналы сохранены в: %s\n", store.Dir())

	s.saveReport(report)
	return nil
}
