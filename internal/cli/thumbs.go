package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/artemshloyda/galleryprep/internal/config"
	"github.com/artemshloyda/galleryprep/internal/converter"
	"github.com/artemshloyda/galleryprep/internal/pipeline"
)

// NewThumbsCmd создаёт корневую команду genthumbs.
func NewThumbsCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "genthumbs",
		Short: "Генератор превью для галереи",
		Long: `genthumbs создаёт превью фиксированной высоты для каждого JPEG
из директории images/ и складывает их в thumbs/ под тем же именем.

Ширина превью вычисляется с сохранением пропорций. Уже существующие
превью не перезаписываются, поэтому повторный запуск безопасен.

Примеры:
  genthumbs
  genthumbs --root ./site --height 300
  genthumbs --dry-run -v`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThumbs(cmd, cfg)
		},
	}

	addCommonFlags(cmd, cfg)
	flags := cmd.Flags()
	flags.StringVar(&cfg.ThumbsDir, "thumbs-dir", cfg.ThumbsDir, "Директория для превью")
	flags.IntVar(&cfg.Height, "height", cfg.Height, "Высота превью в пикселях")
	flags.IntVarP(&cfg.ThumbQuality, "quality", "q", cfg.ThumbQuality, "Качество JPEG превью (1-100)")

	cmd.AddCommand(newVersionCmd("genthumbs"))
	return cmd
}

func runThumbs(cmd *cobra.Command, cfg *config.Config) error {
	s, err := newSession(cmd, cfg, "genthumbs")
	if err != nil {
		return err
	}
	defer s.close()

	// Обе директории создаются, даже если исходников пока нет.
	// В режиме dry-run на диск не пишется ничего.
	if !cfg.DryRun {
		for _, dir := range []string{cfg.SourcePath(), cfg.ThumbsPath()} {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("не удалось создать директорию %s: %w", dir, err)
			}
		}
	}

	files, err := s.scan()
	if err != nil && !(cfg.DryRun && errors.Is(err, fs.ErrNotExist)) {
		return fmt.Errorf("ошибка сканирования: %w", err)
	}

	if len(files) == 0 {
		s.printf("JPEG файлы не найдены в %s\n", cfg.SourcePath())
		s.saveReport(s.emptyReport())
		return nil
	}

	s.printf("Найдено %d изображений для обработки\n", len(files))
	s.printf("Превью: высота %dpx, качество %d → %s\n", cfg.Height, cfg.ThumbQuality, cfg.ThumbsPath())
	if cfg.DryRun {
		s.printf("🔍 Режим симуляции (dry-run)\n")
	}
	s.printf("\n")

	task := pipeline.ThumbsTask(cfg, converter.New(cfg))
	report := s.run(cmd.Context(), files, task, "Превью")

	s.printf("\n📊 Результаты:\n")
	s.printf("   Обработано: %d из %d\n", report.Attempted(), report.Found)
	s.printf("   Создано: %d\n", report.Processed)
	s.printf("   Пропущено: %d\n", report.Skipped)
	s.printf("   Ошибок: %d\n", report.Failed)
	s.printf("   Время: %v\n", report.Elapsed())
	if report.Interrupted {
		s.printf("   Прервано: обработано %d из %d\n", len(report.Results), report.Found)
	}
	s.printErrors(report)

	s.saveReport(report)
	return nil
}
