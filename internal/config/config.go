// Package config содержит конфигурацию приложения.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// DefaultSourceDir - директория с исходными JPEG.
	DefaultSourceDir = "images"
	// DefaultThumbsDir - директория для превью.
	DefaultThumbsDir = "thumbs"
	// DefaultBackupDir - директория для нетронутых копий оригиналов.
	DefaultBackupDir = "images_backup"

	// DefaultHeight - высота превью в пикселях.
	DefaultHeight = 250
	// DefaultThumbQuality - качество JPEG для превью.
	DefaultThumbQuality = 85

	// DefaultMaxDimension - максимальная длина длинной стороны для веба.
	DefaultMaxDimension = 3000
	// DefaultWebQuality - качество JPEG для веб-версии.
	DefaultWebQuality = 80
)

// Config содержит все настройки обоих инструментов.
// Конфигурация передаётся явно в каждый конвейер, глобального состояния нет.
type Config struct {
	// Root - корень, относительно которого разрешаются директории.
	Root string

	// SourceDir - директория с исходными изображениями.
	SourceDir string

	// ThumbsDir - директория для превью.
	ThumbsDir string

	// BackupDir - директория для резервных копий оригиналов.
	BackupDir string

	// Extensions - расширения входных файлов (без точки, lowercase).
	Extensions []string

	// Height - высота превью в пикселях.
	Height int

	// ThumbQuality - качество JPEG для превью (1-100).
	ThumbQuality int

	// MaxDimension - максимальная длина длинной стороны (px).
	MaxDimension int

	// WebQuality - качество JPEG для веб-версии (1-100).
	WebQuality int

	// DryRun - режим симуляции без записи файлов.
	DryRun bool

	// Verbose - подробный вывод.
	Verbose bool

	// NoProgress - отключить прогресс-бар.
	NoProgress bool

	// LogFile - путь к JSON-журналу (пусто = без журнала).
	LogFile string

	// ReportPath - путь к YAML-отчёту о запуске (пусто = без отчёта).
	ReportPath string
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() *Config {
	return &Config{
		Root:         ".",
		SourceDir:    DefaultSourceDir,
		ThumbsDir:    DefaultThumbsDir,
		BackupDir:    DefaultBackupDir,
		Extensions:   []string{"jpg", "jpeg"},
		Height:       DefaultHeight,
		ThumbQuality: DefaultThumbQuality,
		MaxDimension: DefaultMaxDimension,
		WebQuality:   DefaultWebQuality,
	}
}

// Validate проверяет корректность конфигурации.
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("директория с изображениями не указана (--source-dir)")
	}
	if c.ThumbsDir == "" {
		return fmt.Errorf("директория для превью не указана (--thumbs-dir)")
	}
	if c.BackupDir == "" {
		return fmt.Errorf("директория для резервных копий не указана (--backup-dir)")
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("не указаны расширения входных файлов")
	}
	if c.Height < 1 {
		return fmt.Errorf("высота превью должна быть >= 1, получено: %d", c.Height)
	}
	if c.MaxDimension < 1 {
		return fmt.Errorf("максимальный размер должен быть >= 1, получено: %d", c.MaxDimension)
	}
	if err := validateQuality(c.ThumbQuality); err != nil {
		return err
	}
	return validateQuality(c.WebQuality)
}

func validateQuality(q int) error {
	if q < 1 || q > 100 {
		return fmt.Errorf("качество должно быть от 1 до 100, получено: %d", q)
	}
	return nil
}

// Resolve возвращает путь к директории относительно Root.
// Абсолютные пути возвращаются без изменений.
func (c *Config) Resolve(dir string) string {
	if filepath.IsAbs(dir) || c.Root == "" {
		return dir
	}
	return filepath.Join(c.Root, dir)
}

// SourcePath возвращает путь к директории с изображениями.
func (c *Config) SourcePath() string {
	return c.Resolve(c.SourceDir)
}

// ThumbsPath возвращает путь к директории превью.
func (c *Config) ThumbsPath() string {
	return c.Resolve(c.ThumbsDir)
}

// BackupPath возвращает путь к директории резервных копий.
func (c *Config) BackupPath() string {
	return c.Resolve(c.BackupDir)
}

// HasInputExtension проверяет, поддерживается ли расширение файла.
func (c *Config) HasInputExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, e := range c.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
