// Package scanner отвечает за поиск JPEG-файлов в директории.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/artemshloyda/galleryprep/internal/config"
)

// File представляет файл для обработки.
type File struct {
	// Path - путь к файлу.
	Path string

	// Name - имя файла без директории.
	Name string

	// Size - размер файла в байтах.
	Size int64
}

// Scanner ищет изображения в директории.
type Scanner struct {
	cfg *config.Config
}

// New создаёт новый Scanner.
func New(cfg *config.Config) *Scanner {
	return &Scanner{cfg: cfg}
}

// Scan возвращает файлы с подходящими расширениями, отсортированные по имени.
// Поддиректории не обходятся.
func (s *Scanner) Scan(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать директорию %s: %w", dir, err)
	}

	var files []File
	for _, entry := range entries {
		name := entry.Name()

		// Пропускаем скрытые файлы, в том числе macOS metadata (._*)
		if len(name) > 0 && name[0] == '.' {
			continue
		}

		if !s.cfg.HasInputExtension(filepath.Ext(name)) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Предупреждение: не удалось получить info %s: %v\n", name, err)
			continue
		}

		// Только обычные файлы (симлинки на файлы тоже подходят)
		if !info.Mode().IsRegular() {
			if info.Mode()&os.ModeSymlink == 0 {
				continue
			}
			target, err := os.Stat(filepath.Join(dir, name))
			if err != nil || !target.Mode().IsRegular() {
				continue
			}
			info = target
		}

		files = append(files, File{
			Path: filepath.Join(dir, name),
			Name: name,
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}
