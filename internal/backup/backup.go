// Package backup хранит нетронутые копии оригиналов перед их изменением.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store управляет директорией резервных копий.
// Копия создаётся один раз на имя файла и никогда не перезаписывается.
type Store struct {
	// dir - директория для копий.
	dir string
}

// New создаёт Store и директорию, если её нет.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию резервных копий: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Open возвращает Store для существующей (или ещё не созданной) директории,
// ничего не создавая. Используется в режиме dry-run.
func Open(dir string) *Store {
	return &Store{dir: dir}
}

// Dir возвращает директорию копий.
func (s *Store) Dir() string {
	return s.dir
}

// Path возвращает путь к копии файла с именем name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Exists проверяет, есть ли уже копия файла.
func (s *Store) Exists(name string) bool {
	_, err := os.Lstat(s.Path(name))
	return err == nil
}

// Ensure создаёт копию srcPath, если её ещё нет.
// Возвращает true, если копия была создана этим вызовом.
func (s *Store) Ensure(srcPath string) (bool, error) {
	dstPath := s.Path(srcPath)
	if s.Exists(dstPath) {
		return false, nil
	}

	if err := copyFile(srcPath, dstPath); err != nil {
		return false, fmt.Errorf("не удалось создать копию %s: %w", filepath.Base(srcPath), err)
	}
	return true, nil
}

// copyFile копирует файл из src в dst с сохранением прав и времени модификации.
// Пишет во временный файл и переименовывает, чтобы оборванная копия
// не выглядела как готовая.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	tmpPath := dst + ".copying"
	dstFile, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := dstFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	_ = os.Chtimes(tmpPath, info.ModTime(), info.ModTime())

	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
