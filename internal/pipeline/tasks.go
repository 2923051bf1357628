package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/artemshloyda/galleryprep/internal/backup"
	"github.com/artemshloyda/galleryprep/internal/config"
	"github.com/artemshloyda/galleryprep/internal/converter"
	"github.com/artemshloyda/galleryprep/internal/scanner"
)

// ErrBackup - не удалось создать резервную копию; оригинал не изменялся.
var ErrBackup = errors.New("ошибка резервного копирования")

// ThumbsTask возвращает задачу генерации превью.
// Существующее превью никогда не перезаписывается.
func ThumbsTask(cfg *config.Config, conv *converter.Converter) Task {
	thumbsDir := cfg.ThumbsPath()

	return func(ctx context.Context, file scanner.File) FileResult {
		dstPath := filepath.Join(thumbsDir, file.Name)

		if _, err := os.Stat(dstPath); err == nil {
			return FileResult{
				Name:    file.Name,
				Status:  StatusSkipped,
				Message: fmt.Sprintf("Пропущен: %s (превью уже есть)", file.Name),
			}
		}

		if cfg.DryRun {
			return FileResult{
				Name:    file.Name,
				Status:  StatusOK,
				Message: fmt.Sprintf("[dry-run] %s -> %s", file.Name, dstPath),
			}
		}

		res := conv.Thumbnail(file.Path, dstPath)
		if !res.Success {
			return Failed(file.Name, res.Error)
		}

		return FileResult{
			Name:      file.Name,
			Status:    StatusOK,
			Message:   fmt.Sprintf("Создано превью: %s", file.Name),
			Detail:    fmt.Sprintf("%dx%d → %dx%d", res.OldWidth, res.OldHeight, res.NewWidth, res.NewHeight),
			Width:     res.OldWidth,
			Height:    res.OldHeight,
			NewWidth:  res.NewWidth,
			NewHeight: res.NewHeight,
			OldSize:   file.Size,
			NewSize:   res.Bytes,
			Duration:  res.Duration,
		}
	}
}

// WebTask возвращает задачу подготовки оригинала для веба.
// Резервная копия создаётся до изменения файла; если копию создать
// не удалось, оригинал не трогается.
func WebTask(cfg *config.Config, conv *converter.Converter, store *backup.Store) Task {
	return func(ctx context.Context, file scanner.File) FileResult {
		if cfg.DryRun {
			return planWeb(conv, store, file)
		}

		created, err := store.Ensure(file.Path)
		if err != nil {
			return Failed(file.Name, fmt.Errorf("%w: %w", ErrBackup, err))
		}

		res := conv.WebResize(file.Path)
		if !res.Success {
			r := Failed(file.Name, res.Error)
			r.BackedUp = created
			return r
		}

		out := FileResult{
			Name:      file.Name,
			Status:    StatusOK,
			Width:     res.OldWidth,
			Height:    res.OldHeight,
			NewWidth:  res.NewWidth,
			NewHeight: res.NewHeight,
			BackedUp:  created,
			OldSize:   file.Size,
			NewSize:   res.Bytes,
			Duration:  res.Duration,
		}
		if res.Resized {
			out.Message = fmt.Sprintf("Уменьшено: %s", file.Name)
			out.Detail = fmt.Sprintf("%dx%d → %dx%d", res.OldWidth, res.OldHeight, res.NewWidth, res.NewHeight)
		} else {
			out.Message = fmt.Sprintf("Оптимизировано качество: %s", file.Name)
			out.Detail = fmt.Sprintf("Размер: %dx%d (без изменения размеров)", res.OldWidth, res.OldHeight)
		}
		return out
	}
}

// planWeb описывает, что сделал бы WebTask, ничего не записывая.
func planWeb(conv *converter.Converter, store *backup.Store, file scanner.File) FileResult {
	res := conv.PlanWebResize(file.Path)
	if !res.Success {
		return Failed(file.Name, res.Error)
	}

	backupNote := "копия уже есть"
	if !store.Exists(file.Name) {
		backupNote = "будет создана копия"
	}

	out := FileResult{
		Name:      file.Name,
		Status:    StatusOK,
		Width:     res.OldWidth,
		Height:    res.OldHeight,
		NewWidth:  res.NewWidth,
		NewHeight: res.NewHeight,
	}
	if res.Resized {
		out.Message = fmt.Sprintf("[dry-run] уменьшить: %s (%s)", file.Name, backupNote)
		out.Detail = fmt.Sprintf("%dx%d → %dx%d", res.OldWidth, res.OldHeight, res.NewWidth, res.NewHeight)
	} else {
		out.Message = fmt.Sprintf("[dry-run] пережать: %s (%s)", file.Name, backupNote)
		out.Detail = fmt.Sprintf("Размер: %dx%d", res.OldWidth, res.OldHeight)
	}
	return out
}
