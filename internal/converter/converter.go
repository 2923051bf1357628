// Package converter содержит логику изменения размера и перекодирования JPEG.
package converter

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/artemshloyda/galleryprep/internal/config"
	"github.com/artemshloyda/galleryprep/internal/orient"
)

// Классы ошибок обработки одного файла. Проверяются через errors.Is.
var (
	// ErrDecode - файл повреждён или не является изображением.
	ErrDecode = errors.New("ошибка декодирования")
	// ErrOrientation - не удалось нормализовать ориентацию.
	ErrOrientation = errors.New("ошибка ориентации")
	// ErrEncode - не удалось закодировать или записать результат.
	ErrEncode = errors.New("ошибка записи")
)

// Converter выполняет изменение размера и перекодирование изображений.
type Converter struct {
	// cfg - конфигурация.
	cfg *config.Config
}

// Result содержит результат обработки одного файла.
type Result struct {
	// Success - успешна ли обработка.
	Success bool

	// DstPath - путь к выходному файлу.
	DstPath string

	// Resized - менялись ли размеры в пикселях.
	Resized bool

	// OldWidth, OldHeight - размеры до изменения (после исправления ориентации).
	OldWidth, OldHeight int

	// NewWidth, NewHeight - размеры результата.
	NewWidth, NewHeight int

	// Orientation - исходный тег EXIF-ориентации.
	Orientation orient.Orientation

	// Bytes - размер выходного файла.
	Bytes int64

	// Error - ошибка (если есть).
	Error error

	// Duration - время обработки.
	Duration time.Duration
}

// New создаёт новый Converter.
func New(cfg *config.Config) *Converter {
	return &Converter{cfg: cfg}
}

// ThumbnailSize вычисляет размеры превью заданной высоты с сохранением пропорций.
func ThumbnailSize(width, height, targetHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	w := int(float64(targetHeight)*float64(width)/float64(height) + 0.5)
	return max(w, 1), targetHeight
}

// FitLongSide вписывает изображение в квадрат maxDim x maxDim.
// Длинная сторона становится равной maxDim, короткая усекается вниз.
// resized = false, если изображение уже помещается.
func FitLongSide(width, height, maxDim int) (newWidth, newHeight int, resized bool) {
	if max(width, height) <= maxDim {
		return width, height, false
	}

	if width > height {
		newWidth = maxDim
		newHeight = int(float64(height) / float64(width) * float64(maxDim))
	} else {
		newHeight = maxDim
		newWidth = int(float64(width) / float64(height) * float64(maxDim))
	}
	return max(newWidth, 1), max(newHeight, 1), true
}

// Thumbnail создаёт превью srcPath в dstPath.
func (c *Converter) Thumbnail(srcPath, dstPath string) *Result {
	start := time.Now()

	img, err := imaging.Open(srcPath)
	if err != nil {
		return failed(fmt.Errorf("%w: %w", ErrDecode, err), start)
	}

	b := img.Bounds()
	w, h := ThumbnailSize(b.Dx(), b.Dy(), c.cfg.Height)
	if w == 0 {
		return failed(fmt.Errorf("%w: %w", ErrDecode, orient.ErrDegenerate), start)
	}

	thumb := imaging.Resize(img, w, h, imaging.Lanczos)

	size, err := writeJPEG(thumb, dstPath, c.cfg.ThumbQuality, 0644)
	if err != nil {
		return failed(err, start)
	}

	return &Result{
		Success:     true,
		DstPath:     dstPath,
		Resized:     true,
		OldWidth:    b.Dx(),
		OldHeight:   b.Dy(),
		NewWidth:    w,
		NewHeight:   h,
		Orientation: orient.Normal,
		Bytes:       size,
		Duration:    time.Since(start),
	}
}

// WebResize исправляет ориентацию, ограничивает длинную сторону и
// перезаписывает файл на месте с качеством WebQuality без EXIF.
// Для символической ссылки перезаписывается файл, на который она указывает.
func (c *Converter) WebResize(path string) *Result {
	start := time.Now()

	path, err := filepath.EvalSymlinks(path)
	if err != nil {
		return failed(fmt.Errorf("%w: %w", ErrDecode, err), start)
	}

	info, err := os.Stat(path)
	if err != nil {
		return failed(fmt.Errorf("%w: %w", ErrDecode, err), start)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return failed(fmt.Errorf("%w: %w", ErrDecode, err), start)
	}

	o, err := orient.Read(path)
	if err != nil {
		return failed(fmt.Errorf("%w: %w", ErrOrientation, err), start)
	}

	upright, err := orient.Apply(img, o)
	if err != nil {
		return failed(fmt.Errorf("%w: %w", ErrOrientation, err), start)
	}

	w, h := upright.Bounds().Dx(), upright.Bounds().Dy()
	nw, nh, resized := FitLongSide(w, h, c.cfg.MaxDimension)

	var out image.Image = upright
	if resized {
		out = imaging.Resize(upright, nw, nh, imaging.Lanczos)
	}

	size, err := writeJPEG(out, path, c.cfg.WebQuality, info.Mode().Perm())
	if err != nil {
		return failed(err, start)
	}

	return &Result{
		Success:     true,
		DstPath:     path,
		Resized:     resized,
		OldWidth:    w,
		OldHeight:   h,
		NewWidth:    nw,
		NewHeight:   nh,
		Orientation: o,
		Bytes:       size,
		Duration:    time.Since(start),
	}
}

// PlanWebResize вычисляет результат WebResize без декодирования пикселей.
// Используется в режиме dry-run.
func (c *Converter) PlanWebResize(path string) *Result {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return failed(fmt.Errorf("%w: %w", ErrDecode, err), start)
	}
	cfg, _, err := image.DecodeConfig(f)
	_ = f.Close()
	if err != nil {
		return failed(fmt.Errorf("%w: %w", ErrDecode, err), start)
	}

	o, err := orient.Read(path)
	if err != nil {
		return failed(fmt.Errorf("%w: %w", ErrOrientation, err), start)
	}

	w, h := orient.Dimensions(cfg.Width, cfg.Height, o)
	if w == 0 || h == 0 {
		return failed(fmt.Errorf("%w: %w", ErrOrientation, orient.ErrDegenerate), start)
	}
	nw, nh, resized := FitLongSide(w, h, c.cfg.MaxDimension)

	return &Result{
		Success:     true,
		DstPath:     path,
		Resized:     resized,
		OldWidth:    w,
		OldHeight:   h,
		NewWidth:    nw,
		NewHeight:   nh,
		Orientation: o,
		Duration:    time.Since(start),
	}
}

// writeJPEG атомарно записывает изображение: сначала во временный скрытый
// файл в той же директории, затем переименовывает его в dstPath.
func writeJPEG(img image.Image, dstPath string, quality int, perm os.FileMode) (int64, error) {
	dir := filepath.Dir(dstPath)
	tmpPath := filepath.Join(dir, "."+filepath.Base(dstPath)+".converting")

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	cw := &countingWriter{w: f}
	if err := imaging.Encode(cw, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("%w: не удалось переименовать %s -> %s: %w", ErrEncode, tmpPath, dstPath, err)
	}
	return cw.n, nil
}

// countingWriter считает записанные байты.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func failed(err error, start time.Time) *Result {
	return &Result{
		Success:  false,
		Error:    err,
		Duration: time.Since(start),
	}
}
