// Package orient читает EXIF-ориентацию и приводит пиксели к нормальному виду.
package orient

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// Orientation - значение EXIF-тега Orientation (1-8).
type Orientation int

const (
	Normal     Orientation = 1
	FlipH      Orientation = 2
	Rotate180  Orientation = 3
	FlipV      Orientation = 4
	Transpose  Orientation = 5
	Rotate90CW Orientation = 6
	Transverse Orientation = 7
	Rotate90CC Orientation = 8
)

// ErrDegenerate возвращается для изображения без пикселей.
var ErrDegenerate = errors.New("изображение не содержит пикселей")

// Valid возвращает true для значений 1-8.
func (o Orientation) Valid() bool {
	return o >= Normal && o <= Rotate90CC
}

// SwapsAxes возвращает true, если ориентация меняет местами ширину и высоту.
func (o Orientation) SwapsAxes() bool {
	return o >= Transpose && o <= Rotate90CC
}

// Read читает тег ориентации из файла.
// Отсутствие EXIF или тега не является ошибкой: возвращается Normal.
func Read(path string) (Orientation, error) {
	f, err := os.Open(path)
	if err != nil {
		return Normal, fmt.Errorf("не удалось открыть файл: %w", err)
	}
	defer func() { _ = f.Close() }()

	// Нет EXIF-сегмента или он повреждён
	x, err := exif.Decode(f)
	if err != nil && x == nil {
		return Normal, nil
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return Normal, nil
	}

	v, err := tag.Int(0)
	if err != nil {
		return Normal, nil
	}

	o := Orientation(v)
	if !o.Valid() {
		return Normal, nil
	}
	return o, nil
}

// Apply физически поворачивает/отражает пиксели так, чтобы изображение
// стало «прямым» при ориентации Normal.
func Apply(img image.Image, o Orientation) (*image.NRGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrDegenerate
	}

	switch o {
	case FlipH:
		return imaging.FlipH(img), nil
	case Rotate180:
		return imaging.Rotate180(img), nil
	case FlipV:
		return imaging.FlipV(img), nil
	case Transpose:
		return imaging.Transpose(img), nil
	case Rotate90CW:
		return imaging.Rotate270(img), nil
	case Transverse:
		return imaging.Transverse(img), nil
	case Rotate90CC:
		return imaging.Rotate90(img), nil
	default:
		return imaging.Clone(img), nil
	}
}

// Dimensions возвращает размеры изображения после применения ориентации.
func Dimensions(width, height int, o Orientation) (int, int) {
	if o.SwapsAxes() {
		return height, width
	}
	return width, height
}
