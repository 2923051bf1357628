// Package imgtest генерирует JPEG-файлы с известными свойствами для тестов.
package imgtest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"testing"
)

// Gradient создаёт изображение w x h с уникальным цветом в каждой области.
func Gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

// EncodeJPEG кодирует изображение в JPEG с качеством 95.
func EncodeJPEG(tb testing.TB, img image.Image) []byte {
	tb.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		tb.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

// WithOrientation вставляет после SOI минимальный APP1-сегмент EXIF
// с единственным тегом Orientation.
func WithOrientation(data []byte, orientation int) []byte {
	// TIFF: заголовок (8) + IFD0 с одной записью (2 + 12 + 4)
	tiff := make([]byte, 26)
	copy(tiff[0:4], "II*\x00")
	binary.LittleEndian.PutUint32(tiff[4:8], 8)
	binary.LittleEndian.PutUint16(tiff[8:10], 1)
	binary.LittleEndian.PutUint16(tiff[10:12], 0x0112) // Orientation
	binary.LittleEndian.PutUint16(tiff[12:14], 3)      // SHORT
	binary.LittleEndian.PutUint32(tiff[14:18], 1)
	binary.LittleEndian.PutUint16(tiff[18:20], uint16(orientation))
	binary.LittleEndian.PutUint32(tiff[22:26], 0)

	payload := append([]byte("Exif\x00\x00"), tiff...)

	seg := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:4], uint16(len(payload)+2))
	seg = append(seg, payload...)

	out := make([]byte, 0, len(data)+len(seg))
	out = append(out, data[:2]...) // SOI
	out = append(out, seg...)
	out = append(out, data[2:]...)
	return out
}

// HasEXIF возвращает true, если в JPEG есть APP1-сегмент EXIF.
func HasEXIF(data []byte) bool {
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			return false
		}
		marker := data[i+1]
		// SOS: дальше идут данные изображения
		if marker == 0xDA {
			return false
		}
		n := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if marker == 0xE1 && i+10 <= len(data) && string(data[i+4:i+10]) == "Exif\x00\x00" {
			return true
		}
		i += 2 + n
	}
	return false
}

// WriteJPEG записывает градиентный JPEG w x h в path.
func WriteJPEG(tb testing.TB, path string, w, h int) []byte {
	tb.Helper()
	data := EncodeJPEG(tb, Gradient(w, h))
	writeFile(tb, path, data)
	return data
}

// WriteOrientedJPEG записывает JPEG w x h с тегом ориентации.
func WriteOrientedJPEG(tb testing.TB, path string, w, h, orientation int) []byte {
	tb.Helper()
	data := WithOrientation(EncodeJPEG(tb, Gradient(w, h)), orientation)
	writeFile(tb, path, data)
	return data
}

// Size возвращает размеры JPEG-файла без полного декодирования.
func Size(tb testing.TB, path string) (int, int) {
	tb.Helper()
	f, err := os.Open(path)
	if err != nil {
		tb.Fatalf("Open(%s): %v", path, err)
	}
	defer func() { _ = f.Close() }()

	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		tb.Fatalf("DecodeConfig(%s): %v", path, err)
	}
	return cfg.Width, cfg.Height
}

func writeFile(tb testing.TB, path string, data []byte) {
	tb.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		tb.Fatalf("WriteFile(%s): %v", path, err)
	}
}
