package converter

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/artemshloyda/galleryprep/internal/config"
	"github.com/artemshloyda/galleryprep/internal/imgtest"
	"github.com/artemshloyda/galleryprep/internal/orient"
)

func TestThumbnailSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, target int
		wantW, wantH int
	}{
		{"landscape 4:3", 4000, 3000, 250, 333, 250},
		{"portrait 2:3", 2000, 3000, 250, 167, 250},
		{"square", 800, 800, 250, 250, 250},
		{"upscale", 100, 50, 250, 500, 250},
		{"very tall", 1, 5000, 250, 1, 250},
		{"degenerate", 0, 10, 250, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ThumbnailSize(tt.w, tt.h, tt.target)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("ThumbnailSize(%d, %d, %d) = %dx%d, want %dx%d",
					tt.w, tt.h, tt.target, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestThumbnailSize_AspectRatio(t *testing.T) {
	// Отношение сторон сохраняется с точностью до одного пикселя
	for w := 1; w <= 5000; w += 37 {
		for _, h := range []int{1, 7, 250, 333, 2999, 4000} {
			nw, nh := ThumbnailSize(w, h, 250)
			exact := 250 * float64(w) / float64(h)
			if exact >= 1 && math.Abs(float64(nw)-exact) > 1 {
				t.Fatalf("ThumbnailSize(%d, %d) = %dx%d, exact width %.2f", w, h, nw, nh, exact)
			}
		}
	}
}

func TestFitLongSide(t *testing.T) {
	tests := []struct {
		name        string
		w, h, max   int
		wantW       int
		wantH       int
		wantResized bool
	}{
		{"landscape over", 4000, 3000, 3000, 3000, 2250, true},
		{"portrait over", 3000, 4000, 3000, 2250, 3000, true},
		{"truncates short side", 1000, 3001, 3000, 999, 3000, true},
		{"truncates landscape", 4001, 3001, 3000, 3000, 2250, true},
		{"square over", 5000, 5000, 3000, 3000, 3000, true},
		{"exactly max", 3000, 10, 3000, 3000, 10, false},
		{"under max", 1200, 800, 3000, 1200, 800, false},
		{"thin strip", 10000, 1, 3000, 3000, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, resized := FitLongSide(tt.w, tt.h, tt.max)
			if w != tt.wantW || h != tt.wantH || resized != tt.wantResized {
				t.Errorf("FitLongSide(%d, %d, %d) = %dx%d resized=%v, want %dx%d resized=%v",
					tt.w, tt.h, tt.max, w, h, resized, tt.wantW, tt.wantH, tt.wantResized)
			}
		})
	}
}

func TestFitLongSide_Properties(t *testing.T) {
	const maxDim = 300
	for w := 1; w <= 900; w += 13 {
		for h := 1; h <= 900; h += 17 {
			nw, nh, resized := FitLongSide(w, h, maxDim)
			if max(w, h) <= maxDim {
				if resized || nw != w || nh != h {
					t.Fatalf("FitLongSide(%d, %d) changed dimensions to %dx%d", w, h, nw, nh)
				}
				continue
			}
			if max(nw, nh) != maxDim {
				t.Fatalf("FitLongSide(%d, %d) long side = %d, want %d", w, h, max(nw, nh), maxDim)
			}
			exact := float64(min(w, h)) / float64(max(w, h)) * maxDim
			if math.Abs(float64(min(nw, nh))-exact) > 1 {
				t.Fatalf("FitLongSide(%d, %d) short side = %d, exact %.2f", w, h, min(nw, nh), exact)
			}
		}
	}
}

func newTestConverter(modify func(c *config.Config)) *Converter {
	cfg := config.DefaultConfig()
	if modify != nil {
		modify(cfg)
	}
	return New(cfg)
}

func TestConverter_Thumbnail(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "thumb.jpg")
	imgtest.WriteJPEG(t, src, 400, 300)

	conv := newTestConverter(func(c *config.Config) { c.Height = 60 })
	res := conv.Thumbnail(src, dst)
	if !res.Success {
		t.Fatalf("Thumbnail() error = %v", res.Error)
	}

	w, h := imgtest.Size(t, dst)
	if w != 80 || h != 60 {
		t.Errorf("thumbnail size = %dx%d, want 80x60", w, h)
	}
	if res.NewWidth != 80 || res.NewHeight != 60 || res.OldWidth != 400 || res.OldHeight != 300 {
		t.Errorf("Result dims = %dx%d -> %dx%d, want 400x300 -> 80x60",
			res.OldWidth, res.OldHeight, res.NewWidth, res.NewHeight)
	}
	if res.Bytes <= 0 {
		t.Errorf("Result.Bytes = %d, want > 0", res.Bytes)
	}

	if _, err := os.Stat(src); err != nil {
		t.Errorf("source must not be touched: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("directory has %d entries, want 2 (no temp files left)", len(entries))
	}
}

func TestConverter_ThumbnailCorrupt(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.jpg")
	dst := filepath.Join(dir, "thumbs.jpg")
	if err := os.WriteFile(src, []byte("not a jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	res := newTestConverter(nil).Thumbnail(src, dst)
	if res.Success {
		t.Fatal("Thumbnail(corrupt) should fail")
	}
	if !errors.Is(res.Error, ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", res.Error)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("no thumbnail should be written for a corrupt source")
	}
}

func TestConverter_ThumbnailUnwritable(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	imgtest.WriteJPEG(t, src, 40, 30)

	res := newTestConverter(func(c *config.Config) { c.Height = 10 }).
		Thumbnail(src, filepath.Join(dir, "missing", "thumb.jpg"))
	if res.Success {
		t.Fatal("Thumbnail() into a missing directory should fail")
	}
	if !errors.Is(res.Error, ErrEncode) {
		t.Errorf("error = %v, want ErrEncode", res.Error)
	}
}

func TestConverter_WebResizeNoResize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.jpg")
	imgtest.WriteJPEG(t, path, 120, 80)

	res := newTestConverter(func(c *config.Config) { c.MaxDimension = 300 }).WebResize(path)
	if !res.Success {
		t.Fatalf("WebResize() error = %v", res.Error)
	}
	if res.Resized {
		t.Error("image under the limit must not be resized")
	}

	w, h := imgtest.Size(t, path)
	if w != 120 || h != 80 {
		t.Errorf("size = %dx%d, want 120x80", w, h)
	}
}

func TestConverter_WebResizeDownscale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.jpg")
	imgtest.WriteJPEG(t, path, 400, 301)

	res := newTestConverter(func(c *config.Config) { c.MaxDimension = 300 }).WebResize(path)
	if !res.Success {
		t.Fatalf("WebResize() error = %v", res.Error)
	}

	// 301/400*300 = 225.75 -> 225
	w, h := imgtest.Size(t, path)
	if w != 300 || h != 225 {
		t.Errorf("size = %dx%d, want 300x225", w, h)
	}
	if !res.Resized || res.OldWidth != 400 || res.OldHeight != 301 {
		t.Errorf("Result = %+v, want resized from 400x301", res)
	}
}

func TestConverter_WebResizeBytesMatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.jpg")
	imgtest.WriteJPEG(t, path, 400, 300)

	res := newTestConverter(func(c *config.Config) { c.MaxDimension = 100 }).WebResize(path)
	if !res.Success {
		t.Fatalf("WebResize() error = %v", res.Error)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Bytes == 0 || res.Bytes != info.Size() {
		t.Errorf("Bytes = %d, file size = %d", res.Bytes, info.Size())
	}
}

func TestConverter_WebResizeSymlinkWritesThrough(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real", "t.jpg")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	imgtest.WriteJPEG(t, target, 400, 300)

	link := filepath.Join(dir, "link.jpg")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	res := newTestConverter(func(c *config.Config) { c.MaxDimension = 100 }).WebResize(link)
	if !res.Success {
		t.Fatalf("WebResize() error = %v", res.Error)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Error("link.jpg must stay a symlink")
	}
	if w, h := imgtest.Size(t, target); w != 100 || h != 75 {
		t.Errorf("target size = %dx%d, want 100x75", w, h)
	}

	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("target directory has %d entries, want only t.jpg", len(entries))
	}
}

func TestConverter_WebResizeOrientation(t *testing.T) {
	// Уменьшенная копия сценария 4000x3000 с orientation=6
	path := filepath.Join(t.TempDir(), "rotated.jpg")
	imgtest.WriteOrientedJPEG(t, path, 400, 300, int(orient.Rotate90CW))

	res := newTestConverter(func(c *config.Config) { c.MaxDimension = 300 }).WebResize(path)
	if !res.Success {
		t.Fatalf("WebResize() error = %v", res.Error)
	}
	if res.Orientation != orient.Rotate90CW {
		t.Errorf("Orientation = %d, want %d", res.Orientation, orient.Rotate90CW)
	}

	// Прямое изображение 300x400 -> 225x300
	w, h := imgtest.Size(t, path)
	if w != 225 || h != 300 {
		t.Errorf("size = %dx%d, want 225x300", w, h)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if imgtest.HasEXIF(data) {
		t.Error("output must not carry EXIF")
	}
	if o, _ := orient.Read(path); o != orient.Normal {
		t.Errorf("orientation after resize = %d, want %d", o, orient.Normal)
	}
}

func TestConverter_WebResizeCorruptKeepsOriginal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	original := []byte("\xff\xd8garbage")
	if err := os.WriteFile(path, original, 0644); err != nil {
		t.Fatal(err)
	}

	res := newTestConverter(nil).WebResize(path)
	if res.Success {
		t.Fatal("WebResize(corrupt) should fail")
	}
	if !errors.Is(res.Error, ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", res.Error)
	}

	got, _ := os.ReadFile(path)
	if string(got) != string(original) {
		t.Error("corrupt original must be left as is")
	}
}

func TestConverter_PlanWebResize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotated.jpg")
	data := imgtest.WriteOrientedJPEG(t, path, 400, 300, int(orient.Rotate90CC))

	res := newTestConverter(func(c *config.Config) { c.MaxDimension = 300 }).PlanWebResize(path)
	if !res.Success {
		t.Fatalf("PlanWebResize() error = %v", res.Error)
	}
	if res.OldWidth != 300 || res.OldHeight != 400 || res.NewWidth != 225 || res.NewHeight != 300 {
		t.Errorf("plan = %dx%d -> %dx%d, want 300x400 -> 225x300",
			res.OldWidth, res.OldHeight, res.NewWidth, res.NewHeight)
	}

	got, _ := os.ReadFile(path)
	if string(got) != string(data) {
		t.Error("PlanWebResize must not modify the file")
	}
}
