package platform

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 80, A: 255})
		}
	}
	p := filepath.Join(t.TempDir(), "shot.png")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestEditor_CropsToSquare(t *testing.T) {
	src := writePNG(t, 40, 20)
	e := Editor{TempDir: t.TempDir()}

	a, err := e.Apply(src, DefaultLaunchOptions(), Camera)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if a.Width != 20 || a.Height != 20 {
		t.Fatalf("expected 20x20, got %dx%d", a.Width, a.Height)
	}
	if a.Name != "shot.jpg" || a.MimeType != "image/jpeg" || a.Source != Camera || a.Size <= 0 {
		t.Fatalf("unexpected asset: %#v", a)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source must be left in place: %v", err)
	}
}

func TestEditor_NoEditingKeepsSize(t *testing.T) {
	src := writePNG(t, 30, 10)
	opts := DefaultLaunchOptions()
	opts.AllowsEditing = false

	a, err := Editor{TempDir: t.TempDir()}.Apply(src, opts, MediaLibrary)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if a.Width != 30 || a.Height != 10 {
		t.Fatalf("expected 30x10, got %dx%d", a.Width, a.Height)
	}
}

func TestEditor_RejectsNonImage(t *testing.T) {
	p := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (Editor{TempDir: t.TempDir()}).Apply(p, DefaultLaunchOptions(), MediaLibrary); err == nil {
		t.Fatalf("expected ErrNotImage")
	}
}

func TestCropToAspect(t *testing.T) {
	cases := []struct {
		w, h   int
		aspect Aspect
		wantW  int
		wantH  int
	}{
		{100, 50, Aspect{1, 1}, 50, 50},
		{50, 100, Aspect{1, 1}, 50, 50},
		{160, 160, Aspect{16, 9}, 160, 90},
		{64, 64, Aspect{1, 1}, 64, 64},
	}
	for _, tc := range cases {
		img := image.NewRGBA(image.Rect(0, 0, tc.w, tc.h))
		b := cropToAspect(img, tc.aspect).Bounds()
		if b.Dx() != tc.wantW || b.Dy() != tc.wantH {
			t.Fatalf("%dx%d @%s: got %dx%d", tc.w, tc.h, tc.aspect, b.Dx(), b.Dy())
		}
	}
}

func TestJPEGQuality(t *testing.T) {
	for q, want := range map[float64]int{0.5: 50, 1: 100, 0: 75, 2: 75, 0.001: 1} {
		if got := jpegQuality(q); got != want {
			t.Fatalf("jpegQuality(%v) = %d, want %d", q, got, want)
		}
	}
}
