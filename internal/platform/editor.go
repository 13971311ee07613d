package platform

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"strings"

	// Decoders for the formats a library pick may return.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned when a launched file cannot be decoded as an image.
var ErrNotImage = errors.New("platform: not a supported image")

// Editor applies LaunchOptions to a freshly launched file: it crops to the
// requested aspect (when editing is allowed) and re-encodes as JPEG at the
// requested quality. Output files are written to TempDir.
type Editor struct {
	TempDir string
}

// Apply processes src and returns the resulting asset. src is never modified.
func (e Editor) Apply(src string, opts LaunchOptions, source Capability) (*Asset, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotImage, filepath.Base(src), err)
	}

	if opts.AllowsEditing && opts.Aspect.Valid() {
		img = cropToAspect(img, opts.Aspect)
	}

	out, err := os.CreateTemp(e.TempDir, "gtd-asset-*.jpg")
	if err != nil {
		return nil, err
	}
	path := out.Name()
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: jpegQuality(opts.Quality)}); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return nil, err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	return &Asset{
		Path:     path,
		Name:     jpegName(src),
		MimeType: "image/jpeg",
		Width:    b.Dx(),
		Height:   b.Dy(),
		Size:     st.Size(),
		Source:   source,
	}, nil
}

// cropToAspect returns the largest centered region of img with the given aspect.
func cropToAspect(img image.Image, a Aspect) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}

	cw, ch := w, h
	if w*a.H > h*a.W {
		cw = h * a.W / a.H
	} else {
		ch = w * a.H / a.W
	}
	if cw == w && ch == h {
		return img
	}
	x0 := b.Min.X + (w-cw)/2
	y0 := b.Min.Y + (h-ch)/2
	r := image.Rect(x0, y0, x0+cw, y0+ch)

	if sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, cw, ch))
	xdraw.Copy(dst, image.Point{}, img, r, xdraw.Src, nil)
	return dst
}

func jpegQuality(q float64) int {
	if q <= 0 || q > 1 {
		return jpeg.DefaultQuality
	}
	n := int(math.Round(q * 100))
	if n < 1 {
		n = 1
	}
	return n
}

func jpegName(src string) string {
	base := filepath.Base(strings.TrimSpace(src))
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if name == "" || name == "." {
		name = "photo"
	}
	return name + ".jpg"
}
