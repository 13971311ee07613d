package platform

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// ImageExtensions are the file types offered by the library launcher.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// FileChooser lets the user pick one file under dir. An empty path means the
// user cancelled.
type FileChooser interface {
	ChooseFile(ctx context.Context, dir string, allowed []string) (string, error)
}

// FileLibrary is the photo-library launcher: a file chooser rooted at Dir.
type FileLibrary struct {
	Dir     string
	Chooser FileChooser
	Editor  Editor
}

func (l FileLibrary) Launch(ctx context.Context, opts LaunchOptions) (*Asset, error) {
	if l.Chooser == nil {
		return nil, ErrUnavailable
	}
	allowed := ImageExtensions
	if opts.MediaKind != "" && opts.MediaKind != MediaKindImage {
		allowed = nil
	}

	path, err := l.Chooser.ChooseFile(ctx, LibraryDir(l.Dir), allowed)
	if err != nil {
		return nil, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	return l.Editor.Apply(path, opts, MediaLibrary)
}

// LibraryDir resolves the starting directory for library picks: the
// configured dir, else ~/Pictures, else the home directory.
func LibraryDir(configured string) string {
	if d := strings.TrimSpace(configured); d != "" {
		if strings.HasPrefix(d, "~") {
			if home, err := os.UserHomeDir(); err == nil {
				d = filepath.Join(home, strings.TrimPrefix(d, "~"))
			}
		}
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return "."
	}
	pics := filepath.Join(home, "Pictures")
	if st, err := os.Stat(pics); err == nil && st.IsDir() {
		return pics
	}
	return home
}

func hasAllowedExt(path string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
