package platform

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fixedChooser struct {
	path   string
	err    error
	gotDir string
}

func (c *fixedChooser) ChooseFile(ctx context.Context, dir string, allowed []string) (string, error) {
	c.gotDir = dir
	return c.path, c.err
}

func TestFileLibrary_LaunchEditsChosenFile(t *testing.T) {
	src := writePNG(t, 8, 4)
	ch := &fixedChooser{path: src}
	lib := FileLibrary{Dir: filepath.Dir(src), Chooser: ch, Editor: Editor{TempDir: t.TempDir()}}

	a, err := lib.Launch(context.Background(), DefaultLaunchOptions())
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if a == nil || a.Source != MediaLibrary || a.Width != 4 || a.Height != 4 {
		t.Fatalf("unexpected asset: %#v", a)
	}
	if ch.gotDir != filepath.Dir(src) {
		t.Fatalf("chooser dir = %q", ch.gotDir)
	}
}

func TestFileLibrary_EmptyChoiceIsCancel(t *testing.T) {
	lib := FileLibrary{Chooser: &fixedChooser{path: "  "}}
	a, err := lib.Launch(context.Background(), DefaultLaunchOptions())
	if err != nil || a != nil {
		t.Fatalf("expected cancel, got %#v, %v", a, err)
	}
}

func TestFileLibrary_NoChooserIsUnavailable(t *testing.T) {
	if _, err := (FileLibrary{}).Launch(context.Background(), DefaultLaunchOptions()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestLaunchers_MissingLauncherIsUnavailable(t *testing.T) {
	var l Launchers
	if _, err := l.LaunchCamera(context.Background(), DefaultLaunchOptions()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestLibraryDir(t *testing.T) {
	if got := LibraryDir("/srv/photos"); got != "/srv/photos" {
		t.Fatalf("LibraryDir = %q", got)
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got := LibraryDir("~/shots"); got != filepath.Join(home, "shots") {
		t.Fatalf("LibraryDir(~) = %q", got)
	}
	if got := LibraryDir(""); got != home {
		t.Fatalf("LibraryDir without Pictures = %q", got)
	}
	if err := os.Mkdir(filepath.Join(home, "Pictures"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := LibraryDir(""); got != filepath.Join(home, "Pictures") {
		t.Fatalf("LibraryDir with Pictures = %q", got)
	}
}

func TestSuggestFiles_FiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.jpg", "b.txt", "c.PNG"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	got := suggestFiles(dir, "", ImageExtensions)
	want := map[string]bool{"a.jpg": true, "c.PNG": true, "sub" + string(filepath.Separator): true}
	if len(got) != len(want) {
		t.Fatalf("suggestFiles = %v", got)
	}
	for _, g := range got {
		if !want[g] {
			t.Fatalf("unexpected suggestion %q in %v", g, got)
		}
	}
}
