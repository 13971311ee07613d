package platform

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"
)

func TestExecCamera_NoCommandIsUnavailable(t *testing.T) {
	_, err := ExecCamera{}.Launch(context.Background(), DefaultLaunchOptions())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestExecCamera_NoOutputIsCancel(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX true(1)")
	}
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true(1) not available")
	}
	cam := ExecCamera{Command: "true {out}", Editor: Editor{TempDir: t.TempDir()}}
	a, err := cam.Launch(context.Background(), DefaultLaunchOptions())
	if err != nil || a != nil {
		t.Fatalf("expected cancel, got %#v, %v", a, err)
	}
}

func TestExecCamera_CopiesCapturedImage(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX cp(1)")
	}
	if _, err := exec.LookPath("cp"); err != nil {
		t.Skip("cp(1) not available")
	}
	src := writePNG(t, 12, 6)
	cam := ExecCamera{Command: "cp '" + src + "' {out}", Editor: Editor{TempDir: t.TempDir()}}
	a, err := cam.Launch(context.Background(), DefaultLaunchOptions())
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if a == nil || a.Source != Camera || a.Width != 6 || a.Height != 6 {
		t.Fatalf("unexpected asset: %#v", a)
	}
}

func TestExecCamera_MissingBinaryIsError(t *testing.T) {
	cam := ExecCamera{Command: "gtd-no-such-camera-binary {out}", Editor: Editor{TempDir: t.TempDir()}}
	if _, err := cam.Launch(context.Background(), DefaultLaunchOptions()); err == nil {
		t.Fatalf("expected error")
	}
}
