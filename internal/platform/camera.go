package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ExecCamera captures a photo by running an external command. The command
// gets an output path (substituted for {out}, or appended) and is expected to
// write an image there. A command that exits without writing the file is
// treated as a cancelled capture.
type ExecCamera struct {
	Command string
	Editor  Editor

	// Stdout/Stderr receive the command's output; nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

func (c ExecCamera) Launch(ctx context.Context, opts LaunchOptions) (*Asset, error) {
	if strings.TrimSpace(c.Command) == "" {
		return nil, fmt.Errorf("camera: no capture command configured: %w", ErrUnavailable)
	}

	tmp, err := os.CreateTemp(c.Editor.TempDir, "gtd-capture-*.jpg")
	if err != nil {
		return nil, err
	}
	outPath := tmp.Name()
	_ = tmp.Close()
	// The command must create the file itself; an empty placeholder would
	// look like a successful capture.
	_ = os.Remove(outPath)
	defer func() { _ = os.Remove(outPath) }()

	args := commandArgs(c.Command, outPath)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = discardIfNil(c.Stdout)
	cmd.Stderr = discardIfNil(c.Stderr)

	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	var execErr *exec.Error
	if errors.As(runErr, &execErr) {
		return nil, fmt.Errorf("camera: %w", runErr)
	}

	st, err := os.Stat(outPath)
	if err != nil || st.Size() == 0 {
		return nil, nil
	}
	return c.Editor.Apply(outPath, opts, Camera)
}

func discardIfNil(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
