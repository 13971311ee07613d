// Package tui is the interactive quick-capture widget: one text field that
// adds inbox items, plus camera and photo-library acquisition.
package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"gtd-cli/internal/platform"
	"gtd-cli/internal/store"
)

// Config is what Run needs to build the desktop collaborators.
type Config struct {
	Store         store.Store
	AppName       string
	CameraCommand string
	LibraryDir    string
	Launch        platform.LaunchOptions
	Logger        *slog.Logger
}

func Run(ctx context.Context, cfg Config) error {
	applyThemePreference()
	applyColorProfilePreference()

	b := newBridge()
	editor := platform.Editor{}
	deps := Deps{
		Permissions: &platform.Grants{Store: cfg.Store, Prompter: b, AppName: cfg.AppName},
		Picker: platform.Launchers{
			Camera:  platform.ExecCamera{Command: cfg.CameraCommand, Editor: editor},
			Library: platform.FileLibrary{Dir: cfg.LibraryDir, Chooser: b, Editor: editor},
		},
		Dispatcher: cfg.Store,
		AppName:    cfg.AppName,
		Options:    cfg.Launch,
		Logger:     cfg.Logger,
	}

	m := newWidgetModel(ctx, deps, b)
	defer m.cancel()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	// Unsubmitted photos are temp files.
	if n := m.draft.Discard(); n > 0 && cfg.Logger != nil {
		cfg.Logger.Info("discarded pending photos", "count", n)
	}
	return err
}
