package cli

import (
	"context"
	"io"

	"gtd-cli/internal/perm"
	"gtd-cli/internal/platform"
)

// newController wires the acquisition controller for one CLI invocation and
// refreshes its grants. Prompts and notices go to the terminal.
func (app *App) newController(ctx context.Context, ws *workspace, sink perm.AssetSink, errOut io.Writer) (*perm.Controller, error) {
	term := platform.Terminal{Err: errOut}

	var prompter platform.Prompter = term
	if app.prompter != nil {
		prompter = app.prompter
	}
	var alerter platform.Alerter = term
	if app.alerter != nil {
		alerter = app.alerter
	}
	var chooser platform.FileChooser = term
	if app.chooser != nil {
		chooser = app.chooser
	}
	var picker platform.Picker = platform.Launchers{
		Camera:  platform.ExecCamera{Command: ws.cfg.CameraCommand, Stderr: errOut},
		Library: platform.FileLibrary{Dir: ws.cfg.LibraryDir, Chooser: chooser},
	}
	if app.picker != nil {
		picker = app.picker
	}

	grants := &platform.Grants{Store: ws.store, Prompter: prompter, AppName: ws.cfg.AppName}
	ctl := perm.NewController(perm.Config{
		Permissions: grants,
		Picker:      picker,
		Alerter:     alerter,
		Sink:        sink,
		Options:     ws.cfg.Launch,
		AppName:     ws.cfg.AppName,
		Logger:      ws.log,
	})
	if err := ctl.Tracker().Refresh(ctx, grants); err != nil {
		return nil, err
	}
	return ctl, nil
}
