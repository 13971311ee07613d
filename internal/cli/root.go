package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gtd-cli/internal/config"
	"gtd-cli/internal/format"
	"gtd-cli/internal/logging"
	"gtd-cli/internal/platform"
	"gtd-cli/internal/store"
	"gtd-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string

	// Interactive collaborators; nil means the survey-backed terminal.
	prompter platform.Prompter
	alerter  platform.Alerter
	chooser  platform.FileChooser
	picker   platform.Picker
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "gtd",
		Short:        "GTD quick capture (inbox widget + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the capture widget
  gtd

  # Add an item, with a photo from the camera
  gtd add Receipt for lunch --with camera

  # Attach a photo to an existing item
  gtd attach library --item item-abcd1234

  # Direct item lookup (shortcut for: gtd items show <item-id>)
  gtd item-abcd1234
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("GTD_DIR", ""), "Path to the workspace dir (default: ./.gtd found upwards, else ~/.gtd)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", format.Default(), "Output format (json|yaml)")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newAttachCmd(app))
	cmd.AddCommand(newPermissionsCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	return cmd
}

// workspace is everything a command needs from the resolved workspace.
type workspace struct {
	store  store.Store
	cfg    *config.Resolved
	log    *slog.Logger
	closer io.Closer
}

func (w *workspace) Close() error {
	if w == nil || w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

func openWorkspace(app *App) (*workspace, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
		app.Dir = dir
	}
	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	cfg, err := config.Resolve(dir)
	if err != nil {
		return nil, err
	}
	log, closer, err := logging.OpenFile(s.LogPath(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &workspace{store: s, cfg: cfg, log: log, closer: closer}, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	ws, err := openWorkspace(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer ws.Close()
	return tui.Run(cmdContext(cmd), tui.Config{
		Store:         ws.store,
		AppName:       ws.cfg.AppName,
		CameraCommand: ws.cfg.CameraCommand,
		LibraryDir:    ws.cfg.LibraryDir,
		Launch:        ws.cfg.Launch,
		Logger:        ws.log,
	})
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
