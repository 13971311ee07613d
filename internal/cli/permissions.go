package cli

import (
	"gtd-cli/internal/platform"

	"github.com/spf13/cobra"
)

type permissionRow struct {
	Capability  platform.Capability `json:"capability"`
	Status      platform.GrantStatus `json:"status"`
	Granted     bool                 `json:"granted"`
	CanAskAgain bool                 `json:"canAskAgain"`
}

func permissionRows(all map[platform.Capability]platform.GrantStatus) []permissionRow {
	rows := make([]permissionRow, 0, len(all))
	for _, c := range platform.Capabilities() {
		st := all[c]
		ps := st.State()
		rows = append(rows, permissionRow{Capability: c, Status: st, Granted: ps.Granted, CanAskAgain: ps.CanAskAgain})
	}
	return rows
}

func newPermissionsCmd(app *App) *cobra.Command {
	list := func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(app)
		if err != nil {
			return writeErr(cmd, err)
		}
		defer ws.Close()
		all, err := ws.store.GrantStatuses(cmdContext(cmd))
		if err != nil {
			return writeErr(cmd, err)
		}
		return writeOut(cmd, app, map[string]any{"data": permissionRows(all)})
	}

	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Show or change camera and photo-library grants",
		Args:  cobra.NoArgs,
		RunE:  list,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <camera|library> <status>",
		Short: "Record a grant status (not_determined|granted|denied|permanently_denied|restricted)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := platform.ParseCapability(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := platform.ParseGrantStatus(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			if err := ws.store.SetGrantStatus(cmdContext(cmd), c, st); err != nil {
				return writeErr(cmd, err)
			}
			ws.log.Info("permission set", "capability", c, "status", st)
			return list(cmd, nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "request <camera|library>",
		Short: "Ask for a grant now (no-op when already decided)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := platform.ParseCapability(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()

			var prompter platform.Prompter = platform.Terminal{Err: cmd.ErrOrStderr()}
			if app.prompter != nil {
				prompter = app.prompter
			}
			g := &platform.Grants{Store: ws.store, Prompter: prompter, AppName: ws.cfg.AppName}
			req := g.RequestCameraPermission
			if c == platform.MediaLibrary {
				req = g.RequestMediaLibraryPermission
			}
			if _, err := req(cmdContext(cmd)); err != nil {
				return writeErr(cmd, err)
			}
			return list(cmd, nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget every recorded answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			if err := ws.store.ResetGrants(cmdContext(cmd)); err != nil {
				return writeErr(cmd, err)
			}
			return list(cmd, nil)
		},
	})
	return cmd
}
