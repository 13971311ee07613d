package cli

import (
	"errors"
	"fmt"

	"gtd-cli/internal/store"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Inspect inbox items",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List items (newest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			items, err := ws.store.ListItems(cmdContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": items})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one item with its attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			it, err := ws.store.FindItem(cmdContext(cmd), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return writeErr(cmd, fmt.Errorf("item not found: %s", args[0]))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			paths := make([]string, 0, len(it.Attachments))
			for _, a := range it.Attachments {
				paths = append(paths, ws.store.AttachmentAbsPath(a))
			}
			return writeOut(cmd, app, map[string]any{
				"data": it,
				"meta": map[string]any{"attachmentPaths": paths},
			})
		},
	})
	return cmd
}
