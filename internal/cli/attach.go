package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gtd-cli/internal/model"
	"gtd-cli/internal/platform"
	"gtd-cli/internal/store"

	"github.com/spf13/cobra"
)

// attachSink stores an acquired asset on an existing item, or keeps it as is
// when no item was given.
type attachSink struct {
	store  store.Store
	itemID string

	asset      *platform.Asset
	attachment *model.Attachment
	err        error
}

func (s *attachSink) AcceptAsset(ctx context.Context, a platform.Asset) {
	s.asset = &a
	if s.itemID == "" {
		return
	}
	att, err := s.store.AddAttachment(ctx, s.itemID, a)
	if err != nil {
		s.err = err
		return
	}
	s.attachment = &att
	_ = os.Remove(a.Path)
}

func newAttachCmd(app *App) *cobra.Command {
	var itemID string

	cmd := &cobra.Command{
		Use:   "attach <camera|library>",
		Short: "Take or choose a photo, asking for permission when needed",
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
			ctx := cmdContext(cmd)

			itemID = strings.TrimSpace(itemID)
			if itemID != "" {
				if _, err := ws.store.FindItem(ctx, itemID); err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return writeErr(cmd, fmt.Errorf("item not found: %s", itemID))
					}
					return writeErr(cmd, err)
				}
			}

			sink := &attachSink{store: ws.store, itemID: itemID}
			ctl, err := app.newController(ctx, ws, sink, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			out, err := ctl.Acquire(ctx, c)
			if err != nil {
				return writeErr(cmd, err)
			}
			if sink.err != nil {
				return writeErr(cmd, sink.err)
			}

			data := map[string]any{
				"capability": c,
				"outcome":    out.String(),
				"permission": ctl.Tracker().State(c),
			}
			if sink.attachment != nil {
				data["attachment"] = sink.attachment
			} else if sink.asset != nil {
				data["asset"] = sink.asset
			}
			return writeOut(cmd, app, map[string]any{"data": data})
		},
	}
	cmd.Flags().StringVar(&itemID, "item", "", "Item to attach the photo to (default: just print the photo's path)")
	return cmd
}
