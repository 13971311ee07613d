package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gtd-cli/internal/capture"
	"gtd-cli/internal/model"
	"gtd-cli/internal/perm"
	"gtd-cli/internal/platform"
	"gtd-cli/internal/store"

	"github.com/spf13/cobra"
)

// itemRecorder creates items through the store and keeps the last one so the
// command can print its id.
type itemRecorder struct {
	store   store.Store
	created model.Item
}

func (r *itemRecorder) Dispatch(ctx context.Context, a capture.Action) error {
	act, ok := a.(capture.CreateItemAction)
	if !ok {
		return r.store.Dispatch(ctx, a)
	}
	it, err := r.store.CreateItem(ctx, act.Item, act.Assets)
	if err != nil {
		return err
	}
	r.created = it
	return nil
}

// argsField stands in for the text field when the title comes from argv.
type argsField struct{}

func (argsField) Reset() {}
func (argsField) Blur()  {}

func newAddCmd(app *App) *cobra.Command {
	var with []string

	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add an item to the inbox",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			ctx := cmdContext(cmd)

			draft := &capture.Draft{}
			defer draft.Discard()

			if len(with) > 0 {
				ctl, err := app.newController(ctx, ws, draft, cmd.ErrOrStderr())
				if err != nil {
					return writeErr(cmd, err)
				}
				for _, w := range with {
					c, err := platform.ParseCapability(w)
					if err != nil {
						return writeErr(cmd, err)
					}
					out, err := ctl.Acquire(ctx, c)
					if err != nil {
						return writeErr(cmd, err)
					}
					if out != perm.OutcomeLaunched {
						return writeErr(cmd, fmt.Errorf("no photo from %s (%s); item not added", c, out))
					}
				}
			}

			rec := &itemRecorder{store: ws.store}
			h := &capture.Handler{Dispatcher: rec, Draft: draft, Logger: ws.log}
			text := strings.Join(args, " ")
			res := h.Submit(ctx, &text, argsField{})
			if res.Err != nil {
				return writeErr(cmd, res.Err)
			}
			if res.Blurred {
				return writeErr(cmd, errors.New("missing title"))
			}
			return writeOut(cmd, app, map[string]any{"data": rec.created})
		},
	}
	cmd.Flags().StringSliceVar(&with, "with", nil, "Attach a photo first: camera|library (repeatable)")
	return cmd
}
