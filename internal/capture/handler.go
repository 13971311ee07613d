// Package capture turns text-field submissions into item-creation actions.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gtd-cli/internal/model"
	"gtd-cli/internal/platform"
)

// ErrNilText is reported when a submit event carries no text payload.
var ErrNilText = errors.New("capture: submit without text")

// Action is something the item store knows how to apply.
type Action interface {
	ActionType() string
}

// CreateItemAction asks the store to create Item with Assets attached.
type CreateItemAction struct {
	Item   model.Item
	Assets []platform.Asset
}

func (CreateItemAction) ActionType() string { return "item.create" }

// Dispatcher applies actions to the item store.
type Dispatcher interface {
	Dispatch(ctx context.Context, a Action) error
}

// Field is the input control a submission came from. Focus is only changed
// through it; submitting never blurs implicitly.
type Field interface {
	Reset()
	Blur()
}

type Result struct {
	Created bool
	Blurred bool
	Item    model.Item
	Err     error
}

type Handler struct {
	Dispatcher Dispatcher
	Draft      *Draft
	Logger     *slog.Logger
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return h.Logger
}

// Submit handles one submit event. text is the field's value read by the
// caller; nil means the event had no payload.
//
// Non-blank text creates an item and resets the field (it keeps focus).
// Blank text blurs the field. Failures are logged and leave the field as is.
func (h *Handler) Submit(ctx context.Context, text *string, field Field) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("capture: submit panicked: %v", r)}
			h.logger().Error("submit failed", "err", res.Err)
		}
	}()

	if text == nil {
		h.logger().Error("submit failed", "err", ErrNilText)
		return Result{Err: ErrNilText}
	}

	title := strings.TrimSpace(*text)
	if title == "" {
		if field != nil {
			field.Blur()
		}
		return Result{Blurred: true}
	}
	if h.Dispatcher == nil {
		err := errors.New("capture: no dispatcher")
		h.logger().Error("submit failed", "err", err)
		return Result{Err: err}
	}

	it := model.NewItem(title)
	var assets []platform.Asset
	if h.Draft != nil {
		assets = h.Draft.Pending()
	}
	if err := h.Dispatcher.Dispatch(ctx, CreateItemAction{Item: it, Assets: assets}); err != nil {
		h.logger().Error("submit failed", "title", title, "err", err)
		return Result{Err: err}
	}
	if h.Draft != nil {
		h.Draft.Remove(assets)
	}
	if field != nil {
		field.Reset()
	}
	h.logger().Info("item submitted", "title", title, "attachments", len(assets))
	return Result{Created: true, Item: it}
}
