package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gtd-cli/internal/capture"
	"gtd-cli/internal/model"
	"gtd-cli/internal/platform"
)

var ErrNotFound = errors.New("not found")

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// CreateItem assigns an id and timestamps to it, copies assets into the
// workspace and stores everything in one transaction. Copied files are
// removed again if the transaction fails.
func (s Store) CreateItem(ctx context.Context, it model.Item, assets []platform.Asset) (model.Item, error) {
	it.Title = strings.TrimSpace(it.Title)
	if it.Title == "" {
		return model.Item{}, errors.New("missing title")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Item{}, err
	}
	defer db.Close()

	id, err := newRandomID("item")
	if err != nil {
		return model.Item{}, err
	}
	now := time.Now().UTC()
	it.ID = id
	it.CreatedAt = now
	it.UpdatedAt = now
	it.Attachments = nil

	for _, asset := range assets {
		a, err := s.copyAsset(asset, 0)
		if err != nil {
			s.removeAttachmentFiles(it.Attachments)
			return model.Item{}, fmt.Errorf("attach %s: %w", asset.Path, err)
		}
		a.ItemID = id
		it.Attachments = append(it.Attachments, a)
	}

	err = withTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items(id, title, created_at_unixms, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			it.ID, it.Title, now.UnixMilli(), now.UnixMilli()); err != nil {
			return err
		}
		for _, a := range it.Attachments {
			if err := insertAttachment(ctx, tx, a); err != nil {
				return err
			}
		}
		_, err := appendEvent(ctx, tx, "item.create", it.ID, it)
		return err
	})
	if err != nil {
		s.removeAttachmentFiles(it.Attachments)
		return model.Item{}, err
	}
	return it, nil
}

// Dispatch applies a capture action.
func (s Store) Dispatch(ctx context.Context, a capture.Action) error {
	switch act := a.(type) {
	case capture.CreateItemAction:
		_, err := s.CreateItem(ctx, act.Item, act.Assets)
		return err
	case *capture.CreateItemAction:
		if act == nil {
			return errors.New("nil action")
		}
		_, err := s.CreateItem(ctx, act.Item, act.Assets)
		return err
	case nil:
		return errors.New("nil action")
	default:
		return fmt.Errorf("unsupported action: %s", a.ActionType())
	}
}

func findItemRow(ctx context.Context, db *sql.DB, id string) (model.Item, error) {
	var it model.Item
	var created, updated int64
	err := db.QueryRowContext(ctx,
		`SELECT id, title, created_at_unixms, updated_at_unixms FROM items WHERE id = ?`, id).
		Scan(&it.ID, &it.Title, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Item{}, err
	}
	it.CreatedAt = time.UnixMilli(created).UTC()
	it.UpdatedAt = time.UnixMilli(updated).UTC()
	return it, nil
}

// FindItem returns the item with its attachments.
func (s Store) FindItem(ctx context.Context, id string) (model.Item, error) {
	id = strings.TrimSpace(id)
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Item{}, err
	}
	defer db.Close()
	it, err := findItemRow(ctx, db, id)
	if err != nil {
		return model.Item{}, err
	}
	it.Attachments, err = listAttachments(ctx, db, id)
	if err != nil {
		return model.Item{}, err
	}
	return it, nil
}

// ListItems returns items newest first, each with its attachments.
func (s Store) ListItems(ctx context.Context) ([]model.Item, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT id, title, created_at_unixms, updated_at_unixms FROM items ORDER BY created_at_unixms DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	var out []model.Item
	for rows.Next() {
		var it model.Item
		var created, updated int64
		if err := rows.Scan(&it.ID, &it.Title, &created, &updated); err != nil {
			rows.Close()
			return nil, err
		}
		it.CreatedAt = time.UnixMilli(created).UTC()
		it.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		atts, err := listAttachments(ctx, db, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Attachments = atts
	}
	return out, nil
}
