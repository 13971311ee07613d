package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gtd-cli/internal/model"
	"gtd-cli/internal/platform"
)

const DefaultAttachmentMaxBytes int64 = 50 * 1024 * 1024 // 50MB

func (s Store) attachmentsDir() string {
	return filepath.Join(filepath.Clean(s.Dir), "resources", "attachments")
}

// AttachmentAbsPath resolves an attachment's workspace-relative path.
func (s Store) AttachmentAbsPath(a model.Attachment) string {
	return filepath.Join(filepath.Clean(s.Dir), filepath.FromSlash(strings.TrimSpace(a.Path)))
}

func guessMimeType(filename string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	if ext == "" {
		return ""
	}
	return mime.TypeByExtension(ext)
}

// copyAsset copies an acquired asset into the workspace and returns the
// attachment metadata. The returned attachment has no ItemID yet.
func (s Store) copyAsset(asset platform.Asset, maxBytes int64) (model.Attachment, error) {
	srcPath := strings.TrimSpace(asset.Path)
	if srcPath == "" {
		return model.Attachment{}, errors.New("attachments: missing source path")
	}
	srcPath = filepath.Clean(srcPath)
	st, err := os.Stat(srcPath)
	if err != nil {
		return model.Attachment{}, err
	}
	if st.IsDir() {
		return model.Attachment{}, errors.New("attachments: source path is a directory")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultAttachmentMaxBytes
	}
	if st.Size() > maxBytes {
		return model.Attachment{}, fmt.Errorf("attachments: file too large (%d bytes > %d bytes)", st.Size(), maxBytes)
	}

	orig := strings.TrimSpace(asset.Name)
	if orig == "" {
		orig = filepath.Base(srcPath)
	}
	orig = filepath.Base(orig)
	if orig == "." || orig == string(filepath.Separator) {
		orig = "attachment"
	}

	id, err := newRandomID("att")
	if err != nil {
		return model.Attachment{}, err
	}
	destDir := filepath.Join(s.attachmentsDir(), id)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return model.Attachment{}, err
	}
	destPath := filepath.Join(destDir, orig)

	in, err := os.Open(srcPath)
	if err != nil {
		return model.Attachment{}, err
	}
	defer in.Close()

	out, err := os.OpenFile(destPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return model.Attachment{}, err
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(out, h), io.LimitReader(in, maxBytes+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > maxBytes {
		err = fmt.Errorf("attachments: file too large (%d bytes > %d bytes)", n, maxBytes)
	}
	if err != nil {
		_ = os.RemoveAll(destDir)
		return model.Attachment{}, err
	}

	mt := strings.TrimSpace(asset.MimeType)
	if mt == "" {
		mt = guessMimeType(orig)
	}
	return model.Attachment{
		ID:           id,
		OriginalName: orig,
		MimeType:     mt,
		SizeBytes:    n,
		Sha256Hex:    hex.EncodeToString(h.Sum(nil)),
		Path:         filepath.ToSlash(filepath.Join("resources", "attachments", id, orig)),
		Width:        asset.Width,
		Height:       asset.Height,
		Source:       string(asset.Source),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func (s Store) removeAttachmentFiles(atts []model.Attachment) {
	for _, a := range atts {
		_ = os.RemoveAll(filepath.Join(s.attachmentsDir(), a.ID))
	}
}

func insertAttachment(ctx context.Context, x execer, a model.Attachment) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	_, err = x.ExecContext(ctx,
		`INSERT INTO attachments(id, item_id, json, created_at_unixms) VALUES(?, ?, ?, ?)`,
		a.ID, a.ItemID, string(raw), a.CreatedAt.UnixMilli())
	return err
}

// AddAttachment attaches asset to an existing item.
func (s Store) AddAttachment(ctx context.Context, itemID string, asset platform.Asset) (model.Attachment, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return model.Attachment{}, errors.New("missing item id")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Attachment{}, err
	}
	defer db.Close()

	if _, err := findItemRow(ctx, db, itemID); err != nil {
		return model.Attachment{}, err
	}

	a, err := s.copyAsset(asset, 0)
	if err != nil {
		return model.Attachment{}, err
	}
	a.ItemID = itemID

	err = withTx(ctx, db, func(tx *sql.Tx) error {
		if err := insertAttachment(ctx, tx, a); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE items SET updated_at_unixms = ? WHERE id = ?`, a.CreatedAt.UnixMilli(), itemID); err != nil {
			return err
		}
		_, err := appendEvent(ctx, tx, "attachment.add", itemID, a)
		return err
	})
	if err != nil {
		s.removeAttachmentFiles([]model.Attachment{a})
		return model.Attachment{}, err
	}
	return a, nil
}

func listAttachments(ctx context.Context, db *sql.DB, itemID string) ([]model.Attachment, error) {
	rows, err := db.QueryContext(ctx, `SELECT json FROM attachments WHERE item_id = ? ORDER BY created_at_unixms, rowid`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Attachment
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var a model.Attachment
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
