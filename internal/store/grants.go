package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gtd-cli/internal/platform"
)

// GrantStatus returns the recorded status for c. Capabilities that were never
// asked about are not_determined.
func (s Store) GrantStatus(ctx context.Context, c platform.Capability) (platform.GrantStatus, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var raw string
	err = db.QueryRowContext(ctx, `SELECT status FROM permission_grants WHERE capability = ?`, string(c)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return platform.StatusNotDetermined, nil
	}
	if err != nil {
		return "", err
	}
	return platform.ParseGrantStatus(raw)
}

func (s Store) SetGrantStatus(ctx context.Context, c platform.Capability, st platform.GrantStatus) error {
	if _, err := platform.ParseCapability(string(c)); err != nil {
		return err
	}
	if _, err := platform.ParseGrantStatus(string(st)); err != nil {
		return err
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	return withTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO permission_grants(capability, status, updated_at_unixms) VALUES(?, ?, ?)
ON CONFLICT(capability) DO UPDATE SET status=excluded.status, updated_at_unixms=excluded.updated_at_unixms`,
			string(c), string(st), time.Now().UTC().UnixMilli()); err != nil {
			return err
		}
		_, err := appendEvent(ctx, tx, "permission.set", string(c), map[string]string{"status": string(st)})
		return err
	})
}

// GrantStatuses returns the status of every known capability.
func (s Store) GrantStatuses(ctx context.Context) (map[platform.Capability]platform.GrantStatus, error) {
	out := map[platform.Capability]platform.GrantStatus{}
	for _, c := range platform.Capabilities() {
		st, err := s.GrantStatus(ctx, c)
		if err != nil {
			return nil, err
		}
		out[c] = st
	}
	return out, nil
}

// ResetGrants forgets every recorded answer so the next request prompts again.
func (s Store) ResetGrants(ctx context.Context) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return withTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM permission_grants`); err != nil {
			return err
		}
		_, err := appendEvent(ctx, tx, "permission.reset", "", map[string]any{})
		return err
	})
}
