package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gtd-cli/internal/model"
)

func appendEvent(ctx context.Context, x execer, typ string, entityID string, payload any) (model.Event, error) {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return model.Event{}, errors.New("missing event type")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return model.Event{}, err
	}
	ev := model.Event{
		ID:       newEventID(),
		TS:       time.Now().UTC(),
		Type:     typ,
		EntityID: entityID,
		Payload:  payload,
	}
	_, err = x.ExecContext(ctx,
		`INSERT INTO events(event_id, type, entity_id, payload_json, issued_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		ev.ID, ev.Type, ev.EntityID, string(raw), ev.TS.UnixMilli())
	if err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// AppendEvent records an event outside of any other write.
func (s Store) AppendEvent(ctx context.Context, typ string, entityID string, payload any) (model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Event{}, err
	}
	defer db.Close()
	return appendEvent(ctx, db, typ, entityID, payload)
}

// ReadEventsTail returns the last limit events, oldest first. limit <= 0 means all.
func (s Store) ReadEventsTail(ctx context.Context, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, type, entity_id, payload_json, issued_at_unixms FROM events ORDER BY issued_at_unixms DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var ev model.Event
		var payload string
		var ms int64
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.EntityID, &payload, &ms); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(ms).UTC()
		var p any
		if err := json.Unmarshal([]byte(payload), &p); err == nil {
			ev.Payload = p
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
