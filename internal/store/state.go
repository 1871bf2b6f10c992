package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StateRecord is the serialized state of one session.
type StateRecord struct {
	SessionID string
	Data      []byte
	UpdatedAt time.Time
}

// StateRepo keeps one opaque state blob per session.
type StateRepo interface {
	// Save inserts or replaces the record for rec.SessionID.
	Save(ctx context.Context, rec StateRecord) error

	// Load returns the record for sessionID, or nil if there is none.
	Load(ctx context.Context, sessionID string) (*StateRecord, error)

	Delete(ctx context.Context, sessionID string) error

	// Prune deletes records last updated before cutoff and reports how
	// many went.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

type stateRepo struct {
	s *Store
}

func (r *stateRepo) Save(ctx context.Context, rec StateRecord) error {
	_, err := r.s.db.ExecContext(ctx, r.s.rebind(
		`INSERT INTO sessions (session_id, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`),
		rec.SessionID, string(rec.Data), rec.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}

func (r *stateRepo) Load(ctx context.Context, sessionID string) (*StateRecord, error) {
	var data string
	var updated int64
	err := r.s.db.QueryRowContext(ctx, r.s.rebind(
		`SELECT state, updated_at FROM sessions WHERE session_id = ?`), sessionID).
		Scan(&data, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session state: %w", err)
	}
	return &StateRecord{
		SessionID: sessionID,
		Data:      []byte(data),
		UpdatedAt: time.UnixMilli(updated).UTC(),
	}, nil
}

func (r *stateRepo) Delete(ctx context.Context, sessionID string) error {
	_, err := r.s.db.ExecContext(ctx, r.s.rebind(`DELETE FROM sessions WHERE session_id = ?`), sessionID)
	if err != nil {
		return fmt.Errorf("delete session state: %w", err)
	}
	return nil
}

func (r *stateRepo) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.s.db.ExecContext(ctx, r.s.rebind(`DELETE FROM sessions WHERE updated_at < ?`), cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune session states: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune session states: %w", err)
	}
	return n, nil
}
