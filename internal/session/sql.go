package session

import (
	"context"
	"time"

	"github.com/abhisek/smartest/internal/store"
)

// SQLStore keeps states in the sessions table of a store.Store (SQLite or
// Postgres).
type SQLStore struct {
	db   *store.Store
	repo store.StateRepo
	ttl  time.Duration
	now  func() time.Time
}

func NewSQLStore(db *store.Store, ttl time.Duration) *SQLStore {
	return &SQLStore{db: db, repo: db.StateRepo(), ttl: ttl, now: time.Now}
}

func (s *SQLStore) Load(ctx context.Context, id string) (State, error) {
	if err := checkID(id); err != nil {
		return State{}, err
	}
	rec, err := s.repo.Load(ctx, id)
	if err != nil || rec == nil {
		return State{}, err
	}
	if expired(rec.UpdatedAt, s.ttl, s.now()) {
		return State{}, s.repo.Delete(ctx, id)
	}
	return decode(rec.Data)
}

func (s *SQLStore) Save(ctx context.Context, id string, st State) error {
	if err := checkID(id); err != nil {
		return err
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = s.now()
	}
	data, err := encode(st)
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, store.StateRecord{SessionID: id, Data: data, UpdatedAt: st.UpdatedAt})
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Prune deletes every state older than the TTL.
func (s *SQLStore) Prune(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	return s.repo.Prune(ctx, s.now().Add(-s.ttl))
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
