// Package session keeps the per-session dispatcher state: at most one
// pending problem per session ID, in memory or in an external store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/smartest/internal/problemgen"
)

// ErrInvalidID is returned for an empty session ID.
var ErrInvalidID = errors.New("invalid session id")

// State is what the dispatcher remembers between turns. The zero State is
// idle.
type State struct {
	// Pending is the problem waiting for an answer, nil when idle.
	Pending   *problemgen.Payload `json:"pending,omitempty"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Idle reports whether no problem is waiting for an answer.
func (s State) Idle() bool { return s.Pending == nil }

// Awaiting returns the domain of the pending problem, or "" when idle.
func (s State) Awaiting() problemgen.Domain {
	if s.Pending == nil {
		return ""
	}
	return s.Pending.Domain
}

// Store loads and saves State by session ID. A session that was never
// saved, or whose state expired, loads as the zero State.
type Store interface {
	Load(ctx context.Context, id string) (State, error)
	Save(ctx context.Context, id string, st State) error
	Delete(ctx context.Context, id string) error
	Close() error
}

func checkID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}
	return nil
}

func encode(st State) ([]byte, error) {
	b, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode session state: %w", err)
	}
	return b, nil
}

func decode(b []byte) (State, error) {
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return State{}, fmt.Errorf("decode session state: %w", err)
	}
	return st, nil
}

// expired reports whether a state saved at updated is past ttl at now. A
// zero ttl never expires.
func expired(updated time.Time, ttl time.Duration, now time.Time) bool {
	return ttl > 0 && !updated.IsZero() && now.Sub(updated) > ttl
}
