// Package session holds the last successful lookup for the current run.
// The holder is owned by the calling context: created empty at startup,
// overwritten wholesale on each successful lookup, no explicit teardown.
package session

import (
	"time"

	"github.com/rafaelsouza280292/consulta-cnpj/internal/registry"
)

// State is the session-scoped last-result slot. There is a single writer
// (the current lookup) and reads happen only after the writer completes,
// so no locking is needed.
type State struct {
	code      string
	record    *registry.Record
	queriedAt time.Time
}

// New creates an empty session state.
func New() *State {
	return &State{}
}

// Store replaces the held result with a new one.
func (s *State) Store(code string, record *registry.Record, queriedAt time.Time) {
	s.code = code
	s.record = record
	s.queriedAt = queriedAt
}

// Record returns the held record, or nil if no lookup has succeeded yet.
func (s *State) Record() *registry.Record {
	return s.record
}

// Code returns the canonical code of the held record.
func (s *State) Code() string {
	return s.code
}

// QueriedAt returns when the held record was fetched.
func (s *State) QueriedAt() time.Time {
	return s.queriedAt
}

// Holds reports whether the session already holds a result for code.
// Equality is on the canonical digits: the display layer uses this to
// decide whether a redisplay is needed without re-querying.
func (s *State) Holds(code string) bool {
	return s.record != nil && s.code == code
}
