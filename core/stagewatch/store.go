// Package stagewatch keeps the stage history of recent calculations so the
// API can report how far a request travelled through the pipeline. It is fed
// from the stage event bus and holds a bounded window of requests.
package stagewatch

import (
	"sort"
	"sync"
	"time"

	"github.com/romainsacchi/carculator/core/metrics"
)

// Transition is one recorded stage entry.
type Transition struct {
	Stage string    `json:"stage"`
	Time  time.Time `json:"time"`
}

// Status captures the progress of one calculation.
type Status struct {
	RequestID   string       `json:"request_id"`
	Stage       string       `json:"stage"`
	Transitions []Transition `json:"transitions"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Store holds calculation progress keyed by request ID.
type Store interface {
	List() []Status
	Get(requestID string) (Status, bool)
	RecordStageTransition(ev metrics.StageEvent) error
}

// DefaultLimit bounds how many requests a MemoryStore remembers.
const DefaultLimit = 1024

// MemoryStore is an in-memory Store that evicts the oldest request once the
// limit is reached.
type MemoryStore struct {
	mu    sync.RWMutex
	limit int
	order []string
	data  map[string]Status
}

// NewMemoryStore creates a MemoryStore. A non-positive limit falls back to
// DefaultLimit.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStore{limit: limit, data: map[string]Status{}}
}

// RecordStageTransition appends the stage to the request's history. It
// satisfies metrics.StageRecorder so the store can sit behind the event
// collector.
func (s *MemoryStore) RecordStageTransition(ev metrics.StageEvent) error {
	if ev.RequestID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.data[ev.RequestID]
	if !ok {
		if len(s.order) >= s.limit {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.data, oldest)
		}
		s.order = append(s.order, ev.RequestID)
		st = Status{RequestID: ev.RequestID}
	}
	st.Stage = ev.Stage
	st.Transitions = append(st.Transitions, Transition{Stage: ev.Stage, Time: ev.Time})
	st.UpdatedAt = ev.Time
	s.data[ev.RequestID] = st
	return nil
}

// Get returns the progress of one request.
func (s *MemoryStore) Get(requestID string) (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data[requestID]
	return st, ok
}

// List returns the progress of every remembered request, most recently
// updated first.
func (s *MemoryStore) List() []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Status, 0, len(s.data))
	for _, st := range s.data {
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].UpdatedAt.After(res[j].UpdatedAt) })
	return res
}
