package resultstore

import (
	"sync"
	"time"

	"github.com/romainsacchi/carculator/core/inventory"
	"github.com/romainsacchi/carculator/core/model"
)

// Summary is the queryable digest of one finished calculation.
type Summary struct {
	RequestID    string                  `json:"request_id"`
	VehicleType  model.VehicleClass      `json:"vehicle_type"`
	Powertrain   model.Powertrain        `json:"powertrain"`
	Size         string                  `json:"size"`
	Year         int                     `json:"year"`
	Country      string                  `json:"country"`
	Impacts      []inventory.ImpactValue `json:"impacts"`
	CalculatedAt time.Time               `json:"calculated_at"`
}

// Filter narrows a List call. Zero fields match everything.
type Filter struct {
	VehicleType model.VehicleClass
	Powertrain  model.Powertrain
}

// Store keeps recent calculation summaries for the results endpoint.
type Store interface {
	Add(Summary)
	List(Filter) []Summary
	Get(requestID string) (Summary, bool)
}

// MemoryStore is a bounded in-memory Store. When full, adding evicts the
// oldest summary. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	limit int
	order []string // request IDs, oldest first
	data  map[string]Summary
}

// DefaultLimit bounds a MemoryStore built with a non-positive limit.
const DefaultLimit = 1024

func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStore{limit: limit, data: make(map[string]Summary, limit)}
}

// Add stores the summary, replacing any previous one with the same request
// ID and evicting the oldest entry when the store is full.
func (s *MemoryStore) Add(sum Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[sum.RequestID]; exists {
		for i, id := range s.order {
			if id == sum.RequestID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	} else if len(s.order) >= s.limit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.data, oldest)
	}
	s.order = append(s.order, sum.RequestID)
	s.data[sum.RequestID] = sum
}

// List returns matching summaries, newest first.
func (s *MemoryStore) List(f Filter) []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Summary, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		sum := s.data[s.order[i]]
		if f.VehicleType != "" && sum.VehicleType != f.VehicleType {
			continue
		}
		if f.Powertrain != "" && sum.Powertrain != f.Powertrain {
			continue
		}
		res = append(res, sum)
	}
	return res
}

// Get returns the summary for a request ID.
func (s *MemoryStore) Get(requestID string) (Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, ok := s.data[requestID]
	return sum, ok
}
