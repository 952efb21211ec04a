package summary

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore aggregates records in memory, keyed by vehicle class and day.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[time.Time]*Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[time.Time]*Record{}}
}

// Add folds the record into the daily aggregate for its class.
func (s *MemoryStore) Add(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[r.VehicleClass] == nil {
		s.data[r.VehicleClass] = map[time.Time]*Record{}
	}
	d := Day(r.Date)
	rec := s.data[r.VehicleClass][d]
	if rec == nil {
		rec = &Record{VehicleClass: r.VehicleClass, Date: d}
		s.data[r.VehicleClass][d] = rec
	}
	rec.Calculations += r.Calculations
	rec.Rejections += r.Rejections
	rec.ClimateKgCO2 += r.ClimateKgCO2
	return nil
}

// Query returns records between start and end inclusive, oldest first.
func (s *MemoryStore) Query(vehicleClass string, start, end time.Time) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start = Day(start)
	end = Day(end)
	var res []Record
	for d, r := range s.data[vehicleClass] {
		if d.Before(start) || d.After(end) {
			continue
		}
		res = append(res, *r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	return res, nil
}
