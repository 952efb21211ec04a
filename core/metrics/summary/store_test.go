package summary

import (
	"testing"
	"time"
)

func TestMemoryStore_Aggregation(t *testing.T) {
	s := NewMemoryStore()
	d := Day(time.Now())
	if err := s.Add(Record{VehicleClass: "car", Date: d, Calculations: 2, ClimateKgCO2: 0.4}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(Record{VehicleClass: "car", Date: d.Add(3 * time.Hour), Calculations: 1, ClimateKgCO2: 0.2}); err != nil {
		t.Fatalf("add2: %v", err)
	}
	recs, err := s.Query("car", d, d)
	if err != nil || len(recs) != 1 {
		t.Fatalf("query: %v len=%d", err, len(recs))
	}
	if recs[0].Calculations != 3 {
		t.Fatalf("expected 3 calculations, got %d", recs[0].Calculations)
	}
	if got := recs[0].MeanClimatePerKm(); got < 0.199 || got > 0.201 {
		t.Fatalf("expected mean 0.2, got %f", got)
	}
}

func TestRecordRates(t *testing.T) {
	r := Record{Calculations: 3, Rejections: 1, ClimateKgCO2: 0.6}
	if r.AcceptanceRate() != 0.75 {
		t.Fatalf("acceptance rate")
	}
	if r.MeanClimatePerKm() != 0.2 {
		t.Fatalf("mean climate")
	}
	if (Record{}).AcceptanceRate() != 0 || (Record{}).MeanClimatePerKm() != 0 {
		t.Fatalf("zero record should report zero rates")
	}
}
