package inputs

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/params"
)

//go:embed data/*.json
var dataFS embed.FS

var datasetFiles = map[model.VehicleClass]string{
	model.Car:        "data/car.json",
	model.Truck:      "data/truck.json",
	model.Bus:        "data/bus.json",
	model.TwoWheeler: "data/two_wheeler.json",
}

// dataset mirrors the on-disk layout of a vehicle class dataset: identity
// header plus numbered parameter records. Powertrain and size selectors on
// a record are comma-separated lists; an empty selector means "all".
type dataset struct {
	VehicleType string                     `json:"vehicle_type"`
	Powertrains []model.Powertrain         `json:"powertrains"`
	Sizes       []string                   `json:"sizes"`
	Parameters  map[string]parameterRecord `json:"parameters"`
}

type parameterRecord struct {
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Unit            string  `json:"unit"`
	Powertrain      string  `json:"powertrain"`
	Sizes           string  `json:"sizes"`
	Year            int     `json:"year"`
	Amount          float64 `json:"amount"`
	UncertaintyType int     `json:"uncertainty_type"`
	Loc             float64 `json:"loc"`
	Scale           float64 `json:"scale"`
	Minimum         float64 `json:"minimum"`
	Maximum         float64 `json:"maximum"`
}

func (r *parameterRecord) matches(pt model.Powertrain, size string) bool {
	if r.Powertrain != "" && !selectorHas(r.Powertrain, string(pt)) {
		return false
	}
	if r.Sizes != "" && !selectorHas(r.Sizes, size) {
		return false
	}
	return true
}

// specificity ranks a record for most-specific-wins resolution: an explicit
// powertrain selector outranks an explicit size selector, which outranks a
// catch-all.
func (r *parameterRecord) specificity() int {
	s := 0
	if r.Powertrain != "" {
		s += 2
	}
	if r.Sizes != "" {
		s++
	}
	return s
}

func selectorHas(selector, label string) bool {
	for _, part := range strings.Split(selector, ",") {
		if strings.TrimSpace(part) == label {
			return true
		}
	}
	return false
}

// Provider serves the base parameter datasets embedded in the binary, one
// per vehicle class. It is immutable after construction and safe for
// concurrent use.
type Provider struct {
	datasets map[model.VehicleClass]*dataset
}

// NewProvider parses every embedded dataset. It fails on malformed data or
// on records naming parameters outside the canonical vocabulary, so a bad
// dataset is caught at startup rather than mid-calculation.
func NewProvider() (*Provider, error) {
	known := make(map[string]bool)
	for _, n := range params.Names() {
		known[n] = true
	}
	p := &Provider{datasets: make(map[model.VehicleClass]*dataset, len(datasetFiles))}
	for class, file := range datasetFiles {
		raw, err := dataFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read dataset %s: %w", file, err)
		}
		var ds dataset
		if err := json.Unmarshal(raw, &ds); err != nil {
			return nil, fmt.Errorf("parse dataset %s: %w", file, err)
		}
		if ds.VehicleType != string(class) {
			return nil, fmt.Errorf("dataset %s declares vehicle_type %q, want %q", file, ds.VehicleType, class)
		}
		if len(ds.Powertrains) == 0 || len(ds.Sizes) == 0 {
			return nil, fmt.Errorf("dataset %s: empty powertrain or size axis", file)
		}
		for id, rec := range ds.Parameters {
			if !known[rec.Name] {
				return nil, fmt.Errorf("dataset %s record %s: unknown parameter %q", file, id, rec.Name)
			}
			if rec.Year == 0 {
				return nil, fmt.Errorf("dataset %s record %s: missing year", file, id)
			}
		}
		p.datasets[class] = &ds
	}
	return p, nil
}

func (p *Provider) dataset(class model.VehicleClass) (*dataset, error) {
	ds, ok := p.datasets[class]
	if !ok {
		return nil, fmt.Errorf("no dataset for vehicle class %q", class)
	}
	return ds, nil
}

// Powertrains returns the powertrains available for a vehicle class.
func (p *Provider) Powertrains(class model.VehicleClass) ([]model.Powertrain, error) {
	ds, err := p.dataset(class)
	if err != nil {
		return nil, err
	}
	return append([]model.Powertrain(nil), ds.Powertrains...), nil
}

// Sizes returns the size segments available for a vehicle class.
func (p *Provider) Sizes(class model.VehicleClass) ([]string, error) {
	ds, err := p.dataset(class)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), ds.Sizes...), nil
}

// Years returns the anchor years carried by a class dataset, ascending.
func (p *Provider) Years(class model.VehicleClass) ([]int, error) {
	ds, err := p.dataset(class)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	for _, rec := range ds.Parameters {
		seen[rec.Year] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

// BaseTable builds the static parameter table for a vehicle class,
// restricted to the given powertrains and sizes, over the dataset's anchor
// years. Scope labels are validated against the dataset axes.
//
// For every cell the most specific matching record wins; per cell, records
// at different years form the anchor curve, and anchors without a record of
// their own take the linearly interpolated (or edge-extended) value of that
// curve. Cells with no matching record at all stay zero.
func (p *Provider) BaseTable(class model.VehicleClass, scope []model.Powertrain, sizes []string) (*params.Table, error) {
	return p.buildTable(class, scope, sizes, func(rec *parameterRecord) float64 { return rec.Amount })
}

func (p *Provider) buildTable(class model.VehicleClass, scope []model.Powertrain, sizes []string, value func(*parameterRecord) float64) (*params.Table, error) {
	ds, err := p.dataset(class)
	if err != nil {
		return nil, err
	}
	for _, pt := range scope {
		if !containsPowertrain(ds.Powertrains, pt) {
			return nil, &model.InvalidOverrideError{
				Field:  "powertrain",
				Reason: fmt.Sprintf("%s is not available for vehicle type %s", pt, class),
			}
		}
	}
	for _, size := range sizes {
		if !containsString(ds.Sizes, size) {
			return nil, &model.InvalidOverrideError{
				Field:  "size",
				Reason: fmt.Sprintf("%q is not a %s size", size, class),
			}
		}
	}
	years, err := p.Years(class)
	if err != nil {
		return nil, err
	}

	// Group records by parameter name once; cell resolution walks only the
	// records of its own parameter. Records are taken in sorted id order so
	// resolution is deterministic.
	ids := make([]string, 0, len(ds.Parameters))
	for id := range ds.Parameters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	byName := make(map[string][]*parameterRecord)
	for _, id := range ids {
		rec := ds.Parameters[id]
		byName[rec.Name] = append(byName[rec.Name], &rec)
	}

	t := params.New(scope, sizes, years, nil)
	for _, name := range t.Parameters() {
		recs := byName[name]
		if len(recs) == 0 {
			continue
		}
		for _, pt := range scope {
			for _, size := range sizes {
				curve := resolveCurve(recs, pt, size, value)
				if len(curve) == 0 {
					continue
				}
				for _, year := range years {
					t.Set(evalCurve(curve, float64(year)), pt, size, year, name)
				}
			}
		}
	}
	return t, nil
}

// resolveCurve picks, per anchor year, the most specific record matching
// (pt, size) and returns the resulting year curve sorted by year. Ties on
// specificity within a year resolve to the record seen last; datasets are
// expected not to carry genuine duplicates. Records are valued in sorted
// year order so that stochastic draws are reproducible.
func resolveCurve(recs []*parameterRecord, pt model.Powertrain, size string, value func(*parameterRecord) float64) []curvePoint {
	best := make(map[int]*parameterRecord)
	for _, rec := range recs {
		if !rec.matches(pt, size) {
			continue
		}
		cur, ok := best[rec.Year]
		if !ok || rec.specificity() >= cur.specificity() {
			best[rec.Year] = rec
		}
	}
	years := make([]int, 0, len(best))
	for year := range best {
		years = append(years, year)
	}
	sort.Ints(years)
	curve := make([]curvePoint, 0, len(years))
	for _, year := range years {
		curve = append(curve, curvePoint{year: float64(year), value: value(best[year])})
	}
	return curve
}

type curvePoint struct {
	year  float64
	value float64
}

// evalCurve linearly interpolates the curve at year, extending the first
// and last segments outside the curve's span. A single-point curve is
// constant.
func evalCurve(curve []curvePoint, year float64) float64 {
	n := len(curve)
	if n == 1 {
		return curve[0].value
	}
	var lo, hi int
	switch {
	case year <= curve[0].year:
		lo, hi = 0, 1
	case year >= curve[n-1].year:
		lo, hi = n-2, n-1
	default:
		for i := 1; i < n; i++ {
			if year <= curve[i].year {
				lo, hi = i-1, i
				break
			}
		}
	}
	frac := (year - curve[lo].year) / (curve[hi].year - curve[lo].year)
	return curve[lo].value + frac*(curve[hi].value-curve[lo].value)
}

func containsPowertrain(list []model.Powertrain, pt model.Powertrain) bool {
	for _, p := range list {
		if p == pt {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
