package params

import (
	"fmt"

	"github.com/ctessum/sparse"

	"github.com/romainsacchi/carculator/core/model"
)

// Table holds vehicle parameters on a dense (powertrain, size, year,
// parameter) grid. It is the single working state of a calculation: the
// base dataset is loaded into it, overrides are written into it, and the
// solver reads from and writes back to it.
//
// Lookups with unknown labels panic. Label sets are fixed at construction
// time and every caller works from the same vocabulary, so an unknown
// label is a programming error, not an input error.
//
// A Table is not safe for concurrent writes. Each calculation owns its
// own Table; Clone before sharing.
type Table struct {
	powertrains []model.Powertrain
	sizes       []string
	years       []int
	names       []string

	ptIdx   map[model.Powertrain]int
	sizeIdx map[string]int
	yearIdx map[int]int
	nameIdx map[string]int

	data *sparse.DenseArray
}

// New builds a zero-filled table over the given axes. Parameter names
// default to the canonical set when names is nil.
func New(powertrains []model.Powertrain, sizes []string, years []int, names []string) *Table {
	if names == nil {
		names = Names()
	}
	if len(powertrains) == 0 || len(sizes) == 0 || len(years) == 0 || len(names) == 0 {
		panic("params: empty table axis")
	}
	t := &Table{
		powertrains: append([]model.Powertrain(nil), powertrains...),
		sizes:       append([]string(nil), sizes...),
		years:       append([]int(nil), years...),
		names:       append([]string(nil), names...),
		ptIdx:       make(map[model.Powertrain]int, len(powertrains)),
		sizeIdx:     make(map[string]int, len(sizes)),
		yearIdx:     make(map[int]int, len(years)),
		nameIdx:     make(map[string]int, len(names)),
		data:        sparse.ZerosDense(len(powertrains), len(sizes), len(years), len(names)),
	}
	for i, pt := range t.powertrains {
		t.ptIdx[pt] = i
	}
	for i, s := range t.sizes {
		t.sizeIdx[s] = i
	}
	for i, y := range t.years {
		t.yearIdx[y] = i
	}
	for i, n := range t.names {
		t.nameIdx[n] = i
	}
	return t
}

// Powertrains returns the powertrain axis in table order.
func (t *Table) Powertrains() []model.Powertrain {
	return append([]model.Powertrain(nil), t.powertrains...)
}

// Sizes returns the size axis in table order.
func (t *Table) Sizes() []string { return append([]string(nil), t.sizes...) }

// Years returns the year axis in table order.
func (t *Table) Years() []int { return append([]int(nil), t.years...) }

// Parameters returns the parameter axis in table order.
func (t *Table) Parameters() []string { return append([]string(nil), t.names...) }

// HasPowertrain reports whether pt is on the table's powertrain axis.
func (t *Table) HasPowertrain(pt model.Powertrain) bool {
	_, ok := t.ptIdx[pt]
	return ok
}

func (t *Table) pt(pt model.Powertrain) int {
	i, ok := t.ptIdx[pt]
	if !ok {
		panic(fmt.Sprintf("params: unknown powertrain %q", pt))
	}
	return i
}

func (t *Table) size(size string) int {
	i, ok := t.sizeIdx[size]
	if !ok {
		panic(fmt.Sprintf("params: unknown size %q", size))
	}
	return i
}

func (t *Table) year(year int) int {
	i, ok := t.yearIdx[year]
	if !ok {
		panic(fmt.Sprintf("params: unknown year %d", year))
	}
	return i
}

func (t *Table) name(name string) int {
	i, ok := t.nameIdx[name]
	if !ok {
		panic(fmt.Sprintf("params: unknown parameter %q", name))
	}
	return i
}

// Get returns one cell.
func (t *Table) Get(pt model.Powertrain, size string, year int, name string) float64 {
	return t.data.Get(t.pt(pt), t.size(size), t.year(year), t.name(name))
}

// Set writes one cell.
func (t *Table) Set(v float64, pt model.Powertrain, size string, year int, name string) {
	t.data.Set(v, t.pt(pt), t.size(size), t.year(year), t.name(name))
}

// Add adds delta to one cell.
func (t *Table) Add(delta float64, pt model.Powertrain, size string, year int, name string) {
	t.data.AddVal(delta, t.pt(pt), t.size(size), t.year(year), t.name(name))
}

// SetAll writes v into the named parameter for every powertrain, size and
// year on the table.
func (t *Table) SetAll(name string, v float64) {
	k := t.name(name)
	for i := range t.powertrains {
		for j := range t.sizes {
			for y := range t.years {
				t.data.Set(v, i, j, y, k)
			}
		}
	}
}

// SetFor writes v into the named parameter of one powertrain across every
// size and year.
func (t *Table) SetFor(pt model.Powertrain, name string, v float64) {
	i, k := t.pt(pt), t.name(name)
	for j := range t.sizes {
		for y := range t.years {
			t.data.Set(v, i, j, y, k)
		}
	}
}

// AddFor adds delta to the named parameter of one powertrain across every
// size and year.
func (t *Table) AddFor(pt model.Powertrain, name string, delta float64) {
	i, k := t.pt(pt), t.name(name)
	for j := range t.sizes {
		for y := range t.years {
			t.data.AddVal(delta, i, j, y, k)
		}
	}
}

// Clone returns a deep copy sharing no state with t.
func (t *Table) Clone() *Table {
	c := New(t.powertrains, t.sizes, t.years, t.names)
	c.data = t.data.Copy()
	return c
}

// DropPowertrains returns a new table without the given powertrain rows.
// Rows absent from t are ignored. Dropping every row panics.
func (t *Table) DropPowertrains(pts ...model.Powertrain) *Table {
	drop := make(map[model.Powertrain]bool, len(pts))
	for _, pt := range pts {
		drop[pt] = true
	}
	var keep []model.Powertrain
	for _, pt := range t.powertrains {
		if !drop[pt] {
			keep = append(keep, pt)
		}
	}
	if len(keep) == 0 {
		panic("params: dropping every powertrain")
	}
	out := New(keep, t.sizes, t.years, t.names)
	for _, pt := range keep {
		src := t.pt(pt)
		dst := out.pt(pt)
		for j := range t.sizes {
			for y := range t.years {
				for k := range t.names {
					out.data.Set(t.data.Get(src, j, y, k), dst, j, y, k)
				}
			}
		}
	}
	return out
}
