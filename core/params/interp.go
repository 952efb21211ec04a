package params

// InterpolateYear resolves a multi-year table onto a single target year by
// piecewise linear interpolation along the year axis. Outside the anchor
// range the nearest segment is extended, so fleet years beyond the dataset
// horizon extrapolate instead of clamping.
func InterpolateYear(t *Table, year int) *Table {
	if len(t.years) == 1 {
		out := New(t.powertrains, t.sizes, []int{year}, t.names)
		for i := range t.powertrains {
			for j := range t.sizes {
				for k := range t.names {
					out.data.Set(t.data.Get(i, j, 0, k), i, j, 0, k)
				}
			}
		}
		return out
	}

	lo, hi := segmentFor(t.years, year)
	y0, y1 := float64(t.years[lo]), float64(t.years[hi])
	frac := (float64(year) - y0) / (y1 - y0)

	out := New(t.powertrains, t.sizes, []int{year}, t.names)
	for i := range t.powertrains {
		for j := range t.sizes {
			for k := range t.names {
				v0 := t.data.Get(i, j, lo, k)
				v1 := t.data.Get(i, j, hi, k)
				out.data.Set(v0+frac*(v1-v0), i, j, 0, k)
			}
		}
	}
	return out
}

// segmentFor picks the anchor pair bracketing year, or the first/last pair
// when year lies outside the anchors. years must be sorted ascending with
// at least two entries.
func segmentFor(years []int, year int) (lo, hi int) {
	if year <= years[0] {
		return 0, 1
	}
	n := len(years)
	if year >= years[n-1] {
		return n - 2, n - 1
	}
	for i := 1; i < n; i++ {
		if year <= years[i] {
			return i - 1, i
		}
	}
	return n - 2, n - 1
}
