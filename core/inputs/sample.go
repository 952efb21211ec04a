package inputs

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/params"
)

// Distribution codes carried by dataset records. Records with any other
// code fall back to their static amount.
const (
	uncertaintyNone       = 1
	uncertaintyLognormal  = 2
	uncertaintyNormal     = 3
	uncertaintyUniform    = 4
	uncertaintyTriangular = 5
)

// Sample builds one stochastic draw of the parameter table. Records without
// a distribution keep their static amount; the others draw from their
// declared distribution, clamped to the record's bounds when present and
// floored at zero. Each record is drawn once and its value shared by every
// cell it covers. The same seed reproduces the same table.
func (p *Provider) Sample(class model.VehicleClass, scope []model.Powertrain, sizes []string, seed uint64) (*params.Table, error) {
	src := rand.NewPCG(seed, seed)
	draws := make(map[*parameterRecord]float64)
	return p.buildTable(class, scope, sizes, func(rec *parameterRecord) float64 {
		v, ok := draws[rec]
		if !ok {
			v = drawRecord(rec, src)
			draws[rec] = v
		}
		return v
	})
}

func drawRecord(rec *parameterRecord, src rand.Source) float64 {
	var v float64
	switch rec.UncertaintyType {
	case uncertaintyLognormal:
		v = distuv.LogNormal{Mu: rec.Loc, Sigma: rec.Scale, Src: src}.Rand()
	case uncertaintyNormal:
		v = distuv.Normal{Mu: rec.Loc, Sigma: rec.Scale, Src: src}.Rand()
	case uncertaintyUniform:
		v = distuv.Uniform{Min: rec.Minimum, Max: rec.Maximum, Src: src}.Rand()
	case uncertaintyTriangular:
		v = distuv.NewTriangle(rec.Minimum, rec.Maximum, rec.Loc, src).Rand()
	default:
		return rec.Amount
	}
	if rec.Maximum > rec.Minimum {
		if v < rec.Minimum {
			v = rec.Minimum
		}
		if v > rec.Maximum {
			v = rec.Maximum
		}
	}
	if v < 0 {
		v = 0
	}
	return v
}
