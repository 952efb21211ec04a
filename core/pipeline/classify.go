package pipeline

import (
	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/params"
)

// SetCombustionPowerShare writes the share of installed power delivered by
// the combustion engine, derived from the requested powertrain, across every
// row in scope. Full hybrids split power between the engines named in the
// request, pure burners get 1, electric drives 0. Plug-in hybrid rows keep
// their dataset share untouched.
func SetCombustionPowerShare(t *params.Table, req model.Request) error {
	switch {
	case req.Powertrain.IsHybrid():
		if req.TotalEnginePower <= 0 {
			return &model.InvalidOverrideError{
				Field:  "total_engine_power",
				Reason: "must be positive to derive the combustion power share",
			}
		}
		t.SetAll(params.CombustionPowerShare, req.PrimaryEnginePower/req.TotalEnginePower)
	case req.Powertrain.IsCombustion():
		t.SetAll(params.CombustionPowerShare, 1)
	case req.Powertrain.IsElectric():
		t.SetAll(params.CombustionPowerShare, 0)
	}
	return nil
}
