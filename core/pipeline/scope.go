package pipeline

import "github.com/romainsacchi/carculator/core/model"

// ScopeFor returns the powertrain rows a request needs in its parameter
// table. Plug-in hybrids carry their charge-sustaining counterpart, whose
// solved fuel path feeds the utility-factor mix and the range ratio; every
// other powertrain stands alone.
func ScopeFor(pt model.Powertrain) []model.Powertrain {
	if twin, ok := pt.Counterpart(); ok {
		return []model.Powertrain{pt, twin}
	}
	return []model.Powertrain{pt}
}
