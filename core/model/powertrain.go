package model

// Powertrain identifies a drivetrain technology variant. The identifiers
// follow the convention used in vehicle fleet inventories: the suffix names
// the fuel (d = diesel, p = petrol, g = compressed gas).
type Powertrain string

const (
	ICEVd Powertrain = "ICEV-d" // internal combustion, diesel
	ICEVp Powertrain = "ICEV-p" // internal combustion, petrol
	ICEVg Powertrain = "ICEV-g" // internal combustion, compressed gas
	HEVd  Powertrain = "HEV-d"  // full hybrid, diesel
	HEVp  Powertrain = "HEV-p"  // full hybrid, petrol
	PHEVd Powertrain = "PHEV-d" // plug-in hybrid, diesel
	PHEVp Powertrain = "PHEV-p" // plug-in hybrid, petrol
	// Charge-sustaining operating points of the plug-in hybrids. They are
	// modelled as separate powertrain rows and combined with the
	// charge-depleting rows by the solver.
	PHEVcd Powertrain = "PHEV-c-d"
	PHEVcp Powertrain = "PHEV-c-p"
	BEV    Powertrain = "BEV"  // battery electric
	FCEV   Powertrain = "FCEV" // fuel cell electric
)

// Powertrains lists every valid powertrain identifier.
func Powertrains() []Powertrain {
	return []Powertrain{
		ICEVd, ICEVp, ICEVg,
		HEVd, HEVp,
		PHEVd, PHEVp, PHEVcd, PHEVcp,
		BEV, FCEV,
	}
}

// IsValid reports whether pt is a known powertrain identifier.
func (pt Powertrain) IsValid() bool {
	switch pt {
	case ICEVd, ICEVp, ICEVg, HEVd, HEVp, PHEVd, PHEVp, PHEVcd, PHEVcp, BEV, FCEV:
		return true
	}
	return false
}

// IsCombustion reports whether pt is a pure internal combustion powertrain.
func (pt Powertrain) IsCombustion() bool {
	return pt == ICEVd || pt == ICEVp || pt == ICEVg
}

// IsHybrid reports whether pt is a non-plug-in full hybrid.
func (pt Powertrain) IsHybrid() bool {
	return pt == HEVd || pt == HEVp
}

// IsPlugin reports whether pt is a user-facing (charge-depleting) plug-in
// hybrid. Charge-sustaining rows are not plug-ins in this sense.
func (pt Powertrain) IsPlugin() bool {
	return pt == PHEVd || pt == PHEVp
}

// IsChargeSustaining reports whether pt is a charge-sustaining plug-in row.
func (pt Powertrain) IsChargeSustaining() bool {
	return pt == PHEVcd || pt == PHEVcp
}

// IsElectric reports whether pt draws all traction energy from electricity
// or hydrogen.
func (pt Powertrain) IsElectric() bool {
	return pt == BEV || pt == FCEV
}

// Counterpart returns the charge-sustaining row paired with a plug-in
// powertrain. ok is false for any other powertrain.
func (pt Powertrain) Counterpart() (Powertrain, bool) {
	switch pt {
	case PHEVd:
		return PHEVcd, true
	case PHEVp:
		return PHEVcp, true
	}
	return "", false
}

// String implements fmt.Stringer.
func (pt Powertrain) String() string { return string(pt) }
