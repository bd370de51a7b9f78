package models

// UnitSystem selects the plate inventory, bar weight, and default rounding
// increment. Stored per cycle; all weights inside one cycle share a unit.
type UnitSystem string

const (
	UnitPounds    UnitSystem = "lb"
	UnitKilograms UnitSystem = "kg"
)

// Valid reports whether u is a known unit system.
func (u UnitSystem) Valid() bool {
	return u == UnitPounds || u == UnitKilograms
}

// BarWeight returns the standard bar weight for the unit system.
func (u UnitSystem) BarWeight() float64 {
	if u == UnitKilograms {
		return 20
	}
	return 45
}

// DefaultIncrement returns the default rounding increment for prescribed
// weights in this unit system.
func (u UnitSystem) DefaultIncrement() float64 {
	if u == UnitKilograms {
		return 2.5
	}
	return 5
}

// Sex is the category used by the competition scoring formulas.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Valid reports whether s is a known sex category.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}
