package format

import "math"

// Display units. Any other value is treated as UnitAuto.
const (
	UnitAuto      = 0.0
	UnitNone      = 1.0
	UnitThousands = 1e3
	UnitMillions  = 1e6
	UnitBillions  = 1e9
	UnitTrillions = 1e12
)

// ResolveScale returns the divisor applied to value for the configured
// display unit. In auto mode the scale is chosen from the magnitude of value.
func ResolveScale(value, unit float64) float64 {
	switch unit {
	case UnitNone, UnitThousands, UnitMillions, UnitBillions, UnitTrillions:
		return unit
	}
	v := math.Abs(value)
	switch {
	case math.IsNaN(v) || v < 1e3:
		return 1
	case v < 1e6:
		return 1e3
	case v < 1e9:
		return 1e6
	case v < 1e12:
		return 1e9
	}
	return 1e12
}

// UnitSuffix returns the abbreviation appended to values divided by scale.
func UnitSuffix(scale float64) string {
	switch scale {
	case 1e3:
		return "K"
	case 1e6:
		return "M"
	case 1e9:
		return "bn"
	case 1e12:
		return "T"
	}
	return ""
}

// UnitName returns a human readable name for a configured display unit.
func UnitName(unit float64) string {
	switch unit {
	case UnitNone:
		return "none"
	case UnitThousands:
		return "thousands"
	case UnitMillions:
		return "millions"
	case UnitBillions:
		return "billions"
	case UnitTrillions:
		return "trillions"
	}
	return "auto"
}
