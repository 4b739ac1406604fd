// Package sensor turns raw converter codes from the RTD voltage dividers
// into smoothed Fahrenheit readings.
package sensor

import (
	"math"

	"inferno/internal/models"
)

// Callendar–Van Dusen coefficients for a PT1000 element above 0 °C.
const (
	rtdA        = 3.9083e-3
	rtdB        = -5.775e-7
	rtdRefOhms  = 1000.0
	dividerOhms = 1000.0
)

// ResistanceFromRaw converts a raw code to the RTD's resistance. Codes at
// either rail carry no information and return ok=false.
func ResistanceFromRaw(raw, fullScale int, vref float64) (ohms float64, ok bool) {
	if raw <= 0 || raw >= fullScale {
		return 0, false
	}
	v := float64(raw) / float64(fullScale) * vref
	return (vref*dividerOhms - v*dividerOhms) / v, true
}

// FahrenheitFromResistance solves the RTD quadratic and rounds to a whole
// degree. Resistances outside the curve's domain, as seen with an open
// probe, return models.TempUnplugged.
func FahrenheitFromResistance(ohms float64) float64 {
	if math.IsNaN(ohms) || math.IsInf(ohms, 0) || ohms < 0 {
		return models.TempUnplugged
	}
	disc := rtdA*rtdA - 4*rtdB*(1-ohms/rtdRefOhms)
	if disc < 0 {
		return models.TempUnplugged
	}
	celsius := (-rtdA + math.Sqrt(disc)) / (2 * rtdB)
	return math.Round(celsius*9/5 + 32)
}

// RawFromFahrenheit is the inverse of the conversion chain, used to feed
// synthetic readings.
func RawFromFahrenheit(f float64, fullScale int, vref float64) int {
	c := (f - 32) * 5 / 9
	ohms := rtdRefOhms * (1 + rtdA*c + rtdB*c*c)
	v := vref * dividerOhms / (ohms + dividerOhms)
	return int(math.Round(v / vref * float64(fullScale)))
}
