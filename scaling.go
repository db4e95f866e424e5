package dri

// Fixed-point scale factors. Every field multiplies its raw i16 by one
// of these once the sentinel table has cleared it as a real value.
const (
	scalePressure    = 0.01 // mmHg / cmH2O
	scaleTemperature = 0.01 // °C
	scalePercent     = 0.01 // SpO2, gases, MAC
	scaleST          = 0.01 // ST segment, mm
	scaleIRAmplitude = 0.1  // SpO2 IR amplitude, %
	scaleTidalVolume = 0.1  // ml
	scaleMinuteVolume = 0.01 // L/min
	scaleRate        = 1.0  // heart/respiration rates, unscaled
)

// scaled multiplies a raw validated reading by scale, returning a plain
// float64. Called only after special.go's classifyRaw has confirmed raw is a
// real measurement.
func scaled(raw int16, scale float64) float64 {
	return float64(raw) * scale
}
