package pricing

// VolumetricDivisor converts cubic centimetres to kilograms. Carriers vary
// this constant in the real world; it is fixed here as a domain parameter.
const VolumetricDivisor = 5000.0

// Dimensions are outer package dimensions in centimetres.
type Dimensions struct {
	LengthCm float64 `json:"length_cm"`
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
}

// VolumetricWeight returns the dimensional-weight proxy in kilograms.
func VolumetricWeight(lengthCm, widthCm, heightCm float64) float64 {
	return lengthCm * widthCm * heightCm / VolumetricDivisor
}

// BillableWeight is max(actual, volumetric). With no dimensions the
// volumetric weight is zero and the actual weight wins.
func BillableWeight(actualKg float64, dims *Dimensions) float64 {
	if dims == nil {
		return actualKg
	}
	vol := VolumetricWeight(dims.LengthCm, dims.WidthCm, dims.HeightCm)
	if vol > actualKg {
		return vol
	}
	return actualKg
}
