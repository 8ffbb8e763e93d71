package glass

// Params controls a single run of the reeded glass pipeline.
type Params struct {
	// BlurRadius is the radius in pixels of the blur pre-pass; zero disables it.
	BlurRadius float64 `json:"blurRadius" form:"blurRadius"`
	// ReedWidth is the period in pixels of the simulated glass ridges.
	ReedWidth float64 `json:"reedWidth" form:"reedWidth"`
	// Amplitude is the maximum horizontal displacement in pixels.
	Amplitude float64 `json:"amplitude" form:"amplitude"`
	// LightingIntensity is the maximum brightness delta added to R, G and B.
	LightingIntensity float64 `json:"lightingIntensity" form:"lightingIntensity"`
}

// DefaultParams returns the starting values of the effect controls.
func DefaultParams() Params {
	return Params{
		BlurRadius:        0,
		ReedWidth:         20,
		Amplitude:         10,
		LightingIntensity: 0,
	}
}

// Validate checks every parameter against its own range. There is no
// cross-validation between parameters.
func (p Params) Validate() error {
	if err := checkNonNegative("blur radius", p.BlurRadius); err != nil {
		return err
	}
	return validateDistortion(p.ReedWidth, p.Amplitude, p.LightingIntensity)
}

func validateDistortion(reedWidth, amplitude, lighting float64) error {
	if err := checkPositive("reed width", reedWidth); err != nil {
		return err
	}
	if err := checkNonNegative("amplitude", amplitude); err != nil {
		return err
	}
	return checkNonNegative("lighting intensity", lighting)
}

// distorts reports whether the distortion and lighting stage has any effect.
func (p Params) distorts() bool {
	return p.Amplitude != 0 || p.LightingIntensity != 0
}
