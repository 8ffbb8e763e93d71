package stage

import (
	"github.com/rm-hull/reeded-glass/internal/glass"
	"github.com/rm-hull/reeded-glass/internal/png"
)

type ReededGlassStage struct {
	ReedWidth float64
	Amplitude float64
	Lighting  float64
}

// Process shifts each column along a sine wave with period ReedWidth and
// brightens or darkens it along the matching cosine.
func (s *ReededGlassStage) Process(p *png.Image) error {
	distorted, err := glass.DistortAndLight(p.Bitmap, s.ReedWidth, s.Amplitude, s.Lighting)
	if err != nil {
		return err
	}
	p.Bitmap = distorted
	return nil
}

// EffectStages returns the blur and distortion stages for params, in the
// order they must run. Params are validated up front so no stage starts on
// an invalid configuration.
func EffectStages(params glass.Params) ([]png.PipelineStage, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return []png.PipelineStage{
		&GaussianBlurStage{Radius: params.BlurRadius},
		&ReededGlassStage{
			ReedWidth: params.ReedWidth,
			Amplitude: params.Amplitude,
			Lighting:  params.LightingIntensity,
		},
	}, nil
}
