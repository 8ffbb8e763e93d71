package glass

import "image"

// RunPipeline blurs src and then applies the distortion and lighting stage.
// All parameters are validated before any pixel work, and src is never
// modified: every call derives a fresh bitmap from it.
func RunPipeline(src *image.NRGBA, p Params) (*image.NRGBA, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	out := gaussian(compact(src), p.BlurRadius)
	if !p.distorts() {
		return out, nil
	}
	return distort(out, NewColumnProfile(out.Rect.Dx(), p.ReedWidth, p.Amplitude, p.LightingIntensity)), nil
}
