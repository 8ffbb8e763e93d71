package stage

import (
	"github.com/rm-hull/reeded-glass/internal/glass"
	"github.com/rm-hull/reeded-glass/internal/png"
)

type GaussianBlurStage struct {
	Radius float64
}

// Process blurs the image over an edge-extended canvas so the borders keep
// their colour. A zero Radius leaves the pixels as they are.
func (s *GaussianBlurStage) Process(p *png.Image) error {
	blurred, err := glass.Blur(p.Bitmap, s.Radius)
	if err != nil {
		return err
	}
	p.Bitmap = blurred
	return nil
}
