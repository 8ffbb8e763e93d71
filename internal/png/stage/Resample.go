package stage

import (
	"github.com/rm-hull/reeded-glass/internal/glass"
	"github.com/rm-hull/reeded-glass/internal/png"
)

type ResampleStage struct {
	Width  int
	Height int
}

// Process applies a Catmull-Rom resampling to fit the image inside a
// Width x Height viewport, keeping its aspect ratio
func (s *ResampleStage) Process(p *png.Image) error {
	scaled, err := glass.Preview(p.Bitmap, s.Width, s.Height)
	if err != nil {
		return err
	}
	p.Bitmap = scaled
	return nil
}
