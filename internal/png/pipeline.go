package png

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"time"

	"github.com/rm-hull/reeded-glass/internal/glass"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is a decoded picture held as a non-premultiplied bitmap. Stages
// replace Bitmap with a new one rather than writing into it.
type Image struct {
	Bitmap *image.NRGBA
	Format string
}

type PipelineStage interface {
	Process(img *Image) error
}

// NewImageFromReader decodes any registered format (PNG, JPEG, GIF, BMP, TIFF
// or WebP).
func NewImageFromReader(r io.Reader) (*Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Image{
		Bitmap: glass.ToBitmap(img),
		Format: format,
	}, nil
}

func (p *Image) Bounds() image.Rectangle {
	return p.Bitmap.Bounds()
}

// Write always encodes PNG, whatever the source format was.
func (p *Image) Write(w io.Writer) error {
	return png.Encode(w, p.Bitmap)
}

func (p *Image) Pipeline(stages ...PipelineStage) error {
	for _, stage := range stages {
		if err := stage.Process(p); err != nil {
			return err
		}
	}
	return nil
}

// ExportName is the download filename for a render produced at t.
func ExportName(t time.Time) string {
	return fmt.Sprintf("glass-effect-%d.png", t.UnixMilli())
}
