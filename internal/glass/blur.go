package glass

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/image/draw"
)

// Blur returns a Gaussian blurred copy of src. A radius of zero yields a
// pixel-identical copy.
//
// The source is first embedded in a canvas padded by 2·radius pixels on each
// side, where the padding repeats the nearest edge pixel. Blurring that canvas
// and cropping back to the original bounds keeps edge pixels from being
// averaged against transparent black.
func Blur(src *image.NRGBA, radius float64) (*image.NRGBA, error) {
	if err := checkNonNegative("blur radius", radius); err != nil {
		return nil, err
	}
	return gaussian(compact(src), radius), nil
}

func gaussian(src *image.NRGBA, radius float64) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if radius == 0 || w == 0 || h == 0 {
		return Clone(src)
	}

	// The blur runs on premultiplied RGBA, so colour next to transparent
	// pixels is weighted by its alpha and does not bleed towards black.
	pad := int(math.Ceil(2 * radius))
	padded := clone.Pad(clone.AsRGBA(src), pad, pad, clone.EdgeExtend)
	blurred := blur.Gaussian(padded, radius)

	out := NewBitmap(w, h)
	origin := blurred.Bounds().Min.Add(image.Pt(pad, pad))
	draw.Draw(out, out.Bounds(), blurred, origin, draw.Src)
	return out
}
