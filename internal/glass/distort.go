package glass

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// ColumnProfile holds the per-column displacement and shading of one
// distortion pass. Both depend on the column index only, so a profile is
// computed once and shared by every row.
type ColumnProfile struct {
	Displacement []float64
	Shading      []float64
}

// NewColumnProfile computes the profile for an image of the given width:
//
//	angle(x)        = 2π·x / reedWidth
//	displacement(x) = amplitude · sin(angle)
//	shading(x)      = lighting · cos(angle)
func NewColumnProfile(width int, reedWidth, amplitude, lighting float64) ColumnProfile {
	p := ColumnProfile{
		Displacement: make([]float64, width),
		Shading:      make([]float64, width),
	}
	for x := 0; x < width; x++ {
		angle := 2 * math.Pi * float64(x) / reedWidth
		p.Displacement[x] = amplitude * math.Sin(angle)
		p.Shading[x] = lighting * math.Cos(angle)
	}
	return p
}

// SourceColumn returns the column sampled for destination column x.
// x + displacement(x) is rounded half up and clamped to the image, so samples
// past either edge reuse the edge column. Every negative value clamps to zero,
// which makes half up and half away from zero give identical results.
// Clamping happens in float64 so huge displacements cannot overflow int; a
// NaN displacement samples column zero.
func (p ColumnProfile) SourceColumn(x int) int {
	last := len(p.Displacement) - 1
	v := math.Floor(float64(x) + p.Displacement[x] + 0.5)
	switch {
	case !(v > 0):
		return 0
	case v >= float64(last):
		return last
	default:
		return int(v)
	}
}

// DistortAndLight displaces every column horizontally along a sine wave of
// period reedWidth and adds a cosine brightness offset to its colour channels.
// Alpha is copied from the sampled pixel. When both amplitude and lighting are
// zero the result is a pixel-identical copy of src.
func DistortAndLight(src *image.NRGBA, reedWidth, amplitude, lighting float64) (*image.NRGBA, error) {
	if err := validateDistortion(reedWidth, amplitude, lighting); err != nil {
		return nil, err
	}
	src = compact(src)
	if amplitude == 0 && lighting == 0 {
		return Clone(src), nil
	}
	return distort(src, NewColumnProfile(src.Rect.Dx(), reedWidth, amplitude, lighting)), nil
}

func distort(src *image.NRGBA, profile ColumnProfile) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := NewBitmap(w, h)
	if w == 0 || h == 0 {
		return out
	}

	columns := make([]int, w)
	for x := range columns {
		columns[x] = profile.SourceColumn(x)
	}

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := y * src.Stride
			for x := 0; x < w; x++ {
				s := row + columns[x]*4
				d := row + x*4
				shade := profile.Shading[x]
				out.Pix[d+0] = saturate(float64(src.Pix[s+0]) + shade)
				out.Pix[d+1] = saturate(float64(src.Pix[s+1]) + shade)
				out.Pix[d+2] = saturate(float64(src.Pix[s+2]) + shade)
				out.Pix[d+3] = src.Pix[s+3]
			}
		}
	})
	return out
}

// saturate rounds half to even and clamps to a byte. NaN maps to 0.
func saturate(v float64) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.RoundToEven(v))
	}
}
