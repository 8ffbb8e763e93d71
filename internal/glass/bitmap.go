package glass

import (
	"image"

	"golang.org/x/image/draw"
)

// NewBitmap allocates a transparent black bitmap of the given size with its
// origin at (0, 0).
func NewBitmap(width, height int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

// ToBitmap converts any decoded image into a non-premultiplied bitmap whose
// origin is at (0, 0). The source is never modified.
func ToBitmap(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := NewBitmap(b.Dx(), b.Dy())
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Clone returns a compact copy of src with its origin at (0, 0).
func Clone(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	out := NewBitmap(b.Dx(), b.Dy())
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		i := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+rowLen], src.Pix[i:i+rowLen])
	}
	return out
}

// compact returns src unchanged when its pixels are already a dense,
// zero-origin W×H×4 slice, otherwise a compact copy.
func compact(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	if b.Min == (image.Point{}) && src.Stride == b.Dx()*4 && len(src.Pix) == b.Dx()*b.Dy()*4 {
		return src
	}
	return Clone(src)
}
