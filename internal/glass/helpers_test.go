package glass

import (
	"image"
	"image/color"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := NewBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// gradient fills every channel with a value derived from the pixel position so
// that no two neighbouring pixels are equal.
func gradient(w, h int) *image.NRGBA {
	img := NewBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 7),
				G: uint8(y * 11),
				B: uint8((x + y) * 3),
				A: uint8(128 + (x*y)%128),
			})
		}
	}
	return img
}
