package glass

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// FitWithin scales srcW×srcH to the largest size that fits inside a
// boxW×boxH viewport while keeping the aspect ratio.
func FitWithin(srcW, srcH, boxW, boxH int) (int, int, error) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, fmt.Errorf("%w: image must not be empty, got %dx%d", ErrInvalidParameter, srcW, srcH)
	}
	if boxW <= 0 || boxH <= 0 {
		return 0, 0, fmt.Errorf("%w: viewport must be positive, got %dx%d", ErrInvalidParameter, boxW, boxH)
	}

	boxRatio := float64(boxW) / float64(boxH)
	imgRatio := float64(srcW) / float64(srcH)

	var w, h float64
	if boxRatio > imgRatio {
		h = float64(boxH)
		w = h * imgRatio
	} else {
		w = float64(boxW)
		h = w / imgRatio
	}
	return max(1, int(w)), max(1, int(h)), nil
}

// Preview scales img to fit a boxW×boxH viewport with Catmull-Rom resampling.
func Preview(img *image.NRGBA, boxW, boxH int) (*image.NRGBA, error) {
	b := img.Bounds()
	w, h, err := FitWithin(b.Dx(), b.Dy(), boxW, boxH)
	if err != nil {
		return nil, err
	}
	out := NewBitmap(w, h)
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out, nil
}
