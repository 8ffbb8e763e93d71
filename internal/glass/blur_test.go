package glass

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlur_ZeroRadiusIsIdentity(t *testing.T) {
	src := gradient(13, 9)
	out, err := Blur(src, 0)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, out.Pix)
	assert.Equal(t, src.Bounds(), out.Bounds())

	out.Pix[0] = ^out.Pix[0]
	assert.NotEqual(t, out.Pix[0], src.Pix[0], "result must not alias the source")
}

func TestBlur_PreservesDimensions(t *testing.T) {
	for _, radius := range []float64{0.5, 1, 3, 7.5} {
		out, err := Blur(gradient(17, 5), radius)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 17, 5), out.Bounds())
		assert.Len(t, out.Pix, 17*5*4)
	}
}

func TestBlur_EdgesDoNotFade(t *testing.T) {
	c := color.NRGBA{R: 200, G: 120, B: 40, A: 255}
	src := solid(10, 6, c)

	out, err := Blur(src, 3)
	require.NoError(t, err)

	for _, p := range []image.Point{{0, 0}, {9, 0}, {0, 5}, {9, 5}, {4, 3}} {
		got := out.NRGBAAt(p.X, p.Y)
		assert.InDelta(t, c.R, got.R, 1, "R at %v", p)
		assert.InDelta(t, c.G, got.G, 1, "G at %v", p)
		assert.InDelta(t, c.B, got.B, 1, "B at %v", p)
		assert.InDelta(t, c.A, got.A, 1, "A at %v", p)
	}
}

func TestBlur_Smooths(t *testing.T) {
	src := NewBitmap(11, 11)
	src.SetNRGBA(5, 5, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	out, err := Blur(src, 2)
	require.NoError(t, err)

	centre := out.NRGBAAt(5, 5)
	neighbour := out.NRGBAAt(6, 5)
	assert.Less(t, centre.A, uint8(255))
	assert.Greater(t, neighbour.A, uint8(0))
	assert.InDelta(t, out.NRGBAAt(4, 5).A, neighbour.A, 1, "blur should be symmetric horizontally")
	assert.InDelta(t, out.NRGBAAt(5, 6).A, neighbour.A, 1, "blur should be isotropic")
}

func TestBlur_KeepsColourBesideTransparency(t *testing.T) {
	src := NewBitmap(8, 1)
	for x := 0; x < 4; x++ {
		src.SetNRGBA(x, 0, color.NRGBA{R: 255, A: 255})
	}

	out, err := Blur(src, 2)
	require.NoError(t, err)

	for _, x := range []int{3, 4, 5} {
		got := out.NRGBAAt(x, 0)
		assert.Greater(t, got.A, uint8(0), "alpha at %d", x)
		assert.Less(t, got.A, uint8(255), "alpha at %d", x)
		assert.GreaterOrEqual(t, got.R, uint8(240), "red must not darken at %d", x)
		assert.Equal(t, uint8(0), got.G)
		assert.Equal(t, uint8(0), got.B)
	}
}

func TestBlur_DoesNotModifySource(t *testing.T) {
	src := gradient(8, 8)
	before := append([]uint8(nil), src.Pix...)
	_, err := Blur(src, 2)
	require.NoError(t, err)
	assert.Equal(t, before, src.Pix)
}

func TestBlur_OffsetOrigin(t *testing.T) {
	src := gradient(12, 12).SubImage(image.Rect(4, 4, 10, 8)).(*image.NRGBA)
	out, err := Blur(src, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), out.Bounds())
	assert.Equal(t, src.NRGBAAt(4, 4), out.NRGBAAt(0, 0))
	assert.Equal(t, src.NRGBAAt(9, 7), out.NRGBAAt(5, 3))
}

func TestBlur_NegativeRadius(t *testing.T) {
	out, err := Blur(gradient(4, 4), -1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Nil(t, out)
}

func TestBlur_EmptyImage(t *testing.T) {
	out, err := Blur(NewBitmap(0, 0), 3)
	require.NoError(t, err)
	assert.True(t, out.Bounds().Empty())
}
