package png

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/kettek/apng"
)

// MaxFrameDelay is the longest per-frame delay, in seconds, that fits the
// millisecond numerator of an APNG frame.
const MaxFrameDelay = math.MaxUint16 / 1000.0

// CheckFrameDelay rejects delays that cannot be stored in an APNG frame.
func CheckFrameDelay(frameDelay float64) error {
	if !(frameDelay >= 0 && frameDelay <= MaxFrameDelay) {
		return fmt.Errorf("frame delay must be between 0 and %gs, got %v", MaxFrameDelay, frameDelay)
	}
	return nil
}

// Animate encodes frames as a looping animated PNG, showing each frame for
// frameDelay seconds.
func Animate(frames []image.Image, frameDelay float64) ([]byte, error) {
	if len(frames) == 0 {
		return nil, errors.New("no frames to animate")
	}
	if err := CheckFrameDelay(frameDelay); err != nil {
		return nil, err
	}

	a := apng.APNG{
		Frames:    make([]apng.Frame, len(frames)),
		LoopCount: 0,
	}

	for i, img := range frames {
		a.Frames[i] = apng.Frame{
			Image:            img,
			DelayNumerator:   uint16(math.Round(frameDelay * 1000)),
			DelayDenominator: 1000,
		}
	}

	var buf bytes.Buffer
	if err := apng.Encode(&buf, a); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
