package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/rm-hull/reeded-glass/internal"
	"github.com/rm-hull/reeded-glass/internal/glass"
	"github.com/rm-hull/reeded-glass/internal/png"
)

// SweepParams returns frames parameter sets whose amplitude rises linearly
// from zero to params.Amplitude. Everything else is held constant.
func SweepParams(params glass.Params, frames int) ([]glass.Params, error) {
	if frames < 2 {
		return nil, errors.New("an animation needs at least 2 frames")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	sweep := make([]glass.Params, frames)
	for i := range sweep {
		p := params
		p.Amplitude = params.Amplitude * float64(i) / float64(frames-1)
		sweep[i] = p
	}
	return sweep, nil
}

// Animate renders an amplitude sweep of input as an animated PNG.
func Animate(ctx context.Context, input, output string, params glass.Params, frames int, frameDelay float64) error {
	if err := png.CheckFrameDelay(frameDelay); err != nil {
		return err
	}
	sweep, err := SweepParams(params, frames)
	if err != nil {
		return err
	}

	src, err := internal.OpenSource(ctx, internal.NewSourceClient(internal.UserAgent()), input)
	if err != nil {
		return err
	}

	images := make([]image.Image, len(sweep))
	for i, p := range sweep {
		out, err := glass.RunPipeline(src.Bitmap, p)
		if err != nil {
			return fmt.Errorf("failed to render frame %d: %w", i, err)
		}
		images[i] = out
	}

	apngBytes, err := png.Animate(images, frameDelay)
	if err != nil {
		return fmt.Errorf("failed to encode animation: %w", err)
	}

	if err := os.WriteFile(output, apngBytes, 0644); err != nil {
		return err
	}
	log.Printf("Wrote %d frame animation to %s", len(images), output)
	return nil
}
