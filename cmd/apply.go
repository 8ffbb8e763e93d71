package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/rm-hull/reeded-glass/internal"
	"github.com/rm-hull/reeded-glass/internal/glass"
	"github.com/rm-hull/reeded-glass/internal/png"
	"github.com/rm-hull/reeded-glass/internal/png/stage"
)

// Apply renders a single image. An empty output writes
// glass-effect-<millis>.png into the current directory. A non-zero preview
// box scales the render to fit it.
func Apply(ctx context.Context, input, output string, params glass.Params, previewWidth, previewHeight int) error {
	stages, err := stage.EffectStages(params)
	if err != nil {
		return err
	}
	if previewWidth > 0 || previewHeight > 0 {
		stages = append(stages, &stage.ResampleStage{Width: previewWidth, Height: previewHeight})
	}

	img, err := internal.OpenSource(ctx, internal.NewSourceClient(internal.UserAgent()), input)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := img.Pipeline(stages...); err != nil {
		return fmt.Errorf("failed to process image pipeline: %w", err)
	}
	log.Printf("Rendered %s (%dx%d) in %s", input, img.Bounds().Dx(), img.Bounds().Dy(), time.Since(start))

	if output == "" {
		output = png.ExportName(time.Now())
	}
	return writeAtomic(output, img)
}

func writeAtomic(filename string, img *png.Image) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), "render-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	cleanupTemp := true
	defer func() {
		_ = tmpFile.Close()
		if cleanupTemp {
			_ = os.Remove(tmpFile.Name())
		}
	}()

	if err := img.Write(tmpFile); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file before rename: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	cleanupTemp = false
	log.Printf("Wrote %s", filename)
	return nil
}
