package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/rm-hull/reeded-glass/internal"
	"github.com/rm-hull/reeded-glass/internal/glass"
)

func Batch(inputDir, outputDir string, poolSize int, params glass.Params) error {
	processor, err := internal.NewBatchProcessor(inputDir, outputDir, poolSize, params)
	if err != nil {
		return err
	}

	processor.StartWorkers()
	processor.DispatchJobs()
	errs := processor.Wait()
	if len(errs) > 0 {
		for _, err := range errs {
			log.Printf("  %v", err)
		}
		return fmt.Errorf("%d images failed: %w", len(errs), errors.Join(errs...))
	}
	return nil
}
