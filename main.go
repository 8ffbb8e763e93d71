package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rm-hull/reeded-glass/cmd"
	"github.com/rm-hull/reeded-glass/internal/glass"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
		log.Printf("Ignoring %s=%q: %v", key, v, err)
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
		log.Printf("Ignoring %s=%q: %v", key, v, err)
	}
	return fallback
}

func addParamFlags(c *cobra.Command, params *glass.Params) {
	defaults := glass.DefaultParams()
	c.Flags().Float64Var(&params.BlurRadius, "blur", defaults.BlurRadius, "Blur radius in pixels (0 disables blur)")
	c.Flags().Float64Var(&params.ReedWidth, "width", defaults.ReedWidth, "Reed width in pixels (period of the distortion)")
	c.Flags().Float64Var(&params.Amplitude, "amplitude", defaults.Amplitude, "Maximum horizontal displacement in pixels")
	c.Flags().Float64Var(&params.LightingIntensity, "lighting", defaults.LightingIntensity, "Maximum brightness change of highlights and shadows")
}

func main() {
	var logFile string
	var params glass.Params
	var input, output string

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	rootCmd := &cobra.Command{
		Use:  "reeded-glass",
		Long: `Reeded glass distortion and lighting effect for images`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if logFile != "" {
				log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
					Filename:   logFile,
					MaxSize:    10,
					MaxBackups: 3,
					MaxAge:     28,
				}))
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file, rotated at 10MB")

	var serverOpts cmd.ApiServerOptions
	var maxUploadMB int
	apiServerCmd := &cobra.Command{
		Use:   "api-server [--port <port>] [--debug]",
		Short: "Start HTTP API server",
		Run: func(c *cobra.Command, _ []string) {
			serverOpts.MaxUploadBytes = int64(maxUploadMB) << 20
			cmd.ApiServer(c.Context(), serverOpts)
		},
	}
	apiServerCmd.Flags().IntVar(&serverOpts.Port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&serverOpts.Debug, "debug", false, "Enable debugging (pprof) - WARING: do not enable in production")
	apiServerCmd.Flags().DurationVar(&serverOpts.SessionTTL, "session-ttl", envDuration("REEDED_GLASS_SESSION_TTL", 30*time.Minute), "Evict sessions idle for longer than this")
	apiServerCmd.Flags().IntVar(&maxUploadMB, "max-upload-mb", envInt("REEDED_GLASS_MAX_UPLOAD_MB", 32), "Largest accepted upload in megabytes")

	var previewWidth, previewHeight int
	applyCmd := &cobra.Command{
		Use:   "apply --input <path|url> [--output <path>]",
		Short: "Apply the effect to a single image",
		RunE: func(c *cobra.Command, _ []string) error {
			return cmd.Apply(c.Context(), input, output, params, previewWidth, previewHeight)
		},
	}
	applyCmd.Flags().StringVar(&input, "input", "", "Source image path or http(s) URL")
	applyCmd.Flags().StringVar(&output, "output", "", "Output PNG path (default glass-effect-<millis>.png)")
	applyCmd.Flags().IntVar(&previewWidth, "preview-width", 0, "Scale the result to fit this width")
	applyCmd.Flags().IntVar(&previewHeight, "preview-height", 0, "Scale the result to fit this height")
	_ = applyCmd.MarkFlagRequired("input")
	addParamFlags(applyCmd, &params)

	var inputDir, outputDir string
	var poolSize int
	batchCmd := &cobra.Command{
		Use:   "batch --input-dir <path> --output-dir <path> [--pool-size <n>]",
		Short: "Apply the effect to every image in a directory",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Batch(inputDir, outputDir, poolSize, params)
		},
	}
	batchCmd.Flags().StringVar(&inputDir, "input-dir", "", "Directory of source images")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./data/rendered", "Directory for rendered PNGs")
	batchCmd.Flags().IntVar(&poolSize, "pool-size", 4, "Number of concurrent workers")
	_ = batchCmd.MarkFlagRequired("input-dir")
	addParamFlags(batchCmd, &params)

	var frames int
	var frameDelay float64
	var animationOutput string
	animateCmd := &cobra.Command{
		Use:   "animate --input <path|url> --output <path>",
		Short: "Render an animated PNG sweeping the amplitude from zero",
		RunE: func(c *cobra.Command, _ []string) error {
			return cmd.Animate(c.Context(), input, animationOutput, params, frames, frameDelay)
		},
	}
	animateCmd.Flags().StringVar(&input, "input", "", "Source image path or http(s) URL")
	animateCmd.Flags().StringVar(&animationOutput, "output", "animation.png", "Output APNG path")
	animateCmd.Flags().IntVar(&frames, "frames", 12, "Number of frames")
	animateCmd.Flags().Float64Var(&frameDelay, "delay", 0.1, "Seconds per frame")
	_ = animateCmd.MarkFlagRequired("input")
	addParamFlags(animateCmd, &params)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd.AddCommand(apiServerCmd, applyCmd, batchCmd, animateCmd)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}
