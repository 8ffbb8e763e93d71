package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rm-hull/reeded-glass/internal"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

type ApiServerOptions struct {
	Port           int
	Debug          bool
	SessionTTL     time.Duration
	MaxUploadBytes int64
}

const shutdownTimeout = 10 * time.Second

func ApiServer(ctx context.Context, opts ApiServerOptions) {
	internal.ShowVersion()
	internal.EnvironmentVars("REEDED_GLASS_", "GIN_")

	store := internal.NewSessionStore()
	sched, err := internal.NewScheduler(store, opts.SessionTTL, opts.SessionTTL/4)
	if err != nil {
		log.Fatal(err)
	}

	r := gin.New()
	r.MaxMultipartMemory = opts.MaxUploadBytes

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
	)

	if opts.Debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{})
	if err != nil {
		log.Fatalf("failed to initialize healthcheck: %v", err)
	}

	internal.RegisterRoutes(r, store, opts.MaxUploadBytes)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: r,
	}
	log.Printf("Starting HTTP API Server on port %d...", opts.Port)
	if err := serve(ctx, srv, sched); err != nil {
		log.Fatalf("HTTP API Server on port %d failed: %v", opts.Port, err)
	}
}

type shutdowner interface {
	Shutdown() error
}

// serve runs srv until it fails or ctx is cancelled, then stops the scheduler
// in either case.
func serve(ctx context.Context, srv *http.Server, sched shutdowner) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
		log.Println("Shutting down HTTP API Server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			serveErr = fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if err := sched.Shutdown(); err != nil {
		return errors.Join(serveErr, fmt.Errorf("failed to shutdown scheduler: %w", err))
	}
	return serveErr
}
