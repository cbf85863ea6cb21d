package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/catwatch/cat-tracker/internal/camera/rtsp"
	"github.com/catwatch/cat-tracker/internal/config"
	"github.com/catwatch/cat-tracker/internal/detect/dnn"
	"github.com/catwatch/cat-tracker/internal/event"
	"github.com/catwatch/cat-tracker/internal/logger"
	"github.com/catwatch/cat-tracker/internal/metrics"
	"github.com/catwatch/cat-tracker/internal/pipeline"
	"github.com/catwatch/cat-tracker/internal/server"
	"github.com/catwatch/cat-tracker/internal/snapshot"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var logLevel string
	var logColor bool

	flag.IntVar(&cfg.Port, "port", cfg.Port, "Port number to run the server on")
	flag.StringVar(&cfg.Host, "host", cfg.Host, "Host to listen on")
	flag.StringVar(&cfg.CameraURL, "camera", cfg.CameraURL, "Camera stream URL (RTSP)")
	flag.StringVar(&cfg.CapturesDir, "captures", cfg.CapturesDir, "Snapshot output directory")
	flag.StringVar(&cfg.ModelPath, "model", cfg.ModelPath, "Detection model path")
	flag.StringVar(&cfg.ModelConfigPath, "model-config", cfg.ModelConfigPath, "Detection model config path")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error, silent)")
	flag.BoolVar(&logColor, "log-color", true, "Enable colored log output")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logger.Init(level, os.Stderr, logColor)

	logger.Info("Main", "Cat Tracker starting on %s", cfg.Addr())
	logger.Info("Main", "Camera: %s", cfg.CameraURL)
	logger.Info("Main", "Captures: %s", cfg.CapturesDir)

	m := metrics.New()
	events := event.NewStore(cfg.MaxEvents, cfg.TrimTo)
	snapshots := snapshot.NewStore(cfg.CapturesDir)

	detector, err := dnn.NewDetector(cfg.ModelPath, cfg.ModelConfigPath,
		cfg.ConfidenceThreshold, cfg.IoUThreshold)
	if err != nil {
		log.Fatalf("Failed to load detection model: %v", err)
	}
	defer detector.Close()

	source, err := rtsp.Open(cfg.CameraURL)
	if err != nil {
		log.Fatalf("Failed to open camera stream: %v", err)
	}
	defer source.Close()
	logger.Info("Main", "Connected to camera stream")

	p := pipeline.New(source, detector, events, snapshots, m,
		cfg.TargetClass, cfg.JPEGQuality)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The pipeline ending (camera gone) does not stop the HTTP surface;
	// the event log, gallery and APIs stay available.
	go func() {
		if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Main", "pipeline stopped: %v", err)
		}
	}()

	srv := server.New(events, snapshots, p.Broadcaster(), m, cfg.StatsInterval)
	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Handler(),
		// No write timeout: /video and /stats/stream are long-lived.
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("Main", "Shutting down...")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	logger.Info("Main", "Server stopped")
}
