package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/framelingo/framelingo-annotation-service/internal/api"
	"github.com/framelingo/framelingo-annotation-service/internal/detector"
	"github.com/framelingo/framelingo-annotation-service/internal/infra/config"
	"github.com/framelingo/framelingo-annotation-service/internal/infra/ffmpeg"
	"github.com/framelingo/framelingo-annotation-service/internal/infra/libretranslate"
	"github.com/framelingo/framelingo-annotation-service/internal/infra/metrics"
	"github.com/framelingo/framelingo-annotation-service/internal/infra/overlay"
	"github.com/framelingo/framelingo-annotation-service/internal/infra/tesseract"
	"github.com/framelingo/framelingo-annotation-service/internal/infra/tracing"
	"github.com/framelingo/framelingo-annotation-service/internal/translate"
	"github.com/framelingo/framelingo-annotation-service/internal/usecase"
	"github.com/framelingo/framelingo-annotation-service/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting framelingo-annotation-service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (non-fatal if the collector is unavailable)
	tp, err := tracing.InitTracer(ctx, cfg.JaegerEndpoint)
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer tp.Shutdown(ctx)
	}

	// External capability adapters
	sampler, err := ffmpeg.NewSampler(filepath.Join(cfg.TempDir, "frames"), log)
	fatalOnErr(err, "create frame sampler")

	engine, err := tesseract.NewEngine(cfg.TesseractPath, cfg.TesseractLangs, log)
	fatalOnErr(err, "create ocr engine")

	translator := libretranslate.NewClient(
		cfg.TranslateURL,
		cfg.TranslateAPIKey,
		time.Duration(cfg.TranslateTimeoutSecs)*time.Second,
		log,
	)

	// Pipeline
	det := detector.New(engine, log)
	dispatcher := translate.NewDispatcher(
		translator,
		cfg.TranslateWorkers,
		time.Duration(cfg.TranslateRetryMs)*time.Millisecond,
		log,
	)
	uc := usecase.NewProcessMediaUseCase(
		sampler, det, dispatcher, overlay.NewRenderer(),
		log,
		usecase.ProcessMediaConfig{DetectWorkers: cfg.DetectWorkers},
	)

	// Metrics server
	metricsSrv := metrics.StartMetricsServer(ctx, cfg.MetricsPort, log)

	// HTTP API
	handler := api.NewHandler(uc, filepath.Join(cfg.TempDir, "uploads"), cfg.MaxUploadSize, cfg.DefaultMaxFrames, log)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: api.NewRouter(handler, log),
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
		metricsSrv.Shutdown(shutdownCtx)
	}()

	log.Info("http server starting", zap.Int("port", cfg.HTTPPort))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("http server error", zap.Error(err))
	}

	log.Info("framelingo-annotation-service stopped")
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
