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

	"go.uber.org/zap"

	"github.com/joelkehle/homeassess/internal/config"
	"github.com/joelkehle/homeassess/internal/homeassess"
	"github.com/joelkehle/homeassess/internal/httpapi"
	"github.com/joelkehle/homeassess/internal/logging"
	"github.com/joelkehle/homeassess/internal/report"
	"github.com/joelkehle/homeassess/internal/telemetry"
)

func main() {
	cfg := config.Load()

	var (
		addr       = flag.String("addr", cfg.Addr, "Listen address")
		chromePath = flag.String("chrome-path", cfg.ChromePath, "Chromium binary used for PDF rendering (default: auto-detect)")
		noPDF      = flag.Bool("no-pdf", false, "Disable PDF rendering")
	)
	flag.Parse()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.ServiceName, logger)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}

	var gateway homeassess.Gateway
	if cfg.GatewayConfigured() {
		g, err := homeassess.NewAnthropicGateway(cfg.AnthropicAPIKey, cfg.Model)
		if err != nil {
			logger.Fatal("init AI gateway", zap.Error(err))
		}
		gateway = g
	} else {
		logger.Warn("ANTHROPIC_API_KEY not set; assessment endpoints will return 500")
	}
	analyzer := homeassess.NewAnalyzer(gateway, homeassess.NewImageFetcher(cfg.ImageFetchTimeout, logger), logger)

	opts := httpapi.Options{Analyzer: analyzer, Logger: logger}
	if !*noPDF {
		opts.PDF = report.NewChromiumPDFRenderer(*chromePath)
	}
	if cfg.EmailConfigured() {
		opts.Email = report.NewResendSender(cfg.ResendAPIKey, cfg.ResendFrom, logger)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewServer(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 15*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
		_ = shutdownTracing(shutdownCtx)
	}()

	logger.Info("homeassess listening",
		zap.String("addr", *addr),
		zap.Bool("ai", gateway != nil),
		zap.Bool("pdf", opts.PDF != nil),
		zap.Bool("email", opts.Email != nil),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
