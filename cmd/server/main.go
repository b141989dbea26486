package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/joho/godotenv"
	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/datagovlab/purview-mcp/pkg/auth"
	"github.com/datagovlab/purview-mcp/pkg/config"
	mcpserver "github.com/datagovlab/purview-mcp/pkg/mcp"
	"github.com/datagovlab/purview-mcp/pkg/purview"
	"github.com/datagovlab/purview-mcp/pkg/resources"
	"github.com/datagovlab/purview-mcp/pkg/telemetry"
	"github.com/datagovlab/purview-mcp/pkg/tools"
)

func main() {
	// Optional .env for local development; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	config.SetupLogging(cfg.LogLevel)

	slog.Info("starting purview-mcp server",
		"account", cfg.AccountName,
		"endpoint", cfg.Endpoint,
		"transport", cfg.Transport,
	)

	// Initialize OpenTelemetry log export; when enabled, fan logs out to
	// stderr and OTLP together.
	logHandler, loggerShutdown, err := telemetry.InitLogger(context.Background(), cfg.AccountName)
	if err != nil {
		slog.Error("failed to initialize log export", "error", err)
		os.Exit(1)
	}
	if logHandler != nil {
		slog.SetDefault(slog.New(slogmulti.Fanout(config.NewLogHandler(cfg.LogLevel), logHandler)))
		slog.Info("telemetry: log export enabled")
	}

	// Initialize OpenTelemetry tracer and meter
	tracerShutdown, err := telemetry.InitTracer(context.Background(), cfg.AccountName)
	if err != nil {
		slog.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	meterShutdown, err := telemetry.InitMeter(context.Background(), cfg.AccountName)
	if err != nil {
		slog.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}

	// Resolve Azure credential
	cred, err := auth.Resolve(cfg)
	if err != nil {
		slog.Error("failed to resolve Azure credential", "error", err)
		os.Exit(1)
	}

	// Create Purview data-plane client
	backend, err := purview.NewClient(cfg.Endpoint, cred, &purview.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Transport: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		},
	})
	if err != nil {
		slog.Error("failed to create Purview client", "error", err)
		os.Exit(1)
	}

	// Create tool registry
	registry := tools.NewRegistry()

	base := tools.BaseTool{Cfg: cfg, Backend: backend}

	registry.Register(&tools.GetAuditLogsTool{BaseTool: base})
	registry.Register(&tools.GetSensitivityLabelChangesTool{BaseTool: base})
	registry.Register(&tools.ScanDataSourceTool{BaseTool: base})
	registry.Register(&tools.GetDataCatalogSummaryTool{BaseTool: base})
	registry.Register(&tools.GetDataLineageTool{BaseTool: base})

	// Create MCP server with the static resource surface
	srv := mcpserver.NewServer(registry, resources.NewProvider(cfg))

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Transport == config.TransportStdio {
		runErr := srv.RunStdio(ctx)
		stop()
		flushTelemetry(loggerShutdown, meterShutdown, tracerShutdown)
		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			slog.Error("MCP server error", "error", runErr)
			os.Exit(1)
		}
		slog.Info("server stopped")
		return
	}

	// Health check endpoints
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})
	healthMux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	// Start health check server on a separate port
	go func() {
		healthAddr := fmt.Sprintf(":%d", cfg.Port+1)
		slog.Info("health check server listening", "addr", healthAddr)
		if err := http.ListenAndServe(healthAddr, healthMux); err != nil && err != http.ErrServerClosed {
			slog.Error("health server error", "error", err)
		}
	}()

	// Start MCP Streamable HTTP server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
			slog.Error("MCP server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("server ready", "port", cfg.Port)

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	flushTelemetry(loggerShutdown, meterShutdown, tracerShutdown)

	slog.Info("server stopped")
}

// flushTelemetry drains pending spans, metrics, and logs before exit.
func flushTelemetry(shutdowns ...func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, fn := range shutdowns {
		if err := fn(ctx); err != nil {
			slog.Error("telemetry shutdown error", "error", err)
		}
	}
}
