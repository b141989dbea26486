package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// InitLogger initializes OTLP log export and returns an slog handler bridged
// to it. When OTEL_EXPORTER_OTLP_ENDPOINT is unset the handler is nil and log
// export is skipped; callers keep logging to stderr either way.
func InitLogger(ctx context.Context, accountName string) (slog.Handler, func(context.Context) error, error) {
	if !otlpConfigured() {
		return nil, func(ctx context.Context) error { return nil }, nil
	}

	exporter, err := otlploggrpc.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("creating OTLP log exporter: %w", err)
	}

	res, err := newResource(accountName)
	if err != nil {
		return nil, nil, err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	)

	handler := otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(provider))
	return handler, provider.Shutdown, nil
}
