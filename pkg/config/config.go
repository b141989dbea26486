package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Transport selects how the MCP server speaks to its client.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Config struct {
	AccountName    string
	Endpoint       string
	SubscriptionID string
	ResourceGroup  string
	TenantID       string
	ClientID       string
	ClientSecret   string

	Transport string
	Port      int
	LogLevel  string
}

func Load() (*Config, error) {
	accountName := os.Getenv("PURVIEW_ACCOUNT_NAME")
	endpoint := os.Getenv("PURVIEW_ENDPOINT")
	if accountName == "" && endpoint == "" {
		return nil, fmt.Errorf("PURVIEW_ACCOUNT_NAME or PURVIEW_ENDPOINT environment variable is required")
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.purview.azure.com", accountName)
	}
	endpoint = strings.TrimRight(endpoint, "/")

	transport := os.Getenv("MCP_TRANSPORT")
	if transport == "" {
		transport = TransportStdio
	}
	switch transport {
	case TransportStdio, TransportHTTP:
	default:
		return nil, fmt.Errorf("MCP_TRANSPORT must be %q or %q, got %q", TransportStdio, TransportHTTP, transport)
	}

	port := 8080
	if p := os.Getenv("PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AccountName:    accountName,
		Endpoint:       endpoint,
		SubscriptionID: os.Getenv("AZURE_SUBSCRIPTION_ID"),
		ResourceGroup:  os.Getenv("AZURE_RESOURCE_GROUP"),
		TenantID:       os.Getenv("AZURE_TENANT_ID"),
		ClientID:       os.Getenv("AZURE_CLIENT_ID"),
		ClientSecret:   os.Getenv("AZURE_CLIENT_SECRET"),
		Transport:      transport,
		Port:           port,
		LogLevel:       logLevel,
	}, nil
}

// HasServicePrincipal reports whether the full tenant/client/secret triple
// is present. A partial triple does not count; the ambient identity chain
// takes over in that case.
func (c *Config) HasServicePrincipal() bool {
	return c.TenantID != "" && c.ClientID != "" && c.ClientSecret != ""
}

// SetupLogging initializes the global slog logger with JSON output at the
// specified level. Logs go to stderr: in stdio transport mode stdout
// carries the protocol stream and must stay clean.
func SetupLogging(level string) {
	slog.SetDefault(slog.New(NewLogHandler(level)))
}

// NewLogHandler builds the stderr JSON handler used as the base of the
// process logger. Split out so the entry point can fan it out together
// with an OTel bridge handler.
func NewLogHandler(level string) slog.Handler {
	return slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: ParseLevel(level)})
}

// ParseLevel maps a config string to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
