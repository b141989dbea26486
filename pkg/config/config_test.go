package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so tests start from a known
// environment regardless of what the host has set.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PURVIEW_ACCOUNT_NAME", "PURVIEW_ENDPOINT",
		"AZURE_SUBSCRIPTION_ID", "AZURE_RESOURCE_GROUP",
		"AZURE_TENANT_ID", "AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET",
		"MCP_TRANSPORT", "PORT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadRequiresAccountOrEndpoint(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PURVIEW_ACCOUNT_NAME")
}

func TestLoadDerivesEndpointFromAccount(t *testing.T) {
	clearEnv(t)
	t.Setenv("PURVIEW_ACCOUNT_NAME", "contoso")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "contoso", cfg.AccountName)
	assert.Equal(t, "https://contoso.purview.azure.com", cfg.Endpoint)
}

func TestLoadExplicitEndpointWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("PURVIEW_ACCOUNT_NAME", "contoso")
	t.Setenv("PURVIEW_ENDPOINT", "https://purview.contoso.example/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://purview.contoso.example", cfg.Endpoint, "trailing slash is trimmed")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("PURVIEW_ACCOUNT_NAME", "contoso")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadTransport(t *testing.T) {
	clearEnv(t)
	t.Setenv("PURVIEW_ACCOUNT_NAME", "contoso")
	t.Setenv("MCP_TRANSPORT", "http")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	clearEnv(t)
	t.Setenv("PURVIEW_ACCOUNT_NAME", "contoso")
	t.Setenv("MCP_TRANSPORT", "websocket")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MCP_TRANSPORT")
}

func TestLoadAzureIdentifiers(t *testing.T) {
	clearEnv(t)
	t.Setenv("PURVIEW_ACCOUNT_NAME", "contoso")
	t.Setenv("AZURE_SUBSCRIPTION_ID", "sub-1")
	t.Setenv("AZURE_RESOURCE_GROUP", "rg-data")
	t.Setenv("AZURE_TENANT_ID", "tenant-1")
	t.Setenv("AZURE_CLIENT_ID", "client-1")
	t.Setenv("AZURE_CLIENT_SECRET", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sub-1", cfg.SubscriptionID)
	assert.Equal(t, "rg-data", cfg.ResourceGroup)
	assert.True(t, cfg.HasServicePrincipal())
}

func TestHasServicePrincipal(t *testing.T) {
	cases := []struct {
		name                   string
		tenant, client, secret string
		want                   bool
	}{
		{"full triple", "t", "c", "s", true},
		{"missing secret", "t", "c", "", false},
		{"missing client", "t", "", "s", false},
		{"missing tenant", "", "c", "s", false},
		{"none", "", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{TenantID: tc.tenant, ClientID: tc.client, ClientSecret: tc.secret}
			assert.Equal(t, tc.want, cfg.HasServicePrincipal())
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
