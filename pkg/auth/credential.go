// Package auth resolves the single process-wide Azure credential used by
// the Purview client. Resolution order: an explicit service-principal
// triple from configuration wins; otherwise the platform identity chain
// (environment, workload identity, managed identity, CLI) takes over.
// The chain's internals belong to azidentity and are not reimplemented.
package auth

import (
	"fmt"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/datagovlab/purview-mcp/pkg/config"
)

// Resolve produces the shared token credential from configuration.
// Errors carry tenant and client identifiers but never the client secret.
func Resolve(cfg *config.Config) (azcore.TokenCredential, error) {
	if cfg.HasServicePrincipal() {
		cred, err := azidentity.NewClientSecretCredential(cfg.TenantID, cfg.ClientID, cfg.ClientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("resolving service principal credential for tenant %s: %w", cfg.TenantID, err)
		}
		slog.Info("auth: using service principal credential", "tenant", cfg.TenantID, "client", cfg.ClientID)
		return cred, nil
	}

	if cfg.TenantID != "" || cfg.ClientID != "" || cfg.ClientSecret != "" {
		slog.Warn("auth: incomplete service principal triple, falling back to ambient identity chain")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving ambient identity chain: %w", err)
	}
	slog.Info("auth: using ambient identity chain")
	return cred, nil
}
