// Package resources serves the static documentation resources exposed
// alongside the Purview tools. Resource content is rendered from
// configuration only; nothing here talks to the backend.
package resources

import (
	"errors"
	"fmt"

	"github.com/datagovlab/purview-mcp/pkg/config"
)

// ErrNotFound is returned by Read for URIs the provider does not serve.
var ErrNotFound = errors.New("resource not found")

const (
	OverviewURI         = "purview://overview"
	SensitivityGuideURI = "purview://email-sensitivity-guide"
)

// Definition describes a resource for listing.
type Definition struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MIMEType    string `json:"mimeType"`
}

// Provider renders the resource surface from loaded configuration.
type Provider struct {
	cfg *config.Config
}

// NewProvider creates a resource provider.
func NewProvider(cfg *config.Config) *Provider {
	return &Provider{cfg: cfg}
}

// Definitions returns all resources the provider serves.
func (p *Provider) Definitions() []Definition {
	return []Definition{
		{
			URI:         OverviewURI,
			Name:        "Purview Overview",
			Description: "Overview of Purview configuration and status",
			MIMEType:    "text/markdown",
		},
		{
			URI:         SensitivityGuideURI,
			Name:        "Email Sensitivity Guide",
			Description: "Guide on email sensitivity labels and management",
			MIMEType:    "text/markdown",
		},
	}
}

// Read returns the markdown body for the given resource URI.
func (p *Provider) Read(uri string) (string, error) {
	switch uri {
	case OverviewURI:
		return p.overview(), nil
	case SensitivityGuideURI:
		return sensitivityGuide, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
}

func (p *Provider) overview() string {
	return fmt.Sprintf(`# Microsoft Purview Overview

## Account Information
- **Account Name:** %s
- **Endpoint:** %s
- **Subscription ID:** %s
- **Resource Group:** %s

## Data Estate
Current catalog statistics are available through the `+"`get_data_catalog_summary`"+` tool.

## Recent Activity
Recent audit logs can be fetched using the `+"`get_audit_logs`"+` tool.

## Available Tools
- `+"`get_audit_logs`"+`: Retrieve audit logs for a specified time period
- `+"`get_sensitivity_label_changes`"+`: Get a report of sensitivity label changes
- `+"`scan_data_source`"+`: Trigger a scan on a specific data source
- `+"`get_data_catalog_summary`"+`: Get summary statistics for the data catalog
- `+"`get_data_lineage`"+`: Get lineage information for a specific entity
`,
		p.cfg.AccountName, p.cfg.Endpoint, p.cfg.SubscriptionID, p.cfg.ResourceGroup)
}

const sensitivityGuide = `# Email Sensitivity Label Guide

## Overview
Sensitivity labels help protect sensitive content from unauthorized access.
When applied to emails, these labels can enforce encryption, watermarking,
and other protection measures.

## Common Labels
1. **Public** - Information freely available outside the organization
2. **General** - Non-sensitive internal information
3. **Confidential** - Sensitive information, limited distribution
4. **Highly Confidential** - Extremely sensitive information, strictly controlled

## Monitoring Label Changes
To monitor changes to sensitivity labels:
- Use the ` + "`get_sensitivity_label_changes`" + ` tool to get reports on label changes
- Investigate unexpected changes to ensure compliance
- Review audit logs regularly using the ` + "`get_audit_logs`" + ` tool

## Best Practices
- Regularly audit sensitivity label usage
- Ensure labels are applied consistently
- Train users on proper label application
- Monitor for potential misuse or data leakage
`
