package auth

import (
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datagovlab/purview-mcp/pkg/config"
)

func TestResolveServicePrincipal(t *testing.T) {
	cfg := &config.Config{
		TenantID:     "11111111-1111-1111-1111-111111111111",
		ClientID:     "22222222-2222-2222-2222-222222222222",
		ClientSecret: "hunter2",
	}

	cred, err := Resolve(cfg)
	require.NoError(t, err)
	assert.IsType(t, &azidentity.ClientSecretCredential{}, cred)
}

func TestResolveAmbientChain(t *testing.T) {
	cred, err := Resolve(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, &azidentity.DefaultAzureCredential{}, cred)
}

func TestResolvePartialTripleFallsBack(t *testing.T) {
	cfg := &config.Config{
		TenantID: "11111111-1111-1111-1111-111111111111",
		ClientID: "22222222-2222-2222-2222-222222222222",
		// no secret
	}

	cred, err := Resolve(cfg)
	require.NoError(t, err)
	assert.IsType(t, &azidentity.DefaultAzureCredential{}, cred,
		"a partial triple must not be treated as a service principal")
}

func TestResolveErrorOmitsSecret(t *testing.T) {
	cfg := &config.Config{
		TenantID:     "not/a/valid/tenant",
		ClientID:     "client-1",
		ClientSecret: "hunter2",
	}

	_, err := Resolve(cfg)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "hunter2", "credential errors must never carry the secret")
}
