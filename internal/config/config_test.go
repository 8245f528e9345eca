package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		content   string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal YAML config",
			file: "config.yaml",
			content: `
credentials:
  app_id: test-app
  cert_id: test-cert
  redirect_uri: Test-RuName
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "test-app", cfg.Credentials.AppID)
				assert.Equal(t, "test-cert", cfg.Credentials.CertID)
				assert.Equal(t, "Test-RuName", cfg.Credentials.RedirectURI)
			},
		},
		{
			name: "valid minimal JSON config",
			file: "config.json",
			content: `{
  "credentials": {"app_id": "test-app", "cert_id": "test-cert", "redirect_uri": "Test-RuName"}
}`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "test-app", cfg.Credentials.AppID)
				assert.Equal(t, "Test-RuName", cfg.Credentials.RedirectURI)
			},
		},
		{
			name: "defaults applied for optional fields",
			file: "config.yaml",
			content: `
credentials:
  app_id: test-app
  cert_id: test-cert
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "EBAY_US", cfg.Marketplace.ID)
				assert.Equal(t, "primary_warehouse", cfg.Marketplace.MerchantLocationKey)
				assert.Equal(t, "production", cfg.Endpoints.Environment)
				assert.Equal(t, "https://auth.ebay.com/oauth2/authorize", cfg.Endpoints.AuthURL)
				assert.Equal(t, "https://api.ebay.com/identity/v1/oauth2/token", cfg.Endpoints.TokenURL)
				assert.Equal(t, "https://api.ebay.com/sell", cfg.Endpoints.APIBaseURL)
				assert.Len(t, cfg.Endpoints.Scopes, 3)
				assert.Equal(t, "file", cfg.TokenStore.Backend)
				assert.Equal(t, "ebay_tokens.json", cfg.TokenStore.Path)
				assert.Equal(t, 5.0, cfg.RateLimit.PerSecond)
				assert.Equal(t, 10, cfg.RateLimit.Burst)
				assert.Equal(t, int64(5000), cfg.RateLimit.DailyLimit)
				assert.Equal(t, "USD", cfg.Listing.Currency)
				assert.Equal(t, "NEW", cfg.Listing.Condition)
				assert.Equal(t, "en-US", cfg.Listing.ContentLanguage)
				assert.Equal(t, "GTC", cfg.Listing.ListingDuration)
				assert.Equal(t, 5*time.Minute, cfg.Consent.Timeout)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "sandbox endpoint defaults",
			file: "config.yaml",
			content: `
credentials:
  app_id: test-app
  cert_id: test-cert
endpoints:
  environment: sandbox
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "https://auth.sandbox.ebay.com/oauth2/authorize", cfg.Endpoints.AuthURL)
				assert.Equal(t, "https://api.sandbox.ebay.com/identity/v1/oauth2/token", cfg.Endpoints.TokenURL)
				assert.Equal(t, "https://api.sandbox.ebay.com/sell", cfg.Endpoints.APIBaseURL)
			},
		},
		{
			name: "env var substitution",
			file: "config.yaml",
			content: `
credentials:
  app_id: test-app
  cert_id: "${TEST_EBAY_CERT_ID}"
`,
			envVars: map[string]string{
				"TEST_EBAY_CERT_ID": "secret-cert",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "secret-cert", cfg.Credentials.CertID)
			},
		},
		{
			name: "missing app_id rejected",
			file: "config.yaml",
			content: `
credentials:
  cert_id: test-cert
`,
			wantErr: "credentials.app_id is required",
		},
		{
			name: "unknown environment rejected",
			file: "config.yaml",
			content: `
credentials:
  app_id: test-app
  cert_id: test-cert
endpoints:
  environment: staging
`,
			wantErr: "endpoints.environment must be production or sandbox",
		},
		{
			name: "postgres backend requires dsn",
			file: "config.yaml",
			content: `
credentials:
  app_id: test-app
  cert_id: test-cert
token_store:
  backend: postgres
`,
			wantErr: "token_store.dsn is required",
		},
		{
			name: "discord enabled requires webhook url",
			file: "config.yaml",
			content: `
credentials:
  app_id: test-app
  cert_id: test-cert
notifications:
  discord:
    enabled: true
`,
			wantErr: "notifications.discord.webhook_url is required",
		},
		{
			name:    "malformed JSON rejected",
			file:    "config.json",
			content: `{"credentials": `,
			wantErr: "parsing config JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			path := writeConfig(t, tt.file, tt.content)
			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, WriteDefault(path))

	// The written file must load cleanly and keep its placeholders.
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, PlaceholderAppID, cfg.Credentials.AppID)
	assert.Equal(t, PlaceholderRedirectURI, cfg.Credentials.RedirectURI)

	// A second write must not clobber the edited file.
	require.Error(t, WriteDefault(path))
}

func TestIsPlaceholder(t *testing.T) {
	t.Parallel()

	assert.True(t, IsPlaceholder(""))
	assert.True(t, IsPlaceholder("YOUR_RUNAME"))
	assert.True(t, IsPlaceholder("YOUR_PAYMENT_POLICY_ID"))
	assert.False(t, IsPlaceholder("Real-RuName-1"))
}

func TestValidatePolicies(t *testing.T) {
	t.Parallel()

	m := MarketplaceConfig{
		ID:                  "EBAY_US",
		PaymentPolicyID:     "YOUR_PAYMENT_POLICY_ID",
		FulfillmentPolicyID: "6054000000",
		ReturnPolicyID:      "",
		MerchantLocationKey: "primary_warehouse",
	}

	missing := m.ValidatePolicies()
	assert.Equal(t, []string{"payment_policy_id", "return_policy_id"}, missing)

	m.PaymentPolicyID = "6052000000"
	m.ReturnPolicyID = "6053000000"
	assert.Empty(t, m.ValidatePolicies())
}
