package ebay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/donaldgifford/ebay-lister/internal/config"
	"github.com/donaldgifford/ebay-lister/internal/metrics"
	"github.com/donaldgifford/ebay-lister/internal/store"
	"github.com/donaldgifford/ebay-lister/pkg/logger"
	domain "github.com/donaldgifford/ebay-lister/pkg/types"
)

const (
	defaultAuthURL  = "https://auth.ebay.com/oauth2/authorize"
	defaultTokenURL = "https://api.ebay.com/identity/v1/oauth2/token" //nolint:gosec // not a credential

	grantAuthorizationCode = "authorization_code"
	grantRefreshToken      = "refresh_token"
)

// TokenManager owns the OAuth2 user-token lifecycle: interactive
// acquisition, persistence, expiry detection, and refresh. It implements
// TokenSource for the gateway.
//
// The flow is the authorization-code grant: the seller consents in a
// browser, the resulting code is exchanged for an access/refresh token pair,
// and the pair is persisted as the single current credential.
type TokenManager struct {
	appID       string
	certID      string
	redirectURI string
	scopes      []string
	authURL     string
	tokenURL    string

	store   store.TokenStore
	consent ConsentProvider
	client  *http.Client
	log     *slog.Logger
	nowFunc func() time.Time

	cached *domain.TokenRecord
}

// TokenManagerOption configures the TokenManager.
type TokenManagerOption func(*TokenManager)

// WithAuthURL overrides the default authorize endpoint.
func WithAuthURL(u string) TokenManagerOption {
	return func(m *TokenManager) {
		m.authURL = u
	}
}

// WithTokenURL overrides the default token endpoint.
func WithTokenURL(u string) TokenManagerOption {
	return func(m *TokenManager) {
		m.tokenURL = u
	}
}

// WithConsent sets the provider used for interactive acquisition. Without
// one, a missing credential surfaces ErrAuthRequired instead of prompting.
func WithConsent(c ConsentProvider) TokenManagerOption {
	return func(m *TokenManager) {
		m.consent = c
	}
}

// WithAuthHTTPClient overrides the default HTTP client.
func WithAuthHTTPClient(c *http.Client) TokenManagerOption {
	return func(m *TokenManager) {
		m.client = c
	}
}

// WithAuthLogger sets the logger.
func WithAuthLogger(l *slog.Logger) TokenManagerOption {
	return func(m *TokenManager) {
		m.log = l
	}
}

// WithAuthNowFunc overrides the time function for testing.
func WithAuthNowFunc(f func() time.Time) TokenManagerOption {
	return func(m *TokenManager) {
		m.nowFunc = f
	}
}

// NewTokenManager creates a TokenManager for the given keyset and registered
// redirect URI (RuName), persisting through st.
func NewTokenManager(
	appID, certID, redirectURI string,
	scopes []string,
	st store.TokenStore,
	opts ...TokenManagerOption,
) *TokenManager {
	m := &TokenManager{
		appID:       appID,
		certID:      certID,
		redirectURI: redirectURI,
		scopes:      scopes,
		authURL:     defaultAuthURL,
		tokenURL:    defaultTokenURL,
		store:       st,
		client:      &http.Client{Timeout: 30 * time.Second},
		log:         logger.Discard(),
		nowFunc:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AuthorizationURL builds the consent URL the seller must visit. The state
// parameter is a fresh UUID.
func (m *TokenManager) AuthorizationURL() (string, error) {
	if err := m.checkRedirectURI(); err != nil {
		return "", err
	}

	params := url.Values{
		"client_id":     {m.appID},
		"redirect_uri":  {m.redirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(m.scopes, " ")},
		"state":         {uuid.NewString()},
	}
	return m.authURL + "?" + params.Encode(), nil
}

// AccessToken returns a usable access token, walking the lifecycle:
// load persisted record, interactive acquisition when absent, refresh when
// expired. A rejected refresh is not retried; it surfaces ErrAuthRequired.
func (m *TokenManager) AccessToken(ctx context.Context) (string, error) {
	if err := m.checkRedirectURI(); err != nil {
		return "", err
	}

	rec := m.cached
	if rec == nil {
		loaded, err := m.store.Load(ctx)
		if err != nil {
			return "", fmt.Errorf("loading persisted token: %w", err)
		}
		rec = loaded
	}

	if rec == nil {
		m.log.Info("no persisted token, starting interactive authorization")
		acquired, err := m.Login(ctx)
		if err != nil {
			return "", err
		}
		return acquired.AccessToken, nil
	}

	if rec.Usable(m.nowFunc()) {
		m.cached = rec
		return rec.AccessToken, nil
	}

	m.log.Info("access token expired, attempting refresh")

	if rec.RefreshToken == "" {
		return "", fmt.Errorf("no refresh token available: %w", ErrAuthRequired)
	}

	refreshed, err := m.Refresh(ctx, rec.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh rejected (%v): %w", err, ErrAuthRequired)
	}
	return refreshed.AccessToken, nil
}

// Login runs the interactive acquisition path: obtain an authorization code
// through the consent provider, exchange it, and persist the result.
func (m *TokenManager) Login(ctx context.Context) (*domain.TokenRecord, error) {
	if err := m.checkRedirectURI(); err != nil {
		return nil, err
	}
	if m.consent == nil {
		return nil, ErrAuthRequired
	}

	authURL, err := m.AuthorizationURL()
	if err != nil {
		return nil, err
	}

	code, err := m.consent.AuthorizationCode(ctx, authURL)
	if err != nil {
		return nil, fmt.Errorf("obtaining authorization code: %w", err)
	}

	rec, err := m.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	m.persist(ctx, rec)
	return rec, nil
}

// ExchangeCode performs the authorization_code grant. Single call, no retry.
func (m *TokenManager) ExchangeCode(ctx context.Context, code string) (*domain.TokenRecord, error) {
	metrics.TokenExchangesTotal.Inc()

	form := url.Values{
		"grant_type":   {grantAuthorizationCode},
		"code":         {code},
		"redirect_uri": {m.redirectURI},
	}

	rec, err := m.tokenCall(ctx, grantAuthorizationCode, form)
	if err != nil {
		return nil, err
	}

	m.log.Info("authorization code exchanged",
		"expires_in", rec.ExpiresIn,
		"has_refresh_token", rec.RefreshToken != "")
	return rec, nil
}

// Refresh performs the refresh_token grant and persists the result. A newly
// rotated refresh token is saved; when the endpoint omits one, the previous
// refresh token is kept.
func (m *TokenManager) Refresh(ctx context.Context, refreshToken string) (*domain.TokenRecord, error) {
	metrics.TokenRefreshesTotal.Inc()

	form := url.Values{
		"grant_type":    {grantRefreshToken},
		"refresh_token": {refreshToken},
		"scope":         {strings.Join(m.scopes, " ")},
	}

	rec, err := m.tokenCall(ctx, grantRefreshToken, form)
	if err != nil {
		metrics.TokenRefreshFailuresTotal.Inc()
		return nil, err
	}

	if rec.RefreshToken == "" {
		rec.RefreshToken = refreshToken
	}

	m.log.Info("access token refreshed", "expires_in", rec.ExpiresIn)
	m.persist(ctx, rec)
	return rec, nil
}

// Current returns the persisted record without triggering acquisition or
// refresh, for status display.
func (m *TokenManager) Current(ctx context.Context) (*domain.TokenRecord, error) {
	if m.cached != nil {
		return m.cached, nil
	}
	return m.store.Load(ctx)
}

// Logout discards the persisted credential.
func (m *TokenManager) Logout(ctx context.Context) error {
	m.cached = nil
	return m.store.Delete(ctx)
}

func (m *TokenManager) checkRedirectURI() error {
	if config.IsPlaceholder(m.redirectURI) {
		return &ConfigError{
			Field:  "redirect_uri",
			Reason: "is not set to a registered RuName; the OAuth2 callback would not reach this application",
		}
	}
	return nil
}

// persist caches and saves the record. Persistence failures are logged, not
// fatal: the in-memory token still serves this invocation.
func (m *TokenManager) persist(ctx context.Context, rec *domain.TokenRecord) {
	m.cached = rec
	if err := m.store.Save(ctx, rec); err != nil {
		m.log.Warn("failed to persist token record", "error", err)
	}
}

type tokenResponse struct {
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	ExpiresIn             int64  `json:"expires_in"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
	TokenType             string `json:"token_type"`
}

type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// tokenCall performs one POST to the token endpoint with client-credential
// basic auth. Non-2xx and malformed JSON both produce AuthExchangeError;
// transport failures propagate as NetworkError.
func (m *TokenManager) tokenCall(
	ctx context.Context,
	grantType string,
	form url.Values,
) (*domain.TokenRecord, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		m.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+m.basicAuth())

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(body)
		var errResp tokenErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
			if errResp.ErrorDescription != "" {
				msg += ": " + errResp.ErrorDescription
			}
		}
		return nil, &AuthExchangeError{
			GrantType: grantType,
			Status:    resp.StatusCode,
			Message:   msg,
		}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &AuthExchangeError{
			GrantType: grantType,
			Message:   fmt.Sprintf("malformed token response: %v", err),
		}
	}
	if tr.AccessToken == "" {
		return nil, &AuthExchangeError{
			GrantType: grantType,
			Message:   "token response contains no access_token",
		}
	}

	return &domain.TokenRecord{
		AccessToken:           tr.AccessToken,
		RefreshToken:          tr.RefreshToken,
		ExpiresIn:             tr.ExpiresIn,
		RefreshTokenExpiresIn: tr.RefreshTokenExpiresIn,
		TokenType:             tr.TokenType,
		ObtainedAt:            m.nowFunc().Unix(),
	}, nil
}

func (m *TokenManager) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(m.appID + ":" + m.certID))
}
