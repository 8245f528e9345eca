package ebay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/ebay-lister/pkg/types"
)

// memStore is an in-memory TokenStore for tests.
type memStore struct {
	rec     *domain.TokenRecord
	loadErr error
	saveErr error
	saves   int
}

func (s *memStore) Load(_ context.Context) (*domain.TokenRecord, error) {
	return s.rec, s.loadErr
}

func (s *memStore) Save(_ context.Context, rec *domain.TokenRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.rec = rec
	return nil
}

func (s *memStore) Delete(_ context.Context) error {
	s.rec = nil
	return nil
}

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func usableRecord() *domain.TokenRecord {
	return &domain.TokenRecord{
		AccessToken:  "v^1.1#access",
		RefreshToken: "v^1.1#refresh",
		ExpiresIn:    7200,
		ObtainedAt:   testNow.Add(-time.Minute).Unix(),
	}
}

func expiredRecord() *domain.TokenRecord {
	rec := usableRecord()
	rec.ObtainedAt = testNow.Add(-3 * time.Hour).Unix()
	return rec
}

func newTestManager(st *memStore, opts ...TokenManagerOption) *TokenManager {
	base := []TokenManagerOption{WithAuthNowFunc(fixedNow)}
	return NewTokenManager(
		"app-id", "cert-id", "https://example.com/callback",
		[]string{"scope-a", "scope-b"},
		st,
		append(base, opts...)...,
	)
}

func TestAuthorizationURL(t *testing.T) {
	m := newTestManager(&memStore{})

	raw, err := m.AuthorizationURL()
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "app-id", q.Get("client_id"))
	assert.Equal(t, "https://example.com/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "scope-a scope-b", q.Get("scope"))
	assert.NotEmpty(t, q.Get("state"))
}

func TestAuthorizationURLStateChanges(t *testing.T) {
	m := newTestManager(&memStore{})

	first, err := m.AuthorizationURL()
	require.NoError(t, err)
	second, err := m.AuthorizationURL()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPlaceholderRedirectURI(t *testing.T) {
	st := &memStore{rec: usableRecord()}
	m := NewTokenManager(
		"app-id", "cert-id", "YOUR_RUNAME_HERE",
		nil, st,
		WithAuthNowFunc(fixedNow),
	)

	_, err := m.AccessToken(context.Background())
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "redirect_uri", cfgErr.Field)

	_, err = m.AuthorizationURL()
	assert.ErrorAs(t, err, &cfgErr)
}

func TestAccessTokenFromStore(t *testing.T) {
	st := &memStore{rec: usableRecord()}
	m := newTestManager(st)

	tok, err := m.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v^1.1#access", tok)
	// record is cached so the next call skips the store
	st.loadErr = errors.New("store gone")
	tok, err = m.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v^1.1#access", tok)
}

func TestAccessTokenNoTokenNoConsent(t *testing.T) {
	m := newTestManager(&memStore{})

	_, err := m.AccessToken(context.Background())
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestAccessTokenExpiredNoRefreshToken(t *testing.T) {
	rec := expiredRecord()
	rec.RefreshToken = ""
	m := newTestManager(&memStore{rec: rec})

	_, err := m.AccessToken(context.Background())
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestAccessTokenRefresh(t *testing.T) {
	var calls int
	var gotForm url.Values
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "refreshed-access",
			"expires_in":    7200,
			"refresh_token": "rotated-refresh",
		})
	}))
	defer srv.Close()

	st := &memStore{rec: expiredRecord()}
	m := newTestManager(st, WithTokenURL(srv.URL))

	tok, err := m.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed-access", tok)
	assert.Equal(t, 1, calls)

	assert.Equal(t, "refresh_token", gotForm.Get("grant_type"))
	assert.Equal(t, "v^1.1#refresh", gotForm.Get("refresh_token"))
	assert.Equal(t, "scope-a scope-b", gotForm.Get("scope"))

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("app-id:cert-id"))
	assert.Equal(t, wantAuth, gotAuth)

	// rotated pair persisted
	require.NotNil(t, st.rec)
	assert.Equal(t, "refreshed-access", st.rec.AccessToken)
	assert.Equal(t, "rotated-refresh", st.rec.RefreshToken)
	assert.Equal(t, testNow.Unix(), st.rec.ObtainedAt)
}

func TestRefreshKeepsOldRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "refreshed-access",
			"expires_in":   7200,
		})
	}))
	defer srv.Close()

	st := &memStore{rec: expiredRecord()}
	m := newTestManager(st, WithTokenURL(srv.URL))

	_, err := m.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v^1.1#refresh", st.rec.RefreshToken)
}

func TestRefreshRejectedNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "refresh token revoked",
		})
	}))
	defer srv.Close()

	st := &memStore{rec: expiredRecord()}
	m := newTestManager(st, WithTokenURL(srv.URL))

	_, err := m.AccessToken(context.Background())
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.Contains(t, err.Error(), "invalid_grant")
	assert.Equal(t, 1, calls)
}

func TestLoginExchangesCode(t *testing.T) {
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":             "fresh-access",
			"refresh_token":            "fresh-refresh",
			"expires_in":               7200,
			"refresh_token_expires_in": 47304000,
			"token_type":               "User Access Token",
		})
	}))
	defer srv.Close()

	st := &memStore{}
	m := newTestManager(st,
		WithTokenURL(srv.URL),
		WithConsent(StaticConsent{Code: "the-code"}),
	)

	rec, err := m.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", rec.AccessToken)
	assert.Equal(t, "fresh-refresh", rec.RefreshToken)
	assert.Equal(t, int64(47304000), rec.RefreshTokenExpiresIn)

	assert.Equal(t, "authorization_code", gotForm.Get("grant_type"))
	assert.Equal(t, "the-code", gotForm.Get("code"))
	assert.Equal(t, "https://example.com/callback", gotForm.Get("redirect_uri"))

	require.NotNil(t, st.rec)
	assert.Equal(t, "fresh-access", st.rec.AccessToken)
}

func TestAccessTokenTriggersLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "fresh-access",
			"expires_in":   7200,
		})
	}))
	defer srv.Close()

	m := newTestManager(&memStore{},
		WithTokenURL(srv.URL),
		WithConsent(StaticConsent{Code: "the-code"}),
	)

	tok, err := m.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", tok)
}

func TestExchangeCodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "remote rejection with error body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_request","error_description":"bad code"}`))
			},
			check: func(t *testing.T, err error) {
				var authErr *AuthExchangeError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, http.StatusBadRequest, authErr.Status)
				assert.Contains(t, authErr.Message, "invalid_request")
				assert.Contains(t, authErr.Message, "bad code")
			},
		},
		{
			name: "malformed response body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
			check: func(t *testing.T, err error) {
				var authErr *AuthExchangeError
				require.ErrorAs(t, err, &authErr)
				assert.Contains(t, authErr.Message, "malformed")
			},
		},
		{
			name: "missing access_token",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"expires_in":7200}`))
			},
			check: func(t *testing.T, err error) {
				var authErr *AuthExchangeError
				require.ErrorAs(t, err, &authErr)
				assert.Contains(t, authErr.Message, "no access_token")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			m := newTestManager(&memStore{}, WithTokenURL(srv.URL))
			_, err := m.ExchangeCode(context.Background(), "the-code")
			tt.check(t, err)
		})
	}
}

func TestExchangeCodeNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused

	m := newTestManager(&memStore{}, WithTokenURL(srv.URL))
	_, err := m.ExchangeCode(context.Background(), "the-code")

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestSaveFailureIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "fresh-access",
			"expires_in":   7200,
		})
	}))
	defer srv.Close()

	st := &memStore{saveErr: errors.New("disk full")}
	m := newTestManager(st,
		WithTokenURL(srv.URL),
		WithConsent(StaticConsent{Code: "the-code"}),
	)

	rec, err := m.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", rec.AccessToken)
}

func TestLogout(t *testing.T) {
	st := &memStore{rec: usableRecord()}
	m := newTestManager(st)

	require.NoError(t, m.Logout(context.Background()))
	assert.Nil(t, st.rec)

	rec, err := m.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}
