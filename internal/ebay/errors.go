package ebay

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAuthRequired signals that no usable credential exists and an interactive
// authorization (auth login) is needed. Refresh is never retried within one
// call; a rejected refresh surfaces this error.
var ErrAuthRequired = errors.New("authentication required, run 'auth login'")

// ConfigError reports a missing or placeholder configuration value detected
// before any network call.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Field, e.Reason)
}

// AuthExchangeError reports a token endpoint rejection (non-2xx or malformed
// JSON) for either grant type. Terminal for the attempt; not retried.
type AuthExchangeError struct {
	GrantType string
	Status    int
	Message   string
}

func (e *AuthExchangeError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s exchange failed (status %d): %s", e.GrantType, e.Status, e.Message)
	}
	return fmt.Sprintf("%s exchange failed: %s", e.GrantType, e.Message)
}

// ValidationError reports required offer fields that are absent. Raised
// before any HTTP call is issued.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required offer fields: " + strings.Join(e.Missing, ", ")
}

// NetworkError wraps a transport failure (timeout, DNS, connection reset).
// Terminal per call; not retried.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RemoteError reports a non-2xx HTTP response. Message carries the remote
// error payload's message field when parseable, else the raw body text.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// ParseError reports a malformed response body on an otherwise successful
// response.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing response body: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Category maps an error to its taxonomy label, used for metrics and logs.
func Category(err error) string {
	var (
		configErr     *ConfigError
		exchangeErr   *AuthExchangeError
		validationErr *ValidationError
		networkErr    *NetworkError
		remoteErr     *RemoteError
		parseErr      *ParseError
	)

	switch {
	case err == nil:
		return "none"
	case errors.As(err, &configErr):
		return "config"
	case errors.Is(err, ErrAuthRequired), errors.As(err, &exchangeErr):
		return "auth"
	case errors.As(err, &validationErr):
		return "validation"
	case errors.Is(err, ErrDailyLimitReached):
		return "ratelimit"
	case errors.As(err, &networkErr):
		return "network"
	case errors.As(err, &remoteErr):
		return "remote"
	case errors.As(err, &parseErr):
		return "parse"
	default:
		return "internal"
	}
}
