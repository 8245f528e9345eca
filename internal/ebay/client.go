// Package ebay implements the OAuth2 token lifecycle and the Sell API
// listing pipeline, abstracted behind interfaces for testability.
package ebay

import (
	"context"
)

// TokenSource supplies a valid bearer token for authenticated API calls.
// Implementations handle expiry detection and refresh transparently.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// ConsentProvider obtains an OAuth2 authorization code given the
// authorization URL the user must visit. Implementations range from a
// pre-supplied code (headless runs, tests) to a local callback listener.
type ConsentProvider interface {
	AuthorizationCode(ctx context.Context, authURL string) (string, error)
}
