// Package store persists the single OAuth2 token record. The auth layer
// depends on the TokenStore interface, never on concrete implementations,
// so tests can swap in an in-memory store.
//
// The persisted record is a single-writer, single-reader resource with no
// locking; two processes sharing one store race each other and are not
// supported.
package store

import (
	"context"

	domain "github.com/donaldgifford/ebay-lister/pkg/types"
)

// TokenStore defines persistence for the current OAuth2 credential.
type TokenStore interface {
	// Load returns the persisted record, or (nil, nil) when none exists.
	Load(ctx context.Context) (*domain.TokenRecord, error)

	// Save writes the record, replacing any previous one.
	Save(ctx context.Context, rec *domain.TokenRecord) error

	// Delete removes the persisted record. Deleting a store that holds no
	// record is not an error.
	Delete(ctx context.Context) error
}
