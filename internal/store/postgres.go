package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/ebay-lister/pkg/types"
)

// PostgresStore persists the token record in a single-row table. Useful when
// the lister runs somewhere without a stable filesystem (containers, CI).
//
// The table offers no advisory locking; like the file store it assumes a
// single writer.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to Postgres and ensures the token table exists.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	// Single-row table: id is fixed to 1 and every save upserts that row.
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS oauth_token (
			id                       SMALLINT PRIMARY KEY CHECK (id = 1),
			access_token             TEXT NOT NULL,
			refresh_token            TEXT NOT NULL DEFAULT '',
			expires_in               BIGINT NOT NULL,
			refresh_token_expires_in BIGINT NOT NULL DEFAULT 0,
			token_type               TEXT NOT NULL DEFAULT '',
			obtained_at              BIGINT NOT NULL,
			updated_at               TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating oauth_token table: %w", err)
	}
	return nil
}

// Load returns the stored record, or (nil, nil) when the table is empty.
func (s *PostgresStore) Load(ctx context.Context) (*domain.TokenRecord, error) {
	rec := &domain.TokenRecord{}
	err := s.pool.QueryRow(ctx, `
		SELECT access_token, refresh_token, expires_in,
		       refresh_token_expires_in, token_type, obtained_at
		FROM oauth_token WHERE id = 1
	`).Scan(
		&rec.AccessToken, &rec.RefreshToken, &rec.ExpiresIn,
		&rec.RefreshTokenExpiresIn, &rec.TokenType, &rec.ObtainedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading token record: %w", err)
	}
	return rec, nil
}

// Save upserts the single token row.
func (s *PostgresStore) Save(ctx context.Context, rec *domain.TokenRecord) error {
	if rec == nil {
		return fmt.Errorf("saving token: record is nil")
	}

	args := pgx.NamedArgs{
		"access_token":             rec.AccessToken,
		"refresh_token":            rec.RefreshToken,
		"expires_in":               rec.ExpiresIn,
		"refresh_token_expires_in": rec.RefreshTokenExpiresIn,
		"token_type":               rec.TokenType,
		"obtained_at":              rec.ObtainedAt,
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO oauth_token (
			id, access_token, refresh_token, expires_in,
			refresh_token_expires_in, token_type, obtained_at
		) VALUES (
			1, @access_token, @refresh_token, @expires_in,
			@refresh_token_expires_in, @token_type, @obtained_at
		)
		ON CONFLICT (id) DO UPDATE SET
			access_token             = EXCLUDED.access_token,
			refresh_token            = EXCLUDED.refresh_token,
			expires_in               = EXCLUDED.expires_in,
			refresh_token_expires_in = EXCLUDED.refresh_token_expires_in,
			token_type               = EXCLUDED.token_type,
			obtained_at              = EXCLUDED.obtained_at,
			updated_at               = now()
	`, args)
	if err != nil {
		return fmt.Errorf("saving token record: %w", err)
	}
	return nil
}

// Delete removes the token row if present.
func (s *PostgresStore) Delete(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM oauth_token WHERE id = 1`); err != nil {
		return fmt.Errorf("deleting token record: %w", err)
	}
	return nil
}
