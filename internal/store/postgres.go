package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/lodging-intake-service/internal/postal"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is a postal.Gazetteer backed by Postgres. It lets operators
// extend the reference tables beyond the built-in ones without a release.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ postal.Gazetteer = (*PostgresStore)(nil)

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schemaSQL)
	return err
}

// SeedBuiltin inserts the built-in reference tables. Existing rows win, so
// operator edits survive restarts.
func (p *PostgresStore) SeedBuiltin(ctx context.Context) error {
	batch := &pgx.Batch{}

	for code, city := range postal.CodeTable() {
		batch.Queue(`
			INSERT INTO postal_codes(code, city)
			VALUES ($1, $2)
			ON CONFLICT (code) DO NOTHING
		`, code, city)
	}
	for cityKey, codes := range postal.CityCodeTable() {
		for i, code := range codes {
			batch.Queue(`
				INSERT INTO city_postal_codes(city_key, code, position)
				VALUES ($1, $2, $3)
				ON CONFLICT (city_key, code) DO NOTHING
			`, cityKey, code, i)
		}
	}

	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seeding reference tables: %w", err)
	}
	return nil
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// LookupCode returns the city of a postal code; found=false for unknown codes.
func (p *PostgresStore) LookupCode(ctx context.Context, code string) (postal.Place, bool, error) {
	place := postal.Place{Code: code}
	err := p.pool.QueryRow(ctx, `
		SELECT city, state
		FROM postal_codes
		WHERE code=$1
	`, code).Scan(&place.City, &place.State)

	if errors.Is(err, pgx.ErrNoRows) {
		return postal.Place{}, false, nil
	}
	if err != nil {
		return postal.Place{}, false, err
	}
	return place, true, nil
}

// CodesForCity returns the codes registered for a normalized city key in
// their configured order.
func (p *PostgresStore) CodesForCity(ctx context.Context, cityKey string) ([]string, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT code
		FROM city_postal_codes
		WHERE city_key=$1
		ORDER BY position, code
	`, cityKey)
	if err != nil {
		return nil, err
	}

	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, nil
	}
	return codes, nil
}
