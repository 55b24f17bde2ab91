package db

import (
	"context"
	"fmt"

	"github.com/dsjohal14/mukrindo/internal/scope/search"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectProducts = `
	SELECT id, car_name, brand, model, variant, type, transmission, fuel_type,
	       COALESCE(car_color, ''), COALESCE(plate_number, ''), COALESCE(drive_system, ''),
	       price, COALESCE(year_of_assembly, 0), COALESCE(travel_distance, 0), COALESCE(cc, 0),
	       COALESCE(status, ''), COALESCE(images, '{}'), view_count, created_at, updated_at
	FROM products
	ORDER BY created_at DESC
`

// PostgresSource reads the catalog from the products table
type PostgresSource struct {
	pool  *pgxpool.Pool
	owned bool
}

// NewPostgresSource connects to Postgres and verifies the connection
func NewPostgresSource(ctx context.Context, connString string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresSource{pool: pool, owned: true}, nil
}

// NewPostgresSourceFromPool reuses an existing pool; Close leaves it open
func NewPostgresSourceFromPool(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Load reads every product, newest first
func (s *PostgresSource) Load(ctx context.Context) ([]*search.Product, error) {
	rows, err := s.pool.Query(ctx, selectProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	return products, nil
}

func scanProduct(row pgx.CollectableRow) (*search.Product, error) {
	var p search.Product
	err := row.Scan(
		&p.ID, &p.CarName, &p.Brand, &p.Model, &p.Variant, &p.Type, &p.Transmission, &p.FuelType,
		&p.CarColor, &p.PlateNumber, &p.DriveSystem,
		&p.Price, &p.YearOfAssembly, &p.TravelDistance, &p.CC,
		&p.Status, &p.Images, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Close closes the pool if this source opened it
func (s *PostgresSource) Close() error {
	if s.owned {
		s.pool.Close()
	}
	return nil
}
