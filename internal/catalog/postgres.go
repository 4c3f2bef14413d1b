package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the production Store backed by a pgx connection pool.
//
// Insert is a single INSERT ... RETURNING statement: the row becomes
// visible atomically with its assigned id and created_at, and BIGSERIAL
// guarantees ids are unique, monotonically increasing, and never
// reused.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres store on an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the products table and its listing index if they
// do not exist. Called once at startup.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS products (
			id          BIGSERIAL PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price       DOUBLE PRECISION NOT NULL DEFAULT 0,
			image_ref   TEXT,
			contact     TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_products_created_at
			ON products (created_at DESC, id DESC);
	`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure products schema: %w", err)
	}
	return nil
}

// Insert persists p and returns the canonical record.
func (s *Postgres) Insert(ctx context.Context, p NewProduct) (Product, error) {
	const query = `
		INSERT INTO products (name, description, price, image_ref, contact)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	out := Product{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageRef:    p.ImageRef,
		Contact:     p.Contact,
	}

	err := s.pool.QueryRow(ctx, query,
		p.Name, p.Description, p.Price, p.ImageRef, p.Contact,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}

	return out, nil
}

// List returns all products, newest first.
func (s *Postgres) List(ctx context.Context) ([]Product, error) {
	const query = `
		SELECT id, name, description, price, image_ref, contact, created_at
		FROM products
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageRef, &p.Contact, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

// Get returns one product by ID, or ErrNotFound.
func (s *Postgres) Get(ctx context.Context, id int64) (Product, error) {
	const query = `
		SELECT id, name, description, price, image_ref, contact, created_at
		FROM products
		WHERE id = $1
	`

	var p Product
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageRef, &p.Contact, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}

	return p, nil
}
