package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory Store used in tests and local development.
// It mirrors the Postgres semantics: serialized inserts, monotonically
// increasing ids, newest-first listing.
type Memory struct {
	mu       sync.RWMutex
	nextID   int64
	products []Product
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

// Insert persists p and returns the canonical record.
func (s *Memory) Insert(ctx context.Context, p NewProduct) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := Product{
		ID:          s.nextID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageRef:    p.ImageRef,
		Contact:     p.Contact,
		CreatedAt:   time.Now().UTC(),
	}
	s.nextID++
	s.products = append(s.products, out)

	return out, nil
}

// List returns all products, newest first.
func (s *Memory) List(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	return out, nil
}

// Get returns one product by ID, or ErrNotFound.
func (s *Memory) Get(ctx context.Context, id int64) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}
