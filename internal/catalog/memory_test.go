package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestMemory_Insert_AssignsMonotonicIDs(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	var lastID int64
	for i := 0; i < 5; i++ {
		p, err := s.Insert(ctx, NewProduct{Name: "Rice 25kg", Contact: "2347012345678"})
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if p.ID <= lastID {
			t.Errorf("ID = %d, want > %d", p.ID, lastID)
		}
		if p.CreatedAt.IsZero() {
			t.Error("CreatedAt not stamped")
		}
		lastID = p.ID
	}
}

func TestMemory_List_NewestFirst(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	names := []string{"first", "second", "third"}
	for _, name := range names {
		if _, err := s.Insert(ctx, NewProduct{Name: name, Contact: "c"}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	products, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("List() returned %d products, want 3", len(products))
	}

	// Newest first: ids strictly descending.
	for i := 1; i < len(products); i++ {
		if products[i].ID >= products[i-1].ID {
			t.Errorf("List() not newest-first: id %d before id %d", products[i-1].ID, products[i].ID)
		}
	}
	if products[0].Name != "third" {
		t.Errorf("List()[0].Name = %q, want %q", products[0].Name, "third")
	}
}

func TestMemory_Get(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	inserted, err := s.Insert(ctx, NewProduct{Name: "Beans", Contact: "c"})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := s.Get(ctx, inserted.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Beans" {
		t.Errorf("Get().Name = %q, want %q", got.Name, "Beans")
	}

	if _, err := s.Get(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(9999) error = %v, want ErrNotFound", err)
	}
}

func TestMemory_Insert_ConcurrentIDsUnique(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	const n = 50
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		go func() {
			p, err := s.Insert(ctx, NewProduct{Name: "x", Contact: "c"})
			if err != nil {
				t.Errorf("Insert() error = %v", err)
				ids <- 0
				return
			}
			ids <- p.ID
		}()
	}

	seen := make(map[int64]bool, n)
	for i := 0; i < n; i++ {
		id := <-ids
		if seen[id] {
			t.Errorf("duplicate id %d assigned", id)
		}
		seen[id] = true
	}
}
