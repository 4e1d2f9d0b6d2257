package store

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryStoreSaveAssignsNumbers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	v1, err := s.Save(ctx, "shop", "<doc v1>")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	v2, err := s.Save(ctx, "shop", "<doc v2>")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if v1.Number != 1 || v2.Number != 2 {
		t.Errorf("numbers = %d, %d, want 1, 2", v1.Number, v2.Number)
	}
	if v1.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	// Projects number independently.
	other, err := s.Save(ctx, "blog", "<doc>")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if other.Number != 1 {
		t.Errorf("blog number = %d, want 1", other.Number)
	}
}

func TestMemoryStoreGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Save(ctx, "shop", "<doc v1>")
	s.Save(ctx, "shop", "<doc v2>")

	v, err := s.Get(ctx, "shop", 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.Document != "<doc v1>" {
		t.Errorf("Document = %q, want %q", v.Document, "<doc v1>")
	}

	if _, err := s.Get(ctx, "shop", 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(3) = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, "shop", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(0) = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, "nope", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown project) = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreLatest(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Latest(ctx, "shop"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest(empty) = %v, want ErrNotFound", err)
	}

	s.Save(ctx, "shop", "<doc v1>")
	s.Save(ctx, "shop", "<doc v2>")

	v, err := s.Latest(ctx, "shop")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if v.Number != 2 || v.Document != "<doc v2>" {
		t.Errorf("Latest = %+v, want version 2", v)
	}
}

func TestMemoryStoreListOmitsDocuments(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Save(ctx, "shop", "<doc v1>")
	s.Save(ctx, "shop", "<doc v2>")

	vs, err := s.List(ctx, "shop")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(vs) != 2 {
		t.Fatalf("List len = %d, want 2", len(vs))
	}
	for i, v := range vs {
		if v.Number != int64(i)+1 {
			t.Errorf("List[%d].Number = %d, want %d", i, v.Number, i+1)
		}
		if v.Document != "" {
			t.Errorf("List[%d] carries document body", i)
		}
	}

	// Listing must not strip the stored document.
	v, _ := s.Get(ctx, "shop", 1)
	if v.Document != "<doc v1>" {
		t.Error("List mutated stored version")
	}
}

func TestMemoryStoreConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	const n = 50
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Save(ctx, "shop", "<doc>"); err != nil {
				t.Errorf("Save: %v", err)
			}
		}()
	}
	wg.Wait()

	vs, _ := s.List(ctx, "shop")
	if len(vs) != n {
		t.Fatalf("List len = %d, want %d", len(vs), n)
	}
	seen := map[int64]bool{}
	for _, v := range vs {
		if seen[v.Number] {
			t.Fatalf("duplicate version number %d", v.Number)
		}
		seen[v.Number] = true
	}
}
