package cache

import (
	"context"
	"testing"
)

func TestNoop_AlwaysMisses(t *testing.T) {
	var s Store = Noop{}

	list, ok := s.GetCategoryList(context.Background(), 7)
	if ok || list != nil {
		t.Fatalf("Noop must always miss, got %v/%v", list, ok)
	}

	// Writes and invalidations are silently discarded.
	s.SetCategoryList(context.Background(), 7, nil)
	s.InvalidateUser(context.Background(), 7)
}

func TestCategoryListKey_PerUser(t *testing.T) {
	if categoryListKey(7) == categoryListKey(8) {
		t.Fatalf("keys must be scoped per user")
	}
	if categoryListKey(7) != "linkhub:categories:7" {
		t.Fatalf("unexpected key: %q", categoryListKey(7))
	}
}
