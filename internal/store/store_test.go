package store

import "testing"

func TestReplaceAllIsFullReplacement(t *testing.T) {
	s := New[string]()

	if got := s.Current(); len(got) != 0 {
		t.Fatalf("Expected empty snapshot at startup, got %v", got)
	}

	sequences := [][]string{
		{"a", "b", "c"},
		{"x"},
		{},
		{"only", "last", "call", "counts"},
	}

	for _, seq := range sequences {
		s.ReplaceAll(seq)
		got := s.Current()
		if len(got) != len(seq) {
			t.Fatalf("Expected %d items after ReplaceAll, got %d", len(seq), len(got))
		}
		for i := range seq {
			if got[i] != seq[i] {
				t.Errorf("Item %d: expected %q, got %q", i, seq[i], got[i])
			}
		}
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	s := New[int]()
	s.ReplaceAll([]int{1, 2, 3})

	snap := s.Current()
	snap[0] = 99

	if got := s.Current(); got[0] != 1 {
		t.Errorf("Mutating a returned snapshot must not affect the store, got %v", got)
	}
}

func TestOnChangeNotifiesAfterSwap(t *testing.T) {
	s := New[int]()

	var seen []int
	sub := s.OnChange(func(items []int) {
		seen = items
		// The swap must already be visible inside the callback.
		if s.Len() != len(items) {
			t.Errorf("Callback observed stale store: len=%d items=%d", s.Len(), len(items))
		}
	})
	defer sub.Close()

	s.ReplaceAll([]int{4, 5})
	if len(seen) != 2 || seen[0] != 4 {
		t.Fatalf("Expected callback with [4 5], got %v", seen)
	}
}

func TestSubscriptionClose(t *testing.T) {
	s := New[int]()

	calls := 0
	sub := s.OnChange(func([]int) { calls++ })

	s.ReplaceAll([]int{1})
	sub.Close()
	sub.Close() // idempotent
	s.ReplaceAll([]int{2})

	if calls != 1 {
		t.Errorf("Expected 1 callback after Close, got %d", calls)
	}
}
