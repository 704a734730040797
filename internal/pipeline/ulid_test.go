package pipeline

import "testing"

func TestEncodeULID(t *testing.T) {
	var zero, ones [16]byte
	for i := range ones {
		ones[i] = 0xFF
	}
	if got := encodeULID(zero); got != "00000000000000000000000000" {
		t.Errorf("expected all zeros, got %q", got)
	}
	if got := encodeULID(ones); got != "7ZZZZZZZZZZZZZZZZZZZZZZZZZ" {
		t.Errorf("expected max ULID, got %q", got)
	}
}

func TestNewJobID_UniqueAndOrdered(t *testing.T) {
	seen := make(map[string]bool)
	prev := ""
	for range 200 {
		id := newJobID()
		if len(id) != 26 {
			t.Fatalf("expected 26 characters, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		if id <= prev {
			t.Fatalf("expected %q to sort after %q", id, prev)
		}
		seen[id] = true
		prev = id
	}
}
