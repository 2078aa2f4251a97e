package uuid

import (
	"sort"
	"testing"
	"time"
)

func TestNew_UniqueAndOrdered(t *testing.T) {
	ids := make([]string, 0, 500)
	seen := make(map[string]bool, 500)
	for i := 0; i < 500; i++ {
		id := New()
		if !IsValid(id) {
			t.Fatalf("generated invalid id %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if !sort.StringsAreSorted(ids) {
		t.Error("expected ids to sort in generation order")
	}
}

func TestTime(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, ok := Time(New())
	if !ok {
		t.Fatal("expected timestamp to be extracted")
	}
	if ts.Before(before) || ts.After(time.Now().Add(time.Second)) {
		t.Errorf("timestamp %s out of range", ts)
	}

	if _, ok := Time("not-a-uuid"); ok {
		t.Error("expected invalid id to be rejected")
	}
}
