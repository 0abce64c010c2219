package kvstore

import (
	"context"
	"testing"
)

func TestMemory_ApplyIsAtomicPerBatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	ed := m.Edit().PutString("a", "1").PutBool("b", true)
	if got, _ := m.String(ctx, "a", "unset"); got != "unset" {
		t.Fatalf("String before Apply = %q, want unset", got)
	}
	if err := ed.Apply(ctx); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	snap := m.Snapshot()
	if snap["a"] != "1" || snap["b"] != true {
		t.Fatalf("Snapshot = %#v, want a=1 b=true", snap)
	}

	// A second Apply on the same editor writes nothing new.
	if err := ed.Apply(ctx); err != nil {
		t.Fatalf("second Apply returned error: %v", err)
	}
}
