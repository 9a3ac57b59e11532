package storage

import (
	"context"
	"testing"
)

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v; want not found", ok, err)
	}

	if err := kv.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("Get(k) = %q, %v, %v; want v2", v, ok, err)
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if kv.Len() != 0 {
		t.Errorf("Len() = %d, want 0", kv.Len())
	}
}

func TestNamespace(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryKV()
	a := Namespace(base, "chat:1:")
	b := Namespace(base, "chat:2:")

	if err := a.Set(ctx, "history", "[1]"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, ok, _ := b.Get(ctx, "history"); ok {
		t.Error("namespace b sees a's key")
	}
	if v, ok, _ := base.Get(ctx, "chat:1:history"); !ok || v != "[1]" {
		t.Errorf("base value = %q, %v; want prefixed key", v, ok)
	}

	if err := a.Delete(ctx, "history"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if base.Len() != 0 {
		t.Errorf("Len() = %d, want 0", base.Len())
	}
}
