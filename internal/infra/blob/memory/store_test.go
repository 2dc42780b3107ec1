package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"crmcore/internal/infra/blob"
)

func TestStore_MissingHeadGet(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Head(ctx, "missing"); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected not found on head, got %v", err)
	}
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected not found on get, got %v", err)
	}
}

func TestStore_PutOverwritesAndLists(t *testing.T) {
	store := New()
	ctx := context.Background()
	if ok, err := store.Delete(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected delete false")
	}
	if _, err := store.Put(ctx, "crm/state.json", bytes.NewReader([]byte("v1")), blob.PutOptions{Metadata: map[string]string{"a": "1"}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	info, err := store.Put(ctx, "crm/state.json", bytes.NewReader([]byte("v22")), blob.PutOptions{ContentType: "application/json"})
	if err != nil || info.Size != 3 {
		t.Fatalf("overwrite: %v %+v", err, info)
	}
	_, rc, err := store.Get(ctx, "crm/state.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "v22" {
		t.Fatalf("expected latest content, got %q", body)
	}
	if list, err := store.List(ctx, "crm/"); err != nil || len(list) != 1 {
		t.Fatalf("list prefix: %v %d", err, len(list))
	}
	if list, err := store.List(ctx, "other/"); err != nil || len(list) != 0 {
		t.Fatalf("list other prefix: %v %d", err, len(list))
	}
	if ok, err := store.Delete(ctx, "crm/state.json"); err != nil || !ok {
		t.Fatalf("expected delete true")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, fmt.Errorf("fail") }

func TestStore_PutReadErrorAndDriver(t *testing.T) {
	store := New()
	if store.Driver() != blob.DriverMemory {
		t.Fatalf("expected memory driver")
	}
	if _, err := store.Put(context.Background(), "bad", failingReader{}, blob.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
	if _, err := store.Put(context.Background(), " ", bytes.NewReader(nil), blob.PutOptions{}); err == nil {
		t.Fatalf("expected empty key error")
	}
}
