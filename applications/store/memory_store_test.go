package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "counters", "bookingCounter")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreSetMergeKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Set(ctx, "counters", "c", Document{"lastNumber": int64(4), "note": "keep"}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Set(ctx, "counters", "c", Document{"lastNumber": int64(5)}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := s.Get(ctx, "counters", "c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["lastNumber"] != int64(5) || doc["note"] != "keep" {
		t.Fatalf("expected merged document, got %v", doc)
	}

	if err := s.Set(ctx, "counters", "c", Document{"lastNumber": int64(6)}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, _ = s.Get(ctx, "counters", "c")
	if _, ok := doc["note"]; ok {
		t.Fatalf("expected replace to drop note, got %v", doc)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Set(ctx, "c", "a", Document{"x": 1}, false)

	doc, _ := s.Get(ctx, "c", "a")
	doc["x"] = 2

	again, _ := s.Get(ctx, "c", "a")
	if again["x"] != 1 {
		t.Fatalf("expected stored value to be untouched, got %v", again["x"])
	}
}

func TestMemoryStoreAddStampsCreatedAt(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStore().WithClock(func() time.Time { return fixed })

	id, err := s.Add(ctx, "bookings", Document{"contactName": "Asha", CreatedAtField: "client value"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}
	doc, _ := s.Get(ctx, "bookings", id)
	if got, ok := doc[CreatedAtField].(time.Time); !ok || !got.Equal(fixed) {
		t.Fatalf("expected createdAt %v, got %v", fixed, doc[CreatedAtField])
	}
}

func TestMemoryStoreQueryOrdersByCreatedAtDesc(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore().WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	for _, name := range []string{"first", "second", "third"} {
		if _, err := s.Add(ctx, "bookings", Document{"contactName": name}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	snaps, err := s.Query(ctx, "bookings", Query{OrderBy: CreatedAtField, Descending: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"third", "second", "first"}
	if len(snaps) != len(want) {
		t.Fatalf("expected %d snapshots, got %d", len(want), len(snaps))
	}
	for i, name := range want {
		if snaps[i].Data["contactName"] != name {
			t.Fatalf("position %d: expected %s, got %v", i, name, snaps[i].Data["contactName"])
		}
	}

	limited, _ := s.Query(ctx, "bookings", Query{OrderBy: CreatedAtField, Limit: 2})
	if len(limited) != 2 || limited[0].Data["contactName"] != "first" {
		t.Fatalf("expected ascending limited result, got %v", limited)
	}
}

func TestMemoryStoreQueryRejectsBadField(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Query(context.Background(), "bookings", Query{OrderBy: "a; DROP"})
	if !errors.Is(err, ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
}

func TestBuildSelectSQL(t *testing.T) {
	cases := []struct {
		q    Query
		want string
	}{
		{
			Query{OrderBy: CreatedAtField, Descending: true},
			"SELECT doc_id, data, created_at FROM documents WHERE collection = $1 ORDER BY created_at DESC",
		},
		{
			Query{OrderBy: "bookingNumber", Limit: 10},
			"SELECT doc_id, data, created_at FROM documents WHERE collection = $1 ORDER BY data->'bookingNumber' ASC, created_at ASC LIMIT 10",
		},
	}
	for _, tc := range cases {
		got, err := buildSelectSQL(tc.q)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
	if _, err := buildSelectSQL(Query{OrderBy: "x'y"}); !errors.Is(err, ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
}

func TestNormalizeValue(t *testing.T) {
	in := map[string]any{
		"n":    int32(3),
		"list": []any{map[string]any{"count": int32(2)}},
	}
	doc := normalizeDocument(in)
	if doc["n"] != int64(3) {
		t.Fatalf("expected int64 3, got %T %v", doc["n"], doc["n"])
	}
	list := doc["list"].([]any)
	if list[0].(map[string]any)["count"] != int64(2) {
		t.Fatalf("expected nested int64, got %v", list[0])
	}
}
