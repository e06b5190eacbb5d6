package offline_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pizzahunt/internal/offline"
	"pizzahunt/internal/sqlitedb"
	"pizzahunt/internal/testsupport"
)

func TestOpenStoreRecordsVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenOfflineStore(t, cfg)

	version, err := store.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != offline.StoreVersion {
		t.Fatalf("expected version %d, got %d", offline.StoreVersion, version)
	}
	if store.Path() != cfg.Offline.StorePath {
		t.Fatalf("unexpected path %q", store.Path())
	}
}

func TestStoreAddKeepsKeyOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenOfflineStore(t, cfg)
	ctx := context.Background()

	first, err := store.Add(ctx, json.RawMessage(`{ "pizzaName": "A" }`))
	if err != nil {
		t.Fatalf("Add A: %v", err)
	}
	second, err := store.Add(ctx, json.RawMessage(`{"pizzaName":"B"}`))
	if err != nil {
		t.Fatalf("Add B: %v", err)
	}
	if second <= first {
		t.Fatalf("expected increasing keys, got %d then %d", first, second)
	}

	records, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if string(records[0].Payload) != `{"pizzaName":"A"}` {
		t.Fatalf("expected compacted payload, got %s", records[0].Payload)
	}
	if string(records[1].Payload) != `{"pizzaName":"B"}` {
		t.Fatalf("unexpected second payload %s", records[1].Payload)
	}
	if records[0].QueuedAt.IsZero() {
		t.Fatal("expected queued timestamp")
	}
}

func TestStoreRejectsInvalidPayload(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenOfflineStore(t, cfg)
	ctx := context.Background()

	for _, payload := range []string{"", "   ", "{not json"} {
		if _, err := store.Add(ctx, json.RawMessage(payload)); err == nil {
			t.Fatalf("expected error for payload %q", payload)
		}
	}
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty store, got %d", count)
	}
}

func TestStoreClearThroughKeepsLaterRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenOfflineStore(t, cfg)
	ctx := context.Background()

	first, _ := store.Add(ctx, json.RawMessage(`{"pizzaName":"A"}`))
	if _, err := store.Add(ctx, json.RawMessage(`{"pizzaName":"B"}`)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	cleared, err := store.ClearThrough(ctx, first)
	if err != nil {
		t.Fatalf("ClearThrough: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("expected 1 cleared, got %d", cleared)
	}
	records, _ := store.All(ctx)
	if len(records) != 1 || string(records[0].Payload) != `{"pizzaName":"B"}` {
		t.Fatalf("unexpected remaining records %+v", records)
	}

	cleared, err = store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("expected 1 cleared, got %d", cleared)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	store, err := offline.OpenStore(ctx, cfg.Offline.StorePath)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	if _, err := store.Add(ctx, json.RawMessage(`{"pizzaName":"A"}`)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenOfflineStore(t, cfg)
	count, err := reopened.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected record to survive reopen, got %d", count)
	}
}

func TestOpenStoreRefusesNewerVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	db, err := sqlitedb.Open(cfg.Offline.StorePath)
	if err != nil {
		t.Fatalf("sqlitedb.Open: %v", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA user_version = 7"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	db.Close()

	_, err = offline.OpenStore(ctx, cfg.Offline.StorePath)
	if !errors.Is(err, offline.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
