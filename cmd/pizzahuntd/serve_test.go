package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"pizzahunt/internal/api"
	"pizzahunt/internal/logging"
	"pizzahunt/internal/testsupport"
)

func TestServeAnswersUntilCancelled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, logging.NewNop(), ready) }()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Post("http://"+addr+"/api/pizzas", "application/json",
		strings.NewReader(`{"pizzaName":"Hawaiian","createdBy":"dee"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	var created api.Pizza
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if created.PizzaName != "Hawaiian" || created.ID == "" {
		t.Fatalf("unexpected pizza %+v", created)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestServeRefusesSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	lock := flock.New(cfg.ServerLockPath())
	ok, err := lock.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	defer lock.Unlock()

	err = serve(context.Background(), cfg, logging.NewNop(), nil)
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("expected lock conflict, got %v", err)
	}
}
