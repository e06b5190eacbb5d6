package testsupport

import (
	"context"
	"testing"

	"pizzahunt/internal/catalog"
	"pizzahunt/internal/config"
	"pizzahunt/internal/offline"
)

// MustOpenCatalog opens a catalog.Store for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(context.Background(), cfg.Server.DatabasePath)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustOpenOfflineStore opens the local record store for tests and registers cleanup.
func MustOpenOfflineStore(t testing.TB, cfg *config.Config) *offline.Store {
	t.Helper()

	store, err := offline.OpenStore(context.Background(), cfg.Offline.StorePath)
	if err != nil {
		t.Fatalf("offline.OpenStore: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewPizza creates a pizza for tests using the provided store.
func NewPizza(t testing.TB, store *catalog.Store, name string) *catalog.Pizza {
	t.Helper()

	pizza, err := store.CreatePizza(context.Background(), catalog.PizzaInput{
		PizzaName: name,
		CreatedBy: "tester",
		Toppings:  []string{"Cheese"},
	})
	if err != nil {
		t.Fatalf("store.CreatePizza: %v", err)
	}
	return pizza
}
