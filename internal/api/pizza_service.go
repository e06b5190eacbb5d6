package api

import (
	"context"

	"pizzahunt/internal/catalog"
)

// PizzaStore abstracts the catalog operations needed for pizza endpoints.
type PizzaStore interface {
	ListPizzas(ctx context.Context) ([]catalog.Pizza, error)
	GetPizza(ctx context.Context, id string) (*catalog.Pizza, error)
	CreatePizzas(ctx context.Context, inputs []catalog.PizzaInput) ([]catalog.Pizza, error)
	UpdatePizza(ctx context.Context, id string, patch catalog.PizzaPatch) (*catalog.Pizza, error)
	DeletePizza(ctx context.Context, id string) (*catalog.Pizza, error)
}

// PizzaService exposes pizza operations returning API DTOs.
type PizzaService struct {
	store PizzaStore
}

// NewPizzaService constructs a PizzaService around the provided store.
func NewPizzaService(store PizzaStore) *PizzaService {
	if store == nil {
		return nil
	}
	return &PizzaService{store: store}
}

// List returns every pizza, newest first.
func (s *PizzaService) List(ctx context.Context) ([]Pizza, error) {
	pizzas, err := s.store.ListPizzas(ctx)
	if err != nil {
		return nil, err
	}
	return FromPizzas(pizzas), nil
}

// Get returns one pizza.
func (s *PizzaService) Get(ctx context.Context, id string) (Pizza, error) {
	pizza, err := s.store.GetPizza(ctx, id)
	if err != nil {
		return Pizza{}, err
	}
	return FromPizza(pizza), nil
}

// Create stores every request in one batch.
func (s *PizzaService) Create(ctx context.Context, requests []PizzaRequest) ([]Pizza, error) {
	inputs := make([]catalog.PizzaInput, 0, len(requests))
	for _, req := range requests {
		inputs = append(inputs, ToPizzaInput(req))
	}
	created, err := s.store.CreatePizzas(ctx, inputs)
	if err != nil {
		return nil, err
	}
	return FromPizzas(created), nil
}

// Update applies the request fields that are set.
func (s *PizzaService) Update(ctx context.Context, id string, req PizzaRequest) (Pizza, error) {
	pizza, err := s.store.UpdatePizza(ctx, id, ToPizzaPatch(req))
	if err != nil {
		return Pizza{}, err
	}
	return FromPizza(pizza), nil
}

// Delete removes a pizza and returns it as it was.
func (s *PizzaService) Delete(ctx context.Context, id string) (Pizza, error) {
	pizza, err := s.store.DeletePizza(ctx, id)
	if err != nil {
		return Pizza{}, err
	}
	return FromPizza(pizza), nil
}
