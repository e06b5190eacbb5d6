package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pizzahunt/internal/sqlitedb"
)

// ListPizzas returns every pizza, newest first, with comments populated.
func (s *Store) ListPizzas(ctx context.Context) ([]Pizza, error) {
	ctx = sqlitedb.EnsureContext(ctx)
	query := "SELECT " + pizzaColumns + " FROM pizzas ORDER BY id DESC"
	s.traceStatement(ctx, "list_pizzas", query)

	var result []Pizza
	err := sqlitedb.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("list pizzas: %w", err)
		}
		var pizzas []*Pizza
		for rows.Next() {
			pizza, err := scanPizza(rows)
			if err != nil {
				rows.Close()
				return err
			}
			pizzas = append(pizzas, pizza)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterate pizzas: %w", err)
		}
		rows.Close()

		if err := populate(ctx, tx, pizzas); err != nil {
			return err
		}
		result = make([]Pizza, 0, len(pizzas))
		for _, p := range pizzas {
			result = append(result, *p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetPizza returns one pizza with comments populated.
func (s *Store) GetPizza(ctx context.Context, id string) (*Pizza, error) {
	ctx = sqlitedb.EnsureContext(ctx)
	s.traceStatement(ctx, "get_pizza", "SELECT "+pizzaColumns+" FROM pizzas WHERE id = ?", id)

	var pizza *Pizza
	err := sqlitedb.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		found, err := getPizza(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := populate(ctx, tx, []*Pizza{found}); err != nil {
			return err
		}
		pizza = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pizza, nil
}

// CreatePizza inserts a single pizza.
func (s *Store) CreatePizza(ctx context.Context, input PizzaInput) (*Pizza, error) {
	created, err := s.CreatePizzas(ctx, []PizzaInput{input})
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

// CreatePizzas inserts every input in one transaction; either all pizzas are
// stored or none are.
func (s *Store) CreatePizzas(ctx context.Context, inputs []PizzaInput) ([]Pizza, error) {
	ctx = sqlitedb.EnsureContext(ctx)
	const query = `INSERT INTO pizzas (
            id, pizza_name, created_by, created_at, size, toppings_json, comment_ids_json
        ) VALUES (?, ?, ?, ?, ?, ?, '[]')`
	s.traceStatement(ctx, "create_pizzas", query, len(inputs))

	pizzas := make([]Pizza, 0, len(inputs))
	for _, input := range inputs {
		normalized := input.normalize()
		pizzas = append(pizzas, Pizza{
			ID:         newID(),
			PizzaName:  normalized.PizzaName,
			CreatedBy:  normalized.CreatedBy,
			CreatedAt:  time.Now().UTC(),
			Size:       normalized.Size,
			Toppings:   normalized.Toppings,
			CommentIDs: []string{},
			Comments:   []Comment{},
		})
	}

	err := sqlitedb.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, pizza := range pizzas {
			toppings, err := encodeArray(pizza.Toppings)
			if err != nil {
				return fmt.Errorf("encode toppings: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query,
				pizza.ID,
				pizza.PizzaName,
				pizza.CreatedBy,
				sqlitedb.FormatTime(pizza.CreatedAt),
				pizza.Size,
				toppings,
			); err != nil {
				return fmt.Errorf("insert pizza: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pizzas, nil
}

// UpdatePizza applies patch and returns the new version of the pizza.
func (s *Store) UpdatePizza(ctx context.Context, id string, patch PizzaPatch) (*Pizza, error) {
	ctx = sqlitedb.EnsureContext(ctx)
	const query = `UPDATE pizzas SET pizza_name = ?, created_by = ?, size = ?, toppings_json = ? WHERE id = ?`
	s.traceStatement(ctx, "update_pizza", query, id)

	var pizza *Pizza
	err := sqlitedb.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		found, err := getPizza(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := patch.apply(found); err != nil {
			return err
		}
		toppings, err := encodeArray(found.Toppings)
		if err != nil {
			return fmt.Errorf("encode toppings: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, found.PizzaName, found.CreatedBy, found.Size, toppings, found.ID); err != nil {
			return fmt.Errorf("update pizza %s: %w", id, err)
		}
		if err := populate(ctx, tx, []*Pizza{found}); err != nil {
			return err
		}
		pizza = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pizza, nil
}

// DeletePizza removes a pizza together with the comments it references and
// returns the pizza as it was before deletion.
func (s *Store) DeletePizza(ctx context.Context, id string) (*Pizza, error) {
	ctx = sqlitedb.EnsureContext(ctx)
	s.traceStatement(ctx, "delete_pizza", "DELETE FROM pizzas WHERE id = ?", id)

	var pizza *Pizza
	err := sqlitedb.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		found, err := getPizza(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := populate(ctx, tx, []*Pizza{found}); err != nil {
			return err
		}
		if len(found.CommentIDs) > 0 {
			args := make([]any, len(found.CommentIDs))
			for i, cid := range found.CommentIDs {
				args[i] = cid
			}
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM comments WHERE id IN ("+placeholders(len(args))+")", args...,
			); err != nil {
				return fmt.Errorf("delete comments of pizza %s: %w", id, err)
			}
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM pizzas WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete pizza %s: %w", id, err)
		}
		pizza = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pizza, nil
}
