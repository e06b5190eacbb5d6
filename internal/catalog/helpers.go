package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pizzahunt/internal/sqlitedb"
)

const (
	pizzaColumns   = "id, pizza_name, created_by, created_at, size, toppings_json, comment_ids_json"
	commentColumns = "id, written_by, comment_body, created_at, replies_json"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPizza(scanner rowScanner) (*Pizza, error) {
	var (
		pizza        Pizza
		createdRaw   string
		toppingsRaw  string
		commentIDRaw string
	)
	if err := scanner.Scan(
		&pizza.ID,
		&pizza.PizzaName,
		&pizza.CreatedBy,
		&createdRaw,
		&pizza.Size,
		&toppingsRaw,
		&commentIDRaw,
	); err != nil {
		return nil, err
	}
	if created, err := sqlitedb.ParseTime(createdRaw); err == nil {
		pizza.CreatedAt = created
	}
	if err := decodeArray(toppingsRaw, &pizza.Toppings); err != nil {
		return nil, fmt.Errorf("decode toppings for pizza %s: %w", pizza.ID, err)
	}
	if err := decodeArray(commentIDRaw, &pizza.CommentIDs); err != nil {
		return nil, fmt.Errorf("decode comment ids for pizza %s: %w", pizza.ID, err)
	}
	pizza.Comments = []Comment{}
	return &pizza, nil
}

func scanComment(scanner rowScanner) (*Comment, error) {
	var (
		comment    Comment
		createdRaw string
		repliesRaw string
	)
	if err := scanner.Scan(
		&comment.ID,
		&comment.WrittenBy,
		&comment.CommentBody,
		&createdRaw,
		&repliesRaw,
	); err != nil {
		return nil, err
	}
	if created, err := sqlitedb.ParseTime(createdRaw); err == nil {
		comment.CreatedAt = created
	}
	if err := decodeArray(repliesRaw, &comment.Replies); err != nil {
		return nil, fmt.Errorf("decode replies for comment %s: %w", comment.ID, err)
	}
	return &comment, nil
}

func decodeArray[T any](raw string, dst *[]T) error {
	*dst = []T{}
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = []T{}
	}
	return nil
}

func encodeArray[T any](values []T) (string, error) {
	if values == nil {
		values = []T{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// populate fills Comments on each pizza in CommentIDs order. Ids with no
// matching comment row are skipped.
func populate(ctx context.Context, q queryer, pizzas []*Pizza) error {
	var ids []string
	for _, p := range pizzas {
		ids = append(ids, p.CommentIDs...)
	}
	if len(ids) == 0 {
		return nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := q.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id IN ("+placeholders(len(ids))+")",
		args...,
	)
	if err != nil {
		return fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]Comment, len(ids))
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return err
		}
		byID[comment.ID] = *comment
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate comments: %w", err)
	}

	for _, p := range pizzas {
		p.Comments = make([]Comment, 0, len(p.CommentIDs))
		for _, id := range p.CommentIDs {
			if comment, ok := byID[id]; ok {
				p.Comments = append(p.Comments, comment)
			}
		}
	}
	return nil
}

func getPizza(ctx context.Context, q queryer, id string) (*Pizza, error) {
	row := q.QueryRowContext(ctx, "SELECT "+pizzaColumns+" FROM pizzas WHERE id = ?", id)
	pizza, err := scanPizza(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPizzaNotFound
		}
		return nil, fmt.Errorf("get pizza %s: %w", id, err)
	}
	return pizza, nil
}

func getComment(ctx context.Context, q queryer, id string) (*Comment, error) {
	row := q.QueryRowContext(ctx, "SELECT "+commentColumns+" FROM comments WHERE id = ?", id)
	comment, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("get comment %s: %w", id, err)
	}
	return comment, nil
}

func writeCommentIDs(ctx context.Context, q queryer, pizza *Pizza) error {
	raw, err := encodeArray(pizza.CommentIDs)
	if err != nil {
		return fmt.Errorf("encode comment ids: %w", err)
	}
	if _, err := q.ExecContext(ctx, "UPDATE pizzas SET comment_ids_json = ? WHERE id = ?", raw, pizza.ID); err != nil {
		return fmt.Errorf("update comment ids for pizza %s: %w", pizza.ID, err)
	}
	return nil
}

func writeReplies(ctx context.Context, q queryer, comment *Comment) error {
	raw, err := encodeArray(comment.Replies)
	if err != nil {
		return fmt.Errorf("encode replies: %w", err)
	}
	if _, err := q.ExecContext(ctx, "UPDATE comments SET replies_json = ? WHERE id = ?", raw, comment.ID); err != nil {
		return fmt.Errorf("update replies for comment %s: %w", comment.ID, err)
	}
	return nil
}
