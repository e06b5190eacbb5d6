package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"pizzahunt/internal/logging"
	"pizzahunt/internal/sqlitedb"
)

// AddComment stores a new comment and appends its id to the pizza's comment
// array. A missing pizza leaves nothing behind.
func (s *Store) AddComment(ctx context.Context, pizzaID string, input CommentInput) (*Pizza, error) {
	ctx = sqlitedb.EnsureContext(ctx)
	normalized, err := input.normalize()
	if err != nil {
		return nil, err
	}
	const query = `INSERT INTO comments (id, written_by, comment_body, created_at, replies_json) VALUES (?, ?, ?, ?, '[]')`
	s.traceStatement(ctx, "add_comment", query, pizzaID)

	var pizza *Pizza
	err = sqlitedb.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		found, err := getPizza(ctx, tx, pizzaID)
		if err != nil {
			return err
		}
		commentID := newID()
		if _, err := tx.ExecContext(ctx, query,
			commentID,
			normalized.WrittenBy,
			normalized.CommentBody,
			sqlitedb.FormatTime(time.Now().UTC()),
		); err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
		found.CommentIDs = append(found.CommentIDs, commentID)
		if err := writeCommentIDs(ctx, tx, found); err != nil {
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

// GetComment returns one comment with its replies.
func (s *Store) GetComment(ctx context.Context, commentID string) (*Comment, error) {
	ctx = sqlitedb.EnsureContext(ctx)
	return getComment(ctx, s.db, commentID)
}

// AddReply appends a reply to the comment and returns the updated comment.
func (s *Store) AddReply(ctx context.Context, commentID string, input ReplyInput) (*Comment, error) {
	ctx = sqlitedb.EnsureContext(ctx)
	normalized, err := input.normalize()
	if err != nil {
		return nil, err
	}
	s.traceStatement(ctx, "add_reply", "UPDATE comments SET replies_json = ? WHERE id = ?", commentID)

	var comment *Comment
	err = sqlitedb.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		found, err := getComment(ctx, tx, commentID)
		if err != nil {
			return err
		}
		found.Replies = append(found.Replies, Reply{
			ReplyID:   newID(),
			ReplyBody: normalized.ReplyBody,
			WrittenBy: normalized.WrittenBy,
			CreatedAt: time.Now().UTC(),
		})
		if err := writeReplies(ctx, tx, found); err != nil {
			return err
		}
		comment = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// RemoveReply pulls every reply with replyID out of the comment. Removing a
// reply that is not present leaves the comment unchanged.
func (s *Store) RemoveReply(ctx context.Context, commentID, replyID string) (*Comment, error) {
	ctx = sqlitedb.EnsureContext(ctx)
	s.traceStatement(ctx, "remove_reply", "UPDATE comments SET replies_json = ? WHERE id = ?", commentID, replyID)

	var comment *Comment
	err := sqlitedb.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		found, err := getComment(ctx, tx, commentID)
		if err != nil {
			return err
		}
		before := len(found.Replies)
		found.Replies = slices.DeleteFunc(found.Replies, func(r Reply) bool {
			return r.ReplyID == replyID
		})
		if len(found.Replies) != before {
			if err := writeReplies(ctx, tx, found); err != nil {
				return err
			}
		}
		comment = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// RemoveComment deletes the comment and pulls its id from the pizza in one
// transaction. When the comment exists but the pizza does not, the comment is
// still deleted and ErrPizzaNotFound is returned.
func (s *Store) RemoveComment(ctx context.Context, pizzaID, commentID string) (*Pizza, error) {
	ctx = sqlitedb.EnsureContext(ctx)
	s.traceStatement(ctx, "remove_comment", "DELETE FROM comments WHERE id = ?", pizzaID, commentID)

	var (
		pizza        *Pizza
		pizzaMissing bool
	)
	err := sqlitedb.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		pizza, pizzaMissing = nil, false

		res, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", commentID)
		if err != nil {
			return fmt.Errorf("delete comment %s: %w", commentID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return ErrCommentNotFound
		}

		found, err := getPizza(ctx, tx, pizzaID)
		if errors.Is(err, ErrPizzaNotFound) {
			pizzaMissing = true
			return nil
		}
		if err != nil {
			return err
		}
		found.CommentIDs = slices.DeleteFunc(found.CommentIDs, func(id string) bool {
			return id == commentID
		})
		if err := writeCommentIDs(ctx, tx, found); err != nil {
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
	if pizzaMissing {
		s.logger.WarnContext(ctx, "comment removed from unknown pizza",
			logging.String(logging.FieldEventType, "comment_orphan_removed"),
			logging.String(logging.FieldPizzaID, pizzaID),
			logging.String(logging.FieldCommentID, commentID),
			logging.String(logging.FieldErrorHint, "verify the pizza id used by the client"),
			logging.String(logging.FieldImpact, "comment deleted without a parent reference to update"),
		)
		return nil, ErrPizzaNotFound
	}
	return pizza, nil
}
