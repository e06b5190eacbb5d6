package api

import (
	"context"

	"pizzahunt/internal/catalog"
)

// CommentStore abstracts the catalog operations needed for comment endpoints.
type CommentStore interface {
	AddComment(ctx context.Context, pizzaID string, input catalog.CommentInput) (*catalog.Pizza, error)
	AddReply(ctx context.Context, commentID string, input catalog.ReplyInput) (*catalog.Comment, error)
	RemoveReply(ctx context.Context, commentID, replyID string) (*catalog.Comment, error)
	RemoveComment(ctx context.Context, pizzaID, commentID string) (*catalog.Pizza, error)
}

// CommentService exposes comment and reply operations returning API DTOs.
type CommentService struct {
	store CommentStore
}

// NewCommentService constructs a CommentService around the provided store.
func NewCommentService(store CommentStore) *CommentService {
	if store == nil {
		return nil
	}
	return &CommentService{store: store}
}

// AddComment attaches a comment to the pizza and returns the updated pizza.
func (s *CommentService) AddComment(ctx context.Context, pizzaID string, req CommentRequest) (Pizza, error) {
	pizza, err := s.store.AddComment(ctx, pizzaID, catalog.CommentInput{
		WrittenBy:   req.WrittenBy,
		CommentBody: req.CommentBody,
	})
	if err != nil {
		return Pizza{}, err
	}
	return FromPizza(pizza), nil
}

// AddReply nests a reply in the comment. The pizza id is part of the route
// only; replies are addressed by comment id.
func (s *CommentService) AddReply(ctx context.Context, _ string, commentID string, req ReplyRequest) (Comment, error) {
	comment, err := s.store.AddReply(ctx, commentID, catalog.ReplyInput{
		WrittenBy: req.WrittenBy,
		ReplyBody: req.ReplyBody,
	})
	if err != nil {
		return Comment{}, err
	}
	return FromComment(comment), nil
}

// RemoveReply pulls one reply out of the comment.
func (s *CommentService) RemoveReply(ctx context.Context, _ string, commentID, replyID string) (Comment, error) {
	comment, err := s.store.RemoveReply(ctx, commentID, replyID)
	if err != nil {
		return Comment{}, err
	}
	return FromComment(comment), nil
}

// RemoveComment deletes the comment and returns the pizza without it.
func (s *CommentService) RemoveComment(ctx context.Context, pizzaID, commentID string) (Pizza, error) {
	pizza, err := s.store.RemoveComment(ctx, pizzaID, commentID)
	if err != nil {
		return Pizza{}, err
	}
	return FromPizza(pizza), nil
}
