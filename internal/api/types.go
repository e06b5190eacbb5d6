package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DateTimeFormat is used for RFC3339 timestamps in API payloads.
const DateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Error messages returned in MessageResponse bodies.
const (
	MsgPizzaNotFound   = "No pizza found with this id!"
	MsgCommentNotFound = "No comment found with this id!"
	MsgNoComment       = "No comment with this id!"
)

// Pizza describes a pizza in a transport-friendly format.
type Pizza struct {
	ID        string    `json:"_id"`
	PizzaName string    `json:"pizzaName"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt string    `json:"createdAt"`
	Size      string    `json:"size"`
	Toppings  []string  `json:"toppings"`
	Comments  []Comment `json:"comments"`
}

// Comment describes a comment and its nested replies.
type Comment struct {
	ID          string  `json:"_id"`
	WrittenBy   string  `json:"writtenBy"`
	CommentBody string  `json:"commentBody"`
	CreatedAt   string  `json:"createdAt"`
	Replies     []Reply `json:"replies"`
	ReplyCount  int     `json:"replyCount"`
}

// Reply describes a reply nested inside a comment.
type Reply struct {
	ReplyID   string `json:"replyId"`
	ReplyBody string `json:"replyBody"`
	WrittenBy string `json:"writtenBy"`
	CreatedAt string `json:"createdAt"`
}

// PizzaRequest is the body for creating or updating a pizza. Nil fields are
// left unchanged on update and defaulted on create.
type PizzaRequest struct {
	PizzaName *string   `json:"pizzaName,omitempty"`
	CreatedBy *string   `json:"createdBy,omitempty"`
	Size      *string   `json:"size,omitempty"`
	Toppings  *[]string `json:"toppings,omitempty"`
}

// CommentRequest is the body for adding a comment.
type CommentRequest struct {
	WrittenBy   string `json:"writtenBy"`
	CommentBody string `json:"commentBody"`
}

// ReplyRequest is the body for adding a reply.
type ReplyRequest struct {
	WrittenBy string `json:"writtenBy"`
	ReplyBody string `json:"replyBody"`
}

// MessageResponse carries a human-readable error.
type MessageResponse struct {
	Message string `json:"message"`
}

// ParseTime parses a DateTimeFormat timestamp.
func ParseTime(value string) (time.Time, error) {
	return time.Parse(DateTimeFormat, value)
}

// ErrEmptyBody is returned when a create request carries no JSON value.
var ErrEmptyBody = errors.New("request body is empty")

// DecodePizzaRequests accepts either one JSON object or an array of objects.
// batch reports whether the body was an array so responses can keep the same
// shape.
func DecodePizzaRequests(data []byte) (requests []PizzaRequest, batch bool, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false, ErrEmptyBody
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &requests); err != nil {
			return nil, true, fmt.Errorf("decode pizza array: %w", err)
		}
		return requests, true, nil
	}
	var single PizzaRequest
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, false, fmt.Errorf("decode pizza: %w", err)
	}
	return []PizzaRequest{single}, false, nil
}

// StringPtr returns a pointer to value.
func StringPtr(value string) *string {
	return &value
}
