package catalog

import "time"

// DefaultSize is applied to pizzas created without a size.
const DefaultSize = "Large"

// Pizza is a stored pizza with its comments populated in array order.
type Pizza struct {
	ID         string
	PizzaName  string
	CreatedBy  string
	CreatedAt  time.Time
	Size       string
	Toppings   []string
	CommentIDs []string
	Comments   []Comment
}

// Comment is a stored comment with its nested replies.
type Comment struct {
	ID          string
	WrittenBy   string
	CommentBody string
	CreatedAt   time.Time
	Replies     []Reply
}

// ReplyCount returns the number of nested replies.
func (c Comment) ReplyCount() int {
	return len(c.Replies)
}

// Reply is nested inside a comment document.
type Reply struct {
	ReplyID   string    `json:"replyId"`
	ReplyBody string    `json:"replyBody"`
	WrittenBy string    `json:"writtenBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// PizzaInput describes a pizza to create. Empty Size defaults to DefaultSize.
type PizzaInput struct {
	PizzaName string
	CreatedBy string
	Size      string
	Toppings  []string
}

// PizzaPatch replaces only the fields that are non-nil.
type PizzaPatch struct {
	PizzaName *string
	CreatedBy *string
	Size      *string
	Toppings  *[]string
}

// CommentInput describes a comment to attach to a pizza.
type CommentInput struct {
	WrittenBy   string
	CommentBody string
}

// ReplyInput describes a reply to nest inside a comment.
type ReplyInput struct {
	WrittenBy string
	ReplyBody string
}
