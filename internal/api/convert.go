package api

import (
	"time"

	"pizzahunt/internal/catalog"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateTimeFormat)
}

// FromPizza converts a catalog pizza to its API representation.
func FromPizza(p *catalog.Pizza) Pizza {
	if p == nil {
		return Pizza{}
	}
	dto := Pizza{
		ID:        p.ID,
		PizzaName: p.PizzaName,
		CreatedBy: p.CreatedBy,
		CreatedAt: formatTime(p.CreatedAt),
		Size:      p.Size,
		Toppings:  append([]string{}, p.Toppings...),
		Comments:  make([]Comment, 0, len(p.Comments)),
	}
	for i := range p.Comments {
		dto.Comments = append(dto.Comments, FromComment(&p.Comments[i]))
	}
	return dto
}

// FromPizzas converts a slice of catalog pizzas.
func FromPizzas(pizzas []catalog.Pizza) []Pizza {
	out := make([]Pizza, 0, len(pizzas))
	for i := range pizzas {
		out = append(out, FromPizza(&pizzas[i]))
	}
	return out
}

// FromComment converts a catalog comment, deriving replyCount.
func FromComment(c *catalog.Comment) Comment {
	if c == nil {
		return Comment{}
	}
	dto := Comment{
		ID:          c.ID,
		WrittenBy:   c.WrittenBy,
		CommentBody: c.CommentBody,
		CreatedAt:   formatTime(c.CreatedAt),
		Replies:     make([]Reply, 0, len(c.Replies)),
		ReplyCount:  c.ReplyCount(),
	}
	for _, r := range c.Replies {
		dto.Replies = append(dto.Replies, Reply{
			ReplyID:   r.ReplyID,
			ReplyBody: r.ReplyBody,
			WrittenBy: r.WrittenBy,
			CreatedAt: formatTime(r.CreatedAt),
		})
	}
	return dto
}

// ToPizzaInput converts a create request; nil fields become zero values and
// are defaulted by the catalog.
func ToPizzaInput(req PizzaRequest) catalog.PizzaInput {
	var in catalog.PizzaInput
	if req.PizzaName != nil {
		in.PizzaName = *req.PizzaName
	}
	if req.CreatedBy != nil {
		in.CreatedBy = *req.CreatedBy
	}
	if req.Size != nil {
		in.Size = *req.Size
	}
	if req.Toppings != nil {
		in.Toppings = append([]string(nil), (*req.Toppings)...)
	}
	return in
}

// ToPizzaPatch converts an update request.
func ToPizzaPatch(req PizzaRequest) catalog.PizzaPatch {
	return catalog.PizzaPatch{
		PizzaName: req.PizzaName,
		CreatedBy: req.CreatedBy,
		Size:      req.Size,
		Toppings:  req.Toppings,
	}
}
