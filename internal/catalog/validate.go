package catalog

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeText applies Unicode NFC and trims surrounding whitespace so
// visually identical input is stored identically.
func normalizeText(value string) string {
	return strings.TrimSpace(norm.NFC.String(value))
}

func normalizeToppings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = normalizeText(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (in PizzaInput) normalize() PizzaInput {
	out := PizzaInput{
		PizzaName: normalizeText(in.PizzaName),
		CreatedBy: normalizeText(in.CreatedBy),
		Size:      normalizeText(in.Size),
		Toppings:  normalizeToppings(in.Toppings),
	}
	if out.Size == "" {
		out.Size = DefaultSize
	}
	return out
}

func (p PizzaPatch) apply(pizza *Pizza) error {
	verr := &ValidationError{Resource: "pizza"}
	if p.PizzaName != nil {
		pizza.PizzaName = normalizeText(*p.PizzaName)
	}
	if p.CreatedBy != nil {
		pizza.CreatedBy = normalizeText(*p.CreatedBy)
	}
	if p.Size != nil {
		size := normalizeText(*p.Size)
		if size == "" {
			verr.add("size", "cannot be empty")
		}
		pizza.Size = size
	}
	if p.Toppings != nil {
		pizza.Toppings = normalizeToppings(*p.Toppings)
	}
	return verr.orNil()
}

func (in CommentInput) normalize() (CommentInput, error) {
	out := CommentInput{
		WrittenBy:   normalizeText(in.WrittenBy),
		CommentBody: normalizeText(in.CommentBody),
	}
	verr := &ValidationError{Resource: "comment"}
	if out.WrittenBy == "" {
		verr.add("writtenBy", "is required")
	}
	if out.CommentBody == "" {
		verr.add("commentBody", "is required")
	}
	return out, verr.orNil()
}

func (in ReplyInput) normalize() (ReplyInput, error) {
	out := ReplyInput{
		WrittenBy: normalizeText(in.WrittenBy),
		ReplyBody: normalizeText(in.ReplyBody),
	}
	verr := &ValidationError{Resource: "reply"}
	if out.ReplyBody == "" {
		verr.add("replyBody", "is required")
	}
	if out.WrittenBy == "" {
		verr.add("writtenBy", "is required")
	}
	return out, verr.orNil()
}
