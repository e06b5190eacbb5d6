package api_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pizzahunt/internal/api"
	"pizzahunt/internal/catalog"
)

func TestDecodePizzaRequests(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantBatch bool
		wantLen   int
		wantErr   bool
	}{
		{name: "object", body: `{"pizzaName":"A"}`, wantLen: 1},
		{name: "array", body: ` [{"pizzaName":"A"},{"pizzaName":"B"}]`, wantBatch: true, wantLen: 2},
		{name: "empty array", body: `[]`, wantBatch: true, wantLen: 0},
		{name: "invalid", body: `{"pizzaName":`, wantErr: true},
		{name: "wrong type", body: `{"toppings":"cheese"}`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reqs, batch, err := api.DecodePizzaRequests([]byte(tc.body))
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodePizzaRequests: %v", err)
			}
			if batch != tc.wantBatch || len(reqs) != tc.wantLen {
				t.Fatalf("got batch=%v len=%d, want batch=%v len=%d", batch, len(reqs), tc.wantBatch, tc.wantLen)
			}
		})
	}

	if _, _, err := api.DecodePizzaRequests([]byte("  ")); !errors.Is(err, api.ErrEmptyBody) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
}

func TestFromPizzaWireShape(t *testing.T) {
	created := time.Date(2024, 5, 1, 18, 4, 5, 0, time.UTC)
	pizza := &catalog.Pizza{
		ID:         "p1",
		PizzaName:  "Margherita",
		CreatedAt:  created,
		Size:       "Large",
		CommentIDs: []string{"c1"},
		Comments: []catalog.Comment{{
			ID:          "c1",
			WrittenBy:   "Ana",
			CommentBody: "Yum",
			CreatedAt:   created,
			Replies:     []catalog.Reply{{ReplyID: "r1", ReplyBody: "Agreed", WrittenBy: "Bo", CreatedAt: created}},
		}},
	}

	data, err := json.Marshal(api.FromPizza(pizza))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["_id"] != "p1" || decoded["createdAt"] != "2024-05-01T18:04:05.000Z" {
		t.Fatalf("unexpected pizza fields: %s", data)
	}
	if toppings, ok := decoded["toppings"].([]any); !ok || len(toppings) != 0 {
		t.Fatalf("expected empty toppings array, got %s", data)
	}
	comments := decoded["comments"].([]any)
	comment := comments[0].(map[string]any)
	if comment["replyCount"] != float64(1) {
		t.Fatalf("expected replyCount 1, got %v", comment["replyCount"])
	}
	reply := comment["replies"].([]any)[0].(map[string]any)
	if reply["replyId"] != "r1" {
		t.Fatalf("expected replyId r1, got %v", reply["replyId"])
	}

	parsed, err := api.ParseTime(decoded["createdAt"].(string))
	if err != nil || !parsed.Equal(created) {
		t.Fatalf("ParseTime = %v, %v", parsed, err)
	}
}

func TestToPizzaInputAndPatch(t *testing.T) {
	toppings := []string{"Ham"}
	req := api.PizzaRequest{PizzaName: api.StringPtr("Ham"), Toppings: &toppings}

	in := api.ToPizzaInput(req)
	if in.PizzaName != "Ham" || in.Size != "" || len(in.Toppings) != 1 {
		t.Fatalf("unexpected input %#v", in)
	}
	patch := api.ToPizzaPatch(req)
	if patch.Size != nil || patch.CreatedBy != nil || *patch.PizzaName != "Ham" {
		t.Fatalf("unexpected patch %#v", patch)
	}
}
