package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pizzahunt/internal/api"
	"pizzahunt/internal/remote"
	"pizzahunt/internal/testsupport"
)

func TestCreatePizzasPostsArray(t *testing.T) {
	var (
		gotBody   []any
		gotAuth   string
		gotType   string
		callCount int
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		if r.Method != http.MethodPost || r.URL.Path != "/api/pizzas" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"_id":"1"},{"_id":"2"}]`))
	}))
	defer server.Close()

	client, err := remote.New(server.URL+"/", 5*time.Second, remote.WithToken("secret"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := client.CreatePizzas(context.Background(), []json.RawMessage{
		json.RawMessage(`{"pizzaName":"A"}`),
		json.RawMessage(`{"pizzaName":"B"}`),
	})
	if err != nil {
		t.Fatalf("CreatePizzas: %v", err)
	}
	if !result.OK() || result.StatusCode != http.StatusOK {
		t.Fatalf("unexpected result %#v", result)
	}
	if callCount != 1 || len(gotBody) != 2 {
		t.Fatalf("expected one call with 2 payloads, got %d calls body=%v", callCount, gotBody)
	}
	if gotAuth != "Bearer secret" || gotType != "application/json" {
		t.Fatalf("unexpected headers auth=%q type=%q", gotAuth, gotType)
	}
}

func TestCreatePizzasIgnoresStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := remote.New(server.URL, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := client.CreatePizzas(context.Background(), []json.RawMessage{json.RawMessage(`{}`)})
	if err != nil {
		t.Fatalf("CreatePizzas: %v", err)
	}
	if !result.OK() || result.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected body-shape success with status recorded, got %#v", result)
	}
}

func TestCreatePizzasMessageIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"validation failed"}`))
	}))
	defer server.Close()

	client, err := remote.New(server.URL, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := client.CreatePizzas(context.Background(), []json.RawMessage{json.RawMessage(`{}`)})
	if err != nil {
		t.Fatalf("CreatePizzas: %v", err)
	}
	if result.OK() || result.Message != "validation failed" {
		t.Fatalf("expected failure with message, got %#v", result)
	}
}

func TestCreatePizzaUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := remote.New(url, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.CreatePizza(context.Background(), json.RawMessage(`{"pizzaName":"A"}`))
	if !errors.Is(err, remote.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestCreatePizzaRejectsInvalidPayload(t *testing.T) {
	client, err := remote.New("http://127.0.0.1:1", time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.CreatePizza(context.Background(), json.RawMessage(`{`)); err == nil || errors.Is(err, remote.ErrUnreachable) {
		t.Fatalf("expected local validation error, got %v", err)
	}
}

func TestNewRejectsInvalidURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:3001", "://bad"} {
		if _, err := remote.New(raw, time.Second); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestCRUDCallsAndAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/pizzas":
			_, _ = w.Write([]byte(`[{"_id":"p1","pizzaName":"A","comments":[]}]`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/pizzas/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"No pizza found with this id!"}`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/comments/p1/c1":
			var req api.ReplyRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			_, _ = w.Write([]byte(`{"_id":"c1","replies":[{"replyId":"r1","replyBody":"` + req.ReplyBody + `"}],"replyCount":1}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/comments/p1/c1/r1":
			_, _ = w.Write([]byte(`{"_id":"c1","replies":[],"replyCount":0}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithAPIURL(server.URL))
	client, err := remote.NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	ctx := context.Background()

	pizzas, err := client.ListPizzas(ctx)
	if err != nil || len(pizzas) != 1 || pizzas[0].ID != "p1" {
		t.Fatalf("ListPizzas = %#v, %v", pizzas, err)
	}

	_, err = client.GetPizza(ctx, "missing")
	if !remote.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
	var apiErr *remote.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "No pizza found with this id!" {
		t.Fatalf("expected message from body, got %v", err)
	}

	comment, err := client.AddReply(ctx, "p1", "c1", api.ReplyRequest{WrittenBy: "Bo", ReplyBody: "Agreed"})
	if err != nil || comment.ReplyCount != 1 || comment.Replies[0].ReplyBody != "Agreed" {
		t.Fatalf("AddReply = %#v, %v", comment, err)
	}
	comment, err = client.RemoveReply(ctx, "p1", "c1", "r1")
	if err != nil || comment.ReplyCount != 0 {
		t.Fatalf("RemoveReply = %#v, %v", comment, err)
	}
}
