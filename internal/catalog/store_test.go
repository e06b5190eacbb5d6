package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pizzahunt/internal/catalog"
	"pizzahunt/internal/testsupport"
)

func TestCreatePizzaAppliesDefaults(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	before := time.Now().Add(-time.Second)
	pizza, err := store.CreatePizza(context.Background(), catalog.PizzaInput{
		PizzaName: "  Margherita ",
		CreatedBy: "Lernantino",
		Toppings:  []string{" Basil", "", "Mozzarella"},
	})
	if err != nil {
		t.Fatalf("CreatePizza: %v", err)
	}
	if pizza.ID == "" {
		t.Fatal("expected generated id")
	}
	if pizza.PizzaName != "Margherita" {
		t.Fatalf("expected trimmed name, got %q", pizza.PizzaName)
	}
	if pizza.Size != catalog.DefaultSize {
		t.Fatalf("expected default size %q, got %q", catalog.DefaultSize, pizza.Size)
	}
	if len(pizza.Toppings) != 2 || pizza.Toppings[0] != "Basil" {
		t.Fatalf("unexpected toppings %#v", pizza.Toppings)
	}
	if pizza.CreatedAt.Before(before) {
		t.Fatalf("expected createdAt to default to now, got %v", pizza.CreatedAt)
	}
	if pizza.Comments == nil || len(pizza.Comments) != 0 {
		t.Fatalf("expected empty comments, got %#v", pizza.Comments)
	}
}

func TestTextIsNFCNormalized(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	decomposed := "Cafe\u0301 Special"
	pizza, err := store.CreatePizza(context.Background(), catalog.PizzaInput{PizzaName: decomposed})
	if err != nil {
		t.Fatalf("CreatePizza: %v", err)
	}
	if pizza.PizzaName != "Caf\u00e9 Special" {
		t.Fatalf("expected composed form, got %q", pizza.PizzaName)
	}
}

func TestListPizzasNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	first := testsupport.NewPizza(t, store, "First")
	second := testsupport.NewPizza(t, store, "Second")
	third := testsupport.NewPizza(t, store, "Third")

	pizzas, err := store.ListPizzas(context.Background())
	if err != nil {
		t.Fatalf("ListPizzas: %v", err)
	}
	if len(pizzas) != 3 {
		t.Fatalf("expected 3 pizzas, got %d", len(pizzas))
	}
	want := []string{third.ID, second.ID, first.ID}
	for i, id := range want {
		if pizzas[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, pizzas[i].ID)
		}
	}
}

func TestCreatePizzasBatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	created, err := store.CreatePizzas(context.Background(), []catalog.PizzaInput{
		{PizzaName: "A"},
		{PizzaName: "B", Size: "Medium"},
	})
	if err != nil {
		t.Fatalf("CreatePizzas: %v", err)
	}
	if len(created) != 2 || created[1].Size != "Medium" {
		t.Fatalf("unexpected batch result %#v", created)
	}

	pizzas, err := store.ListPizzas(context.Background())
	if err != nil {
		t.Fatalf("ListPizzas: %v", err)
	}
	if len(pizzas) != 2 {
		t.Fatalf("expected 2 stored pizzas, got %d", len(pizzas))
	}
}

func TestGetPizzaNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	if _, err := store.GetPizza(context.Background(), "missing"); !errors.Is(err, catalog.ErrPizzaNotFound) {
		t.Fatalf("expected ErrPizzaNotFound, got %v", err)
	}
}

func TestUpdatePizzaReplacesProvidedFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	pizza := testsupport.NewPizza(t, store, "Plain")

	name := "Supreme"
	toppings := []string{"Pepperoni", "Olives"}
	updated, err := store.UpdatePizza(context.Background(), pizza.ID, catalog.PizzaPatch{
		PizzaName: &name,
		Toppings:  &toppings,
	})
	if err != nil {
		t.Fatalf("UpdatePizza: %v", err)
	}
	if updated.PizzaName != "Supreme" || updated.CreatedBy != "tester" || updated.Size != catalog.DefaultSize {
		t.Fatalf("unexpected update result %#v", updated)
	}
	if len(updated.Toppings) != 2 {
		t.Fatalf("expected replaced toppings, got %#v", updated.Toppings)
	}

	empty := " "
	_, err = store.UpdatePizza(context.Background(), pizza.ID, catalog.PizzaPatch{Size: &empty})
	if !catalog.IsValidation(err) {
		t.Fatalf("expected validation error for empty size, got %v", err)
	}

	if _, err := store.UpdatePizza(context.Background(), "missing", catalog.PizzaPatch{PizzaName: &name}); !errors.Is(err, catalog.ErrPizzaNotFound) {
		t.Fatalf("expected ErrPizzaNotFound, got %v", err)
	}
}

func TestDeletePizzaRemovesComments(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()
	pizza := testsupport.NewPizza(t, store, "Doomed")

	withComment, err := store.AddComment(ctx, pizza.ID, catalog.CommentInput{WrittenBy: "a", CommentBody: "b"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	commentID := withComment.CommentIDs[0]

	deleted, err := store.DeletePizza(ctx, pizza.ID)
	if err != nil {
		t.Fatalf("DeletePizza: %v", err)
	}
	if deleted.ID != pizza.ID || len(deleted.Comments) != 1 {
		t.Fatalf("expected deleted pizza with its comment, got %#v", deleted)
	}
	if _, err := store.GetPizza(ctx, pizza.ID); !errors.Is(err, catalog.ErrPizzaNotFound) {
		t.Fatalf("expected pizza gone, got %v", err)
	}
	if _, err := store.GetComment(ctx, commentID); !errors.Is(err, catalog.ErrCommentNotFound) {
		t.Fatalf("expected comment gone, got %v", err)
	}
	if _, err := store.DeletePizza(ctx, pizza.ID); !errors.Is(err, catalog.ErrPizzaNotFound) {
		t.Fatalf("expected ErrPizzaNotFound on second delete, got %v", err)
	}
}

func TestAddCommentPushesIDInOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()
	pizza := testsupport.NewPizza(t, store, "Hawaiian")

	if _, err := store.AddComment(ctx, pizza.ID, catalog.CommentInput{WrittenBy: "Ana", CommentBody: "first"}); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	updated, err := store.AddComment(ctx, pizza.ID, catalog.CommentInput{WrittenBy: "Bo", CommentBody: "  second  "})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if len(updated.CommentIDs) != 2 || len(updated.Comments) != 2 {
		t.Fatalf("expected two comments, got %#v", updated)
	}
	if updated.Comments[0].CommentBody != "first" || updated.Comments[1].CommentBody != "second" {
		t.Fatalf("expected comments in push order, got %#v", updated.Comments)
	}
	for i, c := range updated.Comments {
		if c.ID != updated.CommentIDs[i] {
			t.Fatalf("comment %d id %s does not mirror array entry %s", i, c.ID, updated.CommentIDs[i])
		}
	}
}

func TestAddCommentValidationAndMissingPizza(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()
	pizza := testsupport.NewPizza(t, store, "Veggie")

	_, err := store.AddComment(ctx, pizza.ID, catalog.CommentInput{WrittenBy: "", CommentBody: "   "})
	var verr *catalog.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected both fields reported, got %#v", verr.Fields)
	}

	if _, err := store.AddComment(ctx, "missing", catalog.CommentInput{WrittenBy: "a", CommentBody: "b"}); !errors.Is(err, catalog.ErrPizzaNotFound) {
		t.Fatalf("expected ErrPizzaNotFound, got %v", err)
	}
}

func TestRepliesAddAndRemove(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()
	pizza := testsupport.NewPizza(t, store, "Meat Lovers")

	withComment, err := store.AddComment(ctx, pizza.ID, catalog.CommentInput{WrittenBy: "Ana", CommentBody: "Great"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	commentID := withComment.CommentIDs[0]

	comment, err := store.AddReply(ctx, commentID, catalog.ReplyInput{WrittenBy: "Bo", ReplyBody: " Agreed "})
	if err != nil {
		t.Fatalf("AddReply: %v", err)
	}
	comment, err = store.AddReply(ctx, commentID, catalog.ReplyInput{WrittenBy: "Cy", ReplyBody: "Same"})
	if err != nil {
		t.Fatalf("AddReply: %v", err)
	}
	if comment.ReplyCount() != 2 || comment.Replies[0].ReplyBody != "Agreed" {
		t.Fatalf("unexpected replies %#v", comment.Replies)
	}
	if comment.Replies[0].ReplyID == "" || comment.Replies[0].ReplyID == comment.Replies[1].ReplyID {
		t.Fatalf("expected distinct reply ids, got %#v", comment.Replies)
	}

	removed, err := store.RemoveReply(ctx, commentID, comment.Replies[0].ReplyID)
	if err != nil {
		t.Fatalf("RemoveReply: %v", err)
	}
	if removed.ReplyCount() != 1 || removed.Replies[0].WrittenBy != "Cy" {
		t.Fatalf("unexpected replies after removal %#v", removed.Replies)
	}

	unchanged, err := store.RemoveReply(ctx, commentID, "not-a-reply")
	if err != nil {
		t.Fatalf("RemoveReply unknown reply: %v", err)
	}
	if unchanged.ReplyCount() != 1 {
		t.Fatalf("expected unchanged comment, got %#v", unchanged.Replies)
	}

	if _, err := store.AddReply(ctx, commentID, catalog.ReplyInput{WrittenBy: "Bo"}); !catalog.IsValidation(err) {
		t.Fatalf("expected validation error for empty reply body, got %v", err)
	}
	if _, err := store.AddReply(ctx, "missing", catalog.ReplyInput{WrittenBy: "Bo", ReplyBody: "x"}); !errors.Is(err, catalog.ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
	if _, err := store.RemoveReply(ctx, "missing", "x"); !errors.Is(err, catalog.ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}

func TestRemoveCommentPullsReference(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()
	pizza := testsupport.NewPizza(t, store, "Pesto")

	if _, err := store.AddComment(ctx, pizza.ID, catalog.CommentInput{WrittenBy: "a", CommentBody: "keep"}); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	withTwo, err := store.AddComment(ctx, pizza.ID, catalog.CommentInput{WrittenBy: "b", CommentBody: "drop"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	dropID := withTwo.CommentIDs[1]

	updated, err := store.RemoveComment(ctx, pizza.ID, dropID)
	if err != nil {
		t.Fatalf("RemoveComment: %v", err)
	}
	if len(updated.CommentIDs) != 1 || updated.Comments[0].CommentBody != "keep" {
		t.Fatalf("expected only the kept comment, got %#v", updated)
	}
	if _, err := store.GetComment(ctx, dropID); !errors.Is(err, catalog.ErrCommentNotFound) {
		t.Fatalf("expected comment row deleted, got %v", err)
	}
	if _, err := store.RemoveComment(ctx, pizza.ID, dropID); !errors.Is(err, catalog.ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound on second removal, got %v", err)
	}
}

func TestRemoveCommentWithUnknownPizzaStillDeletesComment(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()
	pizza := testsupport.NewPizza(t, store, "Orphan")

	withComment, err := store.AddComment(ctx, pizza.ID, catalog.CommentInput{WrittenBy: "a", CommentBody: "b"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	commentID := withComment.CommentIDs[0]

	if _, err := store.RemoveComment(ctx, "other-pizza", commentID); !errors.Is(err, catalog.ErrPizzaNotFound) {
		t.Fatalf("expected ErrPizzaNotFound, got %v", err)
	}
	if _, err := store.GetComment(ctx, commentID); !errors.Is(err, catalog.ErrCommentNotFound) {
		t.Fatalf("expected comment deleted despite missing pizza, got %v", err)
	}
	reloaded, err := store.GetPizza(ctx, pizza.ID)
	if err != nil {
		t.Fatalf("GetPizza: %v", err)
	}
	if len(reloaded.Comments) != 0 {
		t.Fatalf("expected populate to skip the deleted comment, got %#v", reloaded.Comments)
	}
}

func TestOpenReusesExistingSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	ctx := context.Background()

	store, err := catalog.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.CreatePizza(ctx, catalog.PizzaInput{PizzaName: "Persisted"}); err != nil {
		t.Fatalf("CreatePizza: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := catalog.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	pizzas, err := reopened.ListPizzas(ctx)
	if err != nil {
		t.Fatalf("ListPizzas: %v", err)
	}
	if len(pizzas) != 1 || pizzas[0].PizzaName != "Persisted" {
		t.Fatalf("expected persisted pizza, got %#v", pizzas)
	}
}
