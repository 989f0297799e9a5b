package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
)

func TestBookRepository_Add_AssignsUniqueIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewBookRepository()

	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		book, err := repo.Add(ctx, &model.Book{Title: "Intro"})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if book.ID == 0 {
			t.Fatal("Add should assign a non-zero id")
		}
		if seen[book.ID] {
			t.Fatalf("id %d assigned twice", book.ID)
		}
		seen[book.ID] = true
	}
}

func TestBookRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewBookRepository()
	_, err := repo.GetByID(context.Background(), 42)
	if !errors.Is(err, repository.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestBookRepository_Search(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewBookRepository()

	alice := "Alice"
	bob := "Bob"
	due := time.Now().Add(7 * 24 * time.Hour)
	books := []*model.Book{
		{Title: "The Go Programming Language", BorrowerName: &alice, ReturnDate: &due},
		{Title: "Go in Action", BorrowerName: &bob, ReturnDate: &due},
		{Title: "Clean Architecture"},
	}
	for _, b := range books {
		if _, err := repo.Add(ctx, b); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	// Case-insensitive title match
	result, err := repo.Search(ctx, repository.BookFilter{Title: "go"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("title search returned %d books, want 2", len(result))
	}

	// Both filters ANDed
	result, err = repo.Search(ctx, repository.BookFilter{Title: "GO", BorrowerName: "ali"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("combined search returned %d books, want 1", len(result))
	}
	if result[0].Title != "The Go Programming Language" {
		t.Errorf("combined search returned %q", result[0].Title)
	}

	// Empty filter returns everything
	result, err = repo.Search(ctx, repository.BookFilter{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result) != 3 {
		t.Errorf("empty search returned %d books, want 3", len(result))
	}
}

func TestBookRepository_Update_AbsentIDIsNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewBookRepository()

	if err := repo.Update(ctx, &model.Book{ID: 99, Title: "Ghost"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, 99); !errors.Is(err, repository.ErrBookNotFound) {
		t.Error("update of an absent id must not insert")
	}
}

func TestBookRepository_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewBookRepository()
	book, err := repo.Add(ctx, &model.Book{Title: "Intro"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	removed, err := repo.Delete(ctx, book.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !removed {
		t.Error("Delete should report removal")
	}

	removed, err = repo.Delete(ctx, book.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed {
		t.Error("second Delete should report nothing removed")
	}
}

func TestUserRepository_SaveAndFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewUserRepository()

	user, err := repo.Save(ctx, &model.User{Username: "bob", DisplayName: "Bob"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("Save should assign an id")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Save should set CreatedAt on insert")
	}

	byName, err := repo.FindByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("FindByUsername failed: %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("FindByUsername returned id %d, want %d", byName.ID, user.ID)
	}

	if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}

	user.UpdateDisplayName("Robert")
	if _, err := repo.Save(ctx, user); err != nil {
		t.Fatalf("Save update failed: %v", err)
	}
	byID, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if byID.DisplayName != "Robert" {
		t.Errorf("DisplayName = %s, want Robert", byID.DisplayName)
	}
}

func TestFeedbackRepository_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFeedbackRepository()

	fb, err := repo.Add(ctx, model.NewFeedback("Slow search", "Search takes seconds", model.CategoryImprovement, "alice"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	fb.SetIssueURL("https://github.com/acme/shelfmark/issues/12")
	if err := repo.Update(ctx, fb); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stored, err := repo.GetByID(ctx, fb.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.GitHubIssueURL == "" {
		t.Error("issue URL should be persisted")
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("GetAll returned %d entries, want 1", len(all))
	}

	removed, err := repo.Delete(ctx, fb.ID)
	if err != nil || !removed {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", removed, err)
	}
	if _, err := repo.GetByID(ctx, fb.ID); !errors.Is(err, repository.ErrFeedbackNotFound) {
		t.Errorf("expected ErrFeedbackNotFound, got %v", err)
	}
}
