package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "shelfmark_test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBookRepository_AddAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Books()

	first, err := repo.Add(ctx, &model.Book{Title: "Intro", Author: "Knuth"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	second, err := repo.Add(ctx, &model.Book{Title: "Sequel"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if first.ID == 0 || first.ID == second.ID {
		t.Fatalf("ids not unique: %d, %d", first.ID, second.ID)
	}

	got, err := repo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Intro" || got.Author != "Knuth" {
		t.Errorf("got %+v", got)
	}
	if got.IsBorrowed() {
		t.Error("new book should be available")
	}

	if _, err := repo.GetByID(ctx, 9999); !errors.Is(err, repository.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}

func TestBookRepository_BorrowRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Books()

	book, err := repo.Add(ctx, &model.Book{Title: "Intro"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	if err := book.Borrow("Alice", due); err != nil {
		t.Fatalf("Borrow failed: %v", err)
	}
	if err := repo.Update(ctx, book); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stored, err := repo.GetByID(ctx, book.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.BorrowerName == nil || *stored.BorrowerName != "Alice" {
		t.Errorf("BorrowerName = %v, want Alice", stored.BorrowerName)
	}
	if stored.ReturnDate == nil || !stored.ReturnDate.Equal(due) {
		t.Errorf("ReturnDate = %v, want %v", stored.ReturnDate, due)
	}

	stored.Return()
	if err := repo.Update(ctx, stored); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	returned, err := repo.GetByID(ctx, book.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if returned.BorrowerName != nil || returned.ReturnDate != nil {
		t.Error("borrow fields should be cleared after return")
	}
}

func TestBookRepository_Search(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Books()

	alice := "Alice"
	due := "2026-09-15"
	dueTime, _ := time.Parse(dueDateFormat, due)
	seed := []*model.Book{
		{Title: "The Go Programming Language", BorrowerName: &alice, ReturnDate: &dueTime},
		{Title: "Go in Action"},
		{Title: "Clean Architecture"},
	}
	for _, b := range seed {
		if _, err := repo.Add(ctx, b); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	result, err := repo.Search(ctx, repository.BookFilter{Title: "GO"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("title search returned %d books, want 2", len(result))
	}

	result, err = repo.Search(ctx, repository.BookFilter{Title: "go", BorrowerName: "ALI"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result) != 1 || result[0].Title != "The Go Programming Language" {
		t.Errorf("combined search returned %v", result)
	}

	result, err = repo.Search(ctx, repository.BookFilter{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result) != 3 {
		t.Errorf("empty search returned %d books, want 3", len(result))
	}
}

func TestBookRepository_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Books()

	book, err := repo.Add(ctx, &model.Book{Title: "Intro"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	removed, err := repo.Delete(ctx, book.ID)
	if err != nil || !removed {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", removed, err)
	}
	removed, err = repo.Delete(ctx, book.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed {
		t.Error("second delete should report nothing removed")
	}
}

func TestUserRepository_UniqueUsername(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Users()

	if _, err := repo.Save(ctx, &model.User{Username: "bob", DisplayName: "Bob"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, err := repo.Save(ctx, &model.User{Username: "bob", DisplayName: "Bobby"})
	if !errors.Is(err, repository.ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}

	users, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("FindAll returned %d users, want 1", len(users))
	}
}

func TestUserRepository_SaveUpdateFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Users()

	user, err := repo.Save(ctx, &model.User{Username: "bob", DisplayName: "Bob"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("Save should assign an id")
	}

	user.UpdateDisplayName("Robert")
	if _, err := repo.Save(ctx, user); err != nil {
		t.Fatalf("Save update failed: %v", err)
	}

	got, err := repo.FindByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("FindByUsername failed: %v", err)
	}
	if got.DisplayName != "Robert" {
		t.Errorf("DisplayName = %s, want Robert", got.DisplayName)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should survive the round trip")
	}

	if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFeedbackRepository_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore(t).Feedback()

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
	if stored.GitHubIssueURL != fb.GitHubIssueURL {
		t.Errorf("issue URL = %q, want %q", stored.GitHubIssueURL, fb.GitHubIssueURL)
	}
	if stored.Category != model.CategoryImprovement {
		t.Errorf("category = %q", stored.Category)
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
