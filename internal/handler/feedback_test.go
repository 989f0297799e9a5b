package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shelfmark/shelfmark/internal/handler/dto"
)

func TestCreateFeedback(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	user := register(t, router, "alice", "Alice")

	rec := doJSON(t, router, http.MethodPost, "/feedback",
		`{"title": "Search is slow", "description": "Listing takes seconds.", "category": "improvement"}`,
		user.AccessToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var fb dto.FeedbackResponse
	decodeBody(t, rec, &fb)

	if fb.AuthorName != "Alice" {
		t.Errorf("expected author from authenticated user, got %q", fb.AuthorName)
	}
	if fb.Category != "improvement" {
		t.Errorf("unexpected category: %q", fb.Category)
	}
	// No issue creator configured in tests
	if fb.GitHubIssueURL != "" {
		t.Errorf("expected empty issue URL, got %q", fb.GitHubIssueURL)
	}
}

func TestCreateFeedback_RequiresToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/feedback",
		`{"title": "t", "description": "d", "category": "bug"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", rec.Code)
	}
}

func TestCreateFeedback_InvalidCategory(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	user := register(t, router, "alice", "Alice")

	rec := doJSON(t, router, http.MethodPost, "/feedback",
		`{"title": "t", "description": "d", "category": "complaint"}`, user.AccessToken)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid category, got %d", rec.Code)
	}
}

func TestFeedbackLifecycle(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	user := register(t, router, "alice", "Alice")

	rec := doJSON(t, router, http.MethodPost, "/feedback",
		`{"title": "Dark mode", "description": "Please add one.", "category": "feature"}`,
		user.AccessToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var created dto.FeedbackResponse
	decodeBody(t, rec, &created)

	rec = doJSON(t, router, http.MethodGet, "/feedback", "", "")
	var list []dto.FeedbackResponse
	decodeBody(t, rec, &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 feedback entry, got %d", len(list))
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/feedback/%d", created.ID), "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 fetching feedback, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/feedback/%d", created.ID), "", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 deleting feedback, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/feedback/%d", created.ID), "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestFeedbackCategories(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/feedback/categories", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var categories []dto.CategoryResponse
	decodeBody(t, rec, &categories)

	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(categories))
	}

	want := map[string]string{
		"bug":         "Bug report",
		"feature":     "Feature request",
		"improvement": "Improvement",
	}
	for _, c := range categories {
		if want[c.Value] != c.Label {
			t.Errorf("category %q has label %q, want %q", c.Value, c.Label, want[c.Value])
		}
	}
}
