package dto

import (
	"time"

	"github.com/shelfmark/shelfmark/internal/model"
)

// CreateFeedbackRequest represents the request body for submitting feedback.
type CreateFeedbackRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// FeedbackResponse represents a feedback entry in API responses.
type FeedbackResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	AuthorName     string    `json:"author_name"`
	CreatedAt      time.Time `json:"created_at"`
	GitHubIssueURL string    `json:"github_issue_url,omitempty"`
}

// CategoryResponse pairs a category value with its display label.
type CategoryResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ToFeedbackResponse converts a Feedback model to FeedbackResponse DTO.
func ToFeedbackResponse(fb *model.Feedback) *FeedbackResponse {
	return &FeedbackResponse{
		ID:             fb.ID,
		Title:          fb.Title,
		Description:    fb.Description,
		Category:       string(fb.Category),
		AuthorName:     fb.AuthorName,
		CreatedAt:      fb.CreatedAt,
		GitHubIssueURL: fb.GitHubIssueURL,
	}
}

// ToFeedbackListResponse converts a slice of feedback entries.
func ToFeedbackListResponse(items []*model.Feedback) []*FeedbackResponse {
	out := make([]*FeedbackResponse, 0, len(items))
	for _, fb := range items {
		out = append(out, ToFeedbackResponse(fb))
	}
	return out
}

// ToCategoryListResponse converts categories with their labels.
func ToCategoryListResponse(categories []model.Category) []*CategoryResponse {
	out := make([]*CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, &CategoryResponse{Value: string(c), Label: c.Label()})
	}
	return out
}
