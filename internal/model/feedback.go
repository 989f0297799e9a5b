package model

import "time"

// Category classifies a piece of user feedback.
type Category string

const (
	CategoryBug         Category = "bug"
	CategoryFeature     Category = "feature"
	CategoryImprovement Category = "improvement"
)

// IsValid checks if the category is one of the known values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryBug, CategoryFeature, CategoryImprovement:
		return true
	}
	return false
}

// Label returns the human-readable name shown by the frontend.
func (c Category) Label() string {
	switch c {
	case CategoryBug:
		return "Bug report"
	case CategoryFeature:
		return "Feature request"
	case CategoryImprovement:
		return "Improvement"
	}
	return string(c)
}

// Categories returns every valid feedback category.
func Categories() []Category {
	return []Category{CategoryBug, CategoryFeature, CategoryImprovement}
}

// Feedback represents a user-submitted report or request.
type Feedback struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       Category  `json:"category"`
	AuthorName     string    `json:"author_name"`
	CreatedAt      time.Time `json:"created_at"`
	GitHubIssueURL string    `json:"github_issue_url,omitempty"`
}

// NewFeedback builds a feedback entry. The repository assigns the id.
func NewFeedback(title, description string, category Category, authorName string) *Feedback {
	return &Feedback{
		Title:       title,
		Description: description,
		Category:    category,
		AuthorName:  authorName,
		CreatedAt:   time.Now(),
	}
}

// SetIssueURL records the tracker issue filed for this feedback.
func (f *Feedback) SetIssueURL(url string) {
	f.GitHubIssueURL = url
}
