package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-github/v62/github"

	"github.com/shelfmark/shelfmark/internal/model"
)

// GitHubService files GitHub issues for user feedback. The integration
// is optional: without a token, or when the startup connectivity check
// fails, Available reports false and feedback creation proceeds without
// issues.
type GitHubService struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubService builds an authenticated client and performs a
// connectivity check. repoSlug is "owner/name". A nil client inside the
// returned service means the integration is disabled.
func NewGitHubService(ctx context.Context, token, repoSlug string, logger *slog.Logger) *GitHubService {
	s := &GitHubService{}

	if token == "" {
		logger.Warn("GITHUB_TOKEN not set, issue creation disabled")
		return s
	}

	owner, repo, ok := strings.Cut(repoSlug, "/")
	if !ok || owner == "" || repo == "" {
		logger.Warn("invalid GITHUB_REPO slug, issue creation disabled",
			"github_repo", repoSlug,
		)
		return s
	}

	client := github.NewClient(nil).WithAuthToken(token)
	if _, _, err := client.Users.Get(ctx, ""); err != nil {
		logger.Error("GitHub connectivity check failed, issue creation disabled",
			"error", err,
		)
		return s
	}

	s.client = client
	s.owner = owner
	s.repo = repo
	logger.Info("GitHub integration enabled", "github_repo", repoSlug)
	return s
}

// Available reports whether the integration passed its startup check.
func (s *GitHubService) Available() bool {
	return s.client != nil
}

// CreateIssue files an issue for the feedback and returns its HTML URL.
func (s *GitHubService) CreateIssue(ctx context.Context, fb *model.Feedback) (string, error) {
	if s.client == nil {
		return "", errors.New("github client not configured")
	}

	labels := []string{"feedback"}
	switch fb.Category {
	case model.CategoryBug:
		labels = append(labels, "bug")
	case model.CategoryFeature, model.CategoryImprovement:
		labels = append(labels, "enhancement")
	}

	body := fmt.Sprintf(`## Feedback

**Category**: %s

**Details**:
%s

---
*Filed automatically from user feedback*
*Submitted by %s at %s*
`, fb.Category.Label(), fb.Description, fb.AuthorName, fb.CreatedAt.Format("2006-01-02 15:04:05"))

	req := &github.IssueRequest{
		Title:  github.String("[Feedback] " + fb.Title),
		Body:   github.String(body),
		Labels: &labels,
	}

	issue, _, err := s.client.Issues.Create(ctx, s.owner, s.repo, req)
	if err != nil {
		return "", fmt.Errorf("failed to create issue: %w", err)
	}
	return issue.GetHTMLURL(), nil
}
