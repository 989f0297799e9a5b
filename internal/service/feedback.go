package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
)

// Feedback validation errors.
var (
	ErrInvalidCategory       = errors.New("invalid feedback category")
	ErrFeedbackTitleRequired = errors.New("feedback title is required")
	ErrDescriptionRequired   = errors.New("description is required")
)

// IssueCreator files issues in an external tracker for stored feedback.
// Available reports whether the integration passed its startup check.
type IssueCreator interface {
	Available() bool
	CreateIssue(ctx context.Context, fb *model.Feedback) (string, error)
}

// FeedbackService handles feedback submission and the best-effort issue
// side effect.
type FeedbackService struct {
	repo   repository.FeedbackRepository
	issues IssueCreator
	logger *slog.Logger
}

// NewFeedbackService creates a new FeedbackService. issues may be nil
// when no tracker integration is configured.
func NewFeedbackService(repo repository.FeedbackRepository, issues IssueCreator, logger *slog.Logger) *FeedbackService {
	return &FeedbackService{
		repo:   repo,
		issues: issues,
		logger: logger,
	}
}

// CreateFeedback validates and persists new feedback, then attempts to
// file a tracker issue for it. The issue is best effort: its failure
// never fails feedback creation.
func (s *FeedbackService) CreateFeedback(ctx context.Context, title, description string, category model.Category, authorName string) (*model.Feedback, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	fb := model.NewFeedback(title, description, category, authorName)
	if !fb.Category.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if title == "" {
		return nil, ErrFeedbackTitleRequired
	}
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	saved, err := s.repo.Add(ctx, fb)
	if err != nil {
		return nil, err
	}

	s.fileIssue(ctx, saved)
	return saved, nil
}

// fileIssue creates a tracker issue for stored feedback and records the
// resulting URL. Every failure path logs and returns: the stored
// feedback is the primary outcome and is never rolled back.
func (s *FeedbackService) fileIssue(ctx context.Context, fb *model.Feedback) {
	if s.issues == nil || !s.issues.Available() {
		s.logger.Info("issue tracker unavailable, skipping issue creation",
			"feedback_id", fb.ID,
		)
		return
	}

	url, err := s.issues.CreateIssue(ctx, fb)
	if err != nil {
		s.logger.Error("issue creation failed",
			"feedback_id", fb.ID,
			"error", err,
		)
		return
	}

	fb.SetIssueURL(url)
	if err := s.repo.Update(ctx, fb); err != nil {
		s.logger.Error("failed to store issue URL",
			"feedback_id", fb.ID,
			"issue_url", url,
			"error", err,
		)
		return
	}

	s.logger.Info("issue created",
		"feedback_id", fb.ID,
		"issue_url", url,
	)
}

// ListFeedback returns all stored feedback.
func (s *FeedbackService) ListFeedback(ctx context.Context) ([]*model.Feedback, error) {
	return s.repo.GetAll(ctx)
}

// GetFeedback returns the feedback with the given id.
func (s *FeedbackService) GetFeedback(ctx context.Context, id int64) (*model.Feedback, error) {
	return s.repo.GetByID(ctx, id)
}

// DeleteFeedback removes feedback, returning
// repository.ErrFeedbackNotFound when nothing was removed.
func (s *FeedbackService) DeleteFeedback(ctx context.Context, id int64) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return repository.ErrFeedbackNotFound
	}
	return nil
}

// Categories returns every valid feedback category.
func (s *FeedbackService) Categories() []model.Category {
	return model.Categories()
}
