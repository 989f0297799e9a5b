package memory

import (
	"context"

	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
)

// FeedbackRepository stores feedback in an in-process map.
type FeedbackRepository struct {
	entries map[int64]*model.Feedback
	nextID  int64
}

// NewFeedbackRepository creates an empty FeedbackRepository.
func NewFeedbackRepository() *FeedbackRepository {
	return &FeedbackRepository{
		entries: make(map[int64]*model.Feedback),
		nextID:  1,
	}
}

// Add assigns the next id and stores the feedback.
func (r *FeedbackRepository) Add(ctx context.Context, fb *model.Feedback) (*model.Feedback, error) {
	fb.ID = r.nextID
	r.nextID++
	r.entries[fb.ID] = fb
	return fb, nil
}

// GetByID returns the feedback or repository.ErrFeedbackNotFound.
func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*model.Feedback, error) {
	fb, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrFeedbackNotFound
	}
	return fb, nil
}

// GetAll returns every stored feedback entry in unspecified order.
func (r *FeedbackRepository) GetAll(ctx context.Context) ([]*model.Feedback, error) {
	result := make([]*model.Feedback, 0, len(r.entries))
	for _, fb := range r.entries {
		result = append(result, fb)
	}
	return result, nil
}

// Update replaces the stored feedback; absent ids are a no-op.
func (r *FeedbackRepository) Update(ctx context.Context, fb *model.Feedback) error {
	if _, ok := r.entries[fb.ID]; ok {
		r.entries[fb.ID] = fb
	}
	return nil
}

// Delete removes the feedback and reports whether it existed.
func (r *FeedbackRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := r.entries[id]; !ok {
		return false, nil
	}
	delete(r.entries, id)
	return true, nil
}
