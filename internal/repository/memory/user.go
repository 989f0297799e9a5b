package memory

import (
	"context"
	"time"

	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
)

// UserRepository stores users in an in-process map.
type UserRepository struct {
	users  map[int64]*model.User
	nextID int64
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int64]*model.User),
		nextID: 1,
	}
}

// Save inserts the user when its id is zero, otherwise updates it.
func (r *UserRepository) Save(ctx context.Context, user *model.User) (*model.User, error) {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now()
		}
	}
	r.users[user.ID] = user
	return user, nil
}

// FindByID returns the user or repository.ErrUserNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

// FindByUsername returns the user with the exact username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// FindAll returns every stored user in unspecified order.
func (r *UserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	result := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, user)
	}
	return result, nil
}

// Delete removes the user and reports whether it existed.
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}
