package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/store"
)

// UserRepository provides typed access to the users collection.
type UserRepository struct {
	col store.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(s store.Store) *UserRepository {
	return &UserRepository{col: s.Collection(store.CollectionUsers)}
}

// List returns every user.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	docs, err := r.col.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		var user models.User
		if err := store.Decode(doc, &user); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", doc.ID, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.col.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := store.Decode(*doc, &user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	return &user, nil
}

// FindByEmail returns a user by email address or store.ErrNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// Create persists a new user, assigning a UUID when no id was supplied.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	doc, err := store.Encode(user.ID, user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if _, err := r.col.Put(ctx, doc); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update shallow-merges the given fields into an existing user.
func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := r.col.Patch(ctx, id, fields); err != nil {
		if err == store.ErrNotFound {
			return err
		}
		return fmt.Errorf("update user %s: %w", id, err)
	}
	return nil
}

// Delete removes a user.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}
