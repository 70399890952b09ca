package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/store"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

// fakeUserRepo is an in-memory userRepository shared by the service tests.
type fakeUserRepo struct {
	users   []models.User
	listErr error
}

func (f *fakeUserRepo) List(context.Context) ([]models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	for i := range f.users {
		if f.users[i].ID == id {
			if name, ok := fields["name"].(string); ok {
				f.users[i].Name = name
			}
			if class, ok := fields["class"].(string); ok {
				f.users[i].Class = class
			}
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return nil
}

func TestUserServiceCreate(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(repo, nil, nil)

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Name:  "Asha Verma",
		Email: "asha@example.com",
		Role:  models.RoleStudent,
		Class: "CS-A",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Empty(t, user.Password)
	assert.Len(t, repo.users, 1)
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{users: []models.User{
		{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: models.RoleStudent},
	}}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:  "Asha Again",
		Email: "asha@example.com",
		Role:  models.RoleStudent,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateEmail.Status, appErr.Status)
	assert.Equal(t, appErrors.ErrDuplicateEmail.Code, appErr.Code)
}

func TestUserServiceCreateInvalidRole(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:  "Asha",
		Email: "asha@example.com",
		Role:  models.Role("janitor"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestUserServiceListStripsPasswords(t *testing.T) {
	repo := &fakeUserRepo{users: []models.User{
		{ID: "u1", Name: "Asha", Email: "asha@example.com", Password: "legacy-secret"},
	}}
	svc := NewUserService(repo, nil, nil)

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].Password)
}

func TestUserServiceGetNotFound(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, nil, nil)

	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestUserServiceUpdate(t *testing.T) {
	repo := &fakeUserRepo{users: []models.User{
		{ID: "u1", Name: "Asha", Email: "asha@example.com", Class: "CS-A"},
	}}
	svc := NewUserService(repo, nil, nil)

	class := "CS-B"
	user, err := svc.Update(context.Background(), "u1", UpdateUserRequest{Class: &class})
	require.NoError(t, err)
	assert.Equal(t, "CS-B", user.Class)
}
