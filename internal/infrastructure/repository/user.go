package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/museumaceh/baservice/internal/domain"
	"github.com/museumaceh/baservice/internal/infrastructure/database"
	"github.com/museumaceh/baservice/internal/infrastructure/database/models"
)

type UserRepository struct {
	store *database.Store
}

func NewUserRepository(store *database.Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var m models.User
	if err := r.store.FindByID(ctx, &m, id); err != nil {
		return nil, err
	}
	u := userToDomain(m)
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m models.User
	if err := r.store.FindOne(ctx, &m, map[string]any{"username": username}); err != nil {
		return nil, err
	}
	u := userToDomain(m)
	return &u, nil
}

// Create stores a new account. Password must already be hashed by the caller.
func (r *UserRepository) Create(ctx context.Context, name, username, hashedPassword, role string) (*domain.User, error) {
	m := models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Username: username,
		Password: hashedPassword,
		Role:     role,
	}
	if err := r.store.Insert(ctx, &m); err != nil {
		return nil, err
	}
	u := userToDomain(m)
	return &u, nil
}

// UsernameTaken reports whether the username is already registered. Advisory
// only; the unique index is authoritative.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return r.store.Exists(ctx, &models.User{}, "username", username, "")
}

func userToDomain(m models.User) domain.User {
	return domain.User{
		ID:        m.ID,
		Name:      m.Name,
		Username:  m.Username,
		Password:  m.Password,
		Role:      m.Role,
		CreatedAt: m.CDate,
	}
}
