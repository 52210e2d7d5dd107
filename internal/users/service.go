package users

import (
	"context"
	"fmt"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/repo"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	"github.com/google/uuid"
)

// Service serves profile reads for authenticated users.
type Service interface {
	Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
}

type profileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	repo profileRepository
}

func NewService(r profileRepository) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{repo: r}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, repo.MapNotFound(err, "user")
	}
	return FromModel(user), nil
}
