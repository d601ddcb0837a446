package service

import (
	"errors"

	"github.com/talentloop/talentloop/internal/apperr"
	"github.com/talentloop/talentloop/internal/model"
	"github.com/talentloop/talentloop/internal/repository"
)

// IdentityResolver supplies authenticated identities. The workflow engine
// consumes it; account management lives elsewhere.
type IdentityResolver interface {
	Resolve(userID string) (*model.User, error)
}

type IdentityService struct {
	users repository.UserRepository
}

func NewIdentityService(users repository.UserRepository) *IdentityService {
	return &IdentityService{users: users}
}

func (s *IdentityService) Resolve(userID string) (*model.User, error) {
	user, err := s.users.ByID(userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.Newf(apperr.KindNotFound, "user %s not found", userID)
	}
	if err != nil {
		return nil, apperr.Internal("user lookup failed", err)
	}
	return user, nil
}
