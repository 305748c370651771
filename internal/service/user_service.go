package service

import (
	"context"
	"time"

	"tg-park-bot/internal/model"
	"tg-park-bot/internal/repository"
)

// Classification is the trust tier of a user together with their capabilities.
type Classification struct {
	Status   model.UserStatus
	Landlord bool
}

// UserService decides how much a member of the chat may see.
type UserService struct {
	repo    *repository.UserRepository
	timeout time.Duration
	now     func() time.Time
}

func NewUserService(repo *repository.UserRepository, newUserTimeout time.Duration) *UserService {
	return &UserService{repo: repo, timeout: newUserTimeout, now: time.Now}
}

// Classify looks at the latest active membership of userID. Members who joined
// less than the new-user timeout ago are not trusted yet; a membership exactly
// as old as the timeout is.
func (s *UserService) Classify(ctx context.Context, userID int64) (Classification, error) {
	user, err := s.repo.FindActive(ctx, userID)
	if err != nil {
		return Classification{}, err
	}
	if user == nil {
		return Classification{Status: model.Stranger}, nil
	}

	cutoff := s.now().Add(-s.timeout)
	if user.JoinedOn.After(cutoff) {
		return Classification{Status: model.KnownButUntrusted, Landlord: user.IsLandlord}, nil
	}
	return Classification{Status: model.KnownAndTrusted, Landlord: user.IsLandlord}, nil
}

// Joined records a member seen joining the chat.
func (s *UserService) Joined(ctx context.Context, userID int64, at time.Time) error {
	_, err := s.repo.MarkJoined(ctx, userID, at)
	return err
}

// Left records a member seen leaving the chat.
func (s *UserService) Left(ctx context.Context, userID int64, at time.Time) error {
	_, err := s.repo.MarkRemoved(ctx, userID, at)
	return err
}
