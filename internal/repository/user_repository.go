package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tg-park-bot/internal/model"
)

// UserRepository handles membership records of the monitored chat.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindActive returns the most recently joined membership row that has not been
// removed, or nil when the user is not a member.
func (r *UserRepository) FindActive(ctx context.Context, userID int64) (*model.KnownUser, error) {
	var user model.KnownUser
	err := r.db.WithContext(ctx).
		Where("id = ? AND removed_on IS NULL", userID).
		Order("joined_on DESC").
		First(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find known user: %w", err)
	}
}

// MarkJoined records a user joining the chat. A removed user rejoins with a
// fresh joined_on; an active membership is left as is.
func (r *UserRepository) MarkJoined(ctx context.Context, userID int64, at time.Time) (*model.KnownUser, error) {
	var user model.KnownUser
	db := r.db.WithContext(ctx)
	err := db.Where("id = ?", userID).First(&user).Error
	switch {
	case err == nil:
		if user.RemovedOn == nil {
			return &user, nil
		}
		updates := map[string]interface{}{
			"joined_on":  at,
			"removed_on": nil,
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("rejoin known user: %w", err)
		}
		user.JoinedOn = at
		user.RemovedOn = nil
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.KnownUser{ID: userID, JoinedOn: at}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create known user: %w", err)
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("find known user: %w", err)
	}
}

// MarkRemoved stamps removed_on on the active membership. It reports whether a row changed.
func (r *UserRepository) MarkRemoved(ctx context.Context, userID int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.KnownUser{}).
		Where("id = ? AND removed_on IS NULL", userID).
		Update("removed_on", at)
	if res.Error != nil {
		return false, fmt.Errorf("remove known user: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *UserRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.KnownUser{}).Where("removed_on IS NULL").Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// ListInactive returns active members who never posted a comingout, oldest first.
func (r *UserRepository) ListInactive(ctx context.Context) ([]model.KnownUser, error) {
	var users []model.KnownUser
	if err := r.db.WithContext(ctx).
		Where("removed_on IS NULL AND NOT EXISTS (SELECT 1 FROM comingouts c WHERE c.user_id = known_users.id)").
		Order("joined_on ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
