package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tg-park-bot/internal/model"
)

// ComingoutRepository stores location posts and their forwarded copies.
type ComingoutRepository struct {
	db *gorm.DB
}

func NewComingoutRepository(db *gorm.DB) *ComingoutRepository {
	return &ComingoutRepository{db: db}
}

// Create inserts a post unless one with the same source chat and message id
// already exists. It reports whether a row was inserted.
func (r *ComingoutRepository) Create(ctx context.Context, post *model.Comingout) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(post)
	if res.Error != nil {
		return false, fmt.Errorf("create comingout: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Places returns distinct (building, floor) pairs from the user's non-deprecated posts.
func (r *ComingoutRepository) Places(ctx context.Context, userID int64) ([]model.Place, error) {
	var places []model.Place
	if err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT building_num AS building, floor_num AS floor
		FROM comingouts
		WHERE deprecated = ? AND user_id = ?
		ORDER BY building_num, floor_num`,
		false, userID,
	).Scan(&places).Error; err != nil {
		return nil, fmt.Errorf("select places: %w", err)
	}
	return places, nil
}

// Neighbors returns the latest forwarded post of every other active member
// living in the same building on floor-1, floor or floor+1. Rows are ordered
// by floor, then user, then post date.
func (r *ComingoutRepository) Neighbors(ctx context.Context, userID int64, building, floor int) ([]model.NeighborMessage, error) {
	var msgs []model.NeighborMessage
	if err := r.db.WithContext(ctx).Raw(`
		SELECT c.forwarded_chat_id AS chat_id, c.forwarded_msg_id AS msg_id,
			c.building_num AS building, c.floor_num AS floor
		FROM comingouts c
		JOIN known_users k ON k.id = c.user_id AND k.removed_on IS NULL
		WHERE c.deprecated = ?
		  AND c.forwarded_chat_id IS NOT NULL
		  AND c.forwarded_msg_id IS NOT NULL
		  AND c.user_id <> ?
		  AND c.building_num = ?
		  AND c.floor_num IN (?, ?, ?)
		  AND c.id = (
			SELECT MAX(l.id) FROM comingouts l
			WHERE l.user_id = c.user_id
			  AND l.building_num = c.building_num
			  AND l.floor_num = c.floor_num
			  AND l.deprecated = ?
			  AND l.forwarded_chat_id IS NOT NULL
			  AND l.forwarded_msg_id IS NOT NULL)
		ORDER BY c.floor_num, c.user_id, c.msg_date`,
		false, userID, building, floor-1, floor, floor+1, false,
	).Scan(&msgs).Error; err != nil {
		return nil, fmt.Errorf("select neighbors: %w", err)
	}
	return msgs, nil
}

// AttachForward fills the forwarded reference of the oldest post of userID
// whose text equals text and which has no reference yet. The update is a
// single conditional statement, so repeated or concurrent forwards of the
// same post apply at most once.
func (r *ComingoutRepository) AttachForward(ctx context.Context, userID int64, text string, chatID int64, msgID int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE comingouts
		SET forwarded_chat_id = ?, forwarded_msg_id = ?
		WHERE forwarded_chat_id IS NULL
		  AND forwarded_msg_id IS NULL
		  AND id = (
			SELECT id FROM comingouts
			WHERE forwarded_chat_id IS NULL
			  AND forwarded_msg_id IS NULL
			  AND user_id = ?
			  AND msg_text = ?
			ORDER BY id
			LIMIT 1)`,
		chatID, msgID, userID, text,
	)
	if res.Error != nil {
		return false, fmt.Errorf("attach forward: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CountPendingForwards counts live posts still waiting for a forwarded copy.
func (r *ComingoutRepository) CountPendingForwards(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pending(ctx).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// CountPendingByUser counts the user's live posts without a forwarded copy.
func (r *ComingoutRepository) CountPendingByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.pending(ctx).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count pending comingouts: %w", err)
	}
	return n, nil
}

func (r *ComingoutRepository) pending(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Comingout{}).
		Where("deprecated = ? AND (forwarded_chat_id IS NULL OR forwarded_msg_id IS NULL)", false)
}
