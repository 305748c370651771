package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tg-park-bot/internal/model"
)

type SyncLogRepository struct {
	db *gorm.DB
}

func NewSyncLogRepository(db *gorm.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

func (r *SyncLogRepository) Append(ctx context.Context, at time.Time, note string) error {
	entry := model.SyncLog{SyncedAt: at, Note: note}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("append sync log: %w", err)
	}
	return nil
}

// Last returns the most recent entry, or nil if the log is empty.
func (r *SyncLogRepository) Last(ctx context.Context) (*model.SyncLog, error) {
	var entries []model.SyncLog
	if err := r.db.WithContext(ctx).Order("synced_at DESC, id DESC").Limit(1).Find(&entries).Error; err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}
