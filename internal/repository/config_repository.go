package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tg-park-bot/internal/model"
)

// ErrConfigNotFound is returned when bot_config has no row for a variant.
var ErrConfigNotFound = errors.New("no configuration found")

// ConfigRepository reads deployment secrets.
type ConfigRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// BotKey returns the bot token stored for the given config variant.
func (r *ConfigRepository) BotKey(ctx context.Context, variant string) (string, error) {
	var cfg model.BotConfig
	err := r.db.WithContext(ctx).Where("id = ?", variant).First(&cfg).Error
	switch {
	case err == nil:
		return cfg.BotKey, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", fmt.Errorf("%w: %s", ErrConfigNotFound, variant)
	default:
		return "", fmt.Errorf("find bot config: %w", err)
	}
}
