package model

import "time"

// BotConfig holds deployment secrets keyed by config variant.
type BotConfig struct {
	ID     string `gorm:"primaryKey"`
	BotKey string
}

func (BotConfig) TableName() string { return "bot_config" }

// SyncLog records every maintenance run.
type SyncLog struct {
	ID       uint `gorm:"primaryKey"`
	SyncedAt time.Time
	Note     string
}

func (SyncLog) TableName() string { return "sync_log" }
