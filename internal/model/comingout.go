package model

import "time"

// Comingout is a self-reported location post from the public chat.
// ForwardedChatID/ForwardedMsgID point at the bot's own copy of the post and
// stay nil until the author forwards it to the bot.
type Comingout struct {
	ID              uint   `gorm:"primaryKey"`
	ChatID          int64  `gorm:"uniqueIndex:idx_comingout_source"`
	MsgID           int    `gorm:"uniqueIndex:idx_comingout_source"`
	UserID          int64  `gorm:"index"`
	BuildingNum     int    `gorm:"index:idx_comingout_place"`
	FloorNum        int    `gorm:"index:idx_comingout_place"`
	MsgText         string
	MsgDate         time.Time
	Deprecated      bool `gorm:"default:false"`
	ForwardedChatID *int64
	ForwardedMsgID  *int
}

// Place is a (building, floor) pair claimed by a user.
type Place struct {
	Building int
	Floor    int
}

// NeighborMessage references a forwardable copy of a neighbor's comingout.
type NeighborMessage struct {
	ChatID   int64
	MsgID    int
	Building int
	Floor    int
}
