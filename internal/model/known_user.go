package model

import "time"

// KnownUser is a membership record of the monitored chat. Rows are never deleted.
type KnownUser struct {
	ID         int64 `gorm:"primaryKey;autoIncrement:false"`
	JoinedOn   time.Time
	RemovedOn  *time.Time
	IsLandlord bool `gorm:"default:false"`
}

// UserStatus is the trust tier of a user.
type UserStatus int

const (
	Stranger UserStatus = iota
	KnownButUntrusted
	KnownAndTrusted
)

func (s UserStatus) String() string {
	switch s {
	case KnownButUntrusted:
		return "known-untrusted"
	case KnownAndTrusted:
		return "known-trusted"
	default:
		return "stranger"
	}
}
