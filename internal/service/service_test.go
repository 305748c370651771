package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tg-park-bot/internal/model"
	"tg-park-bot/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "park.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func seedMember(t *testing.T, db *gorm.DB, user model.KnownUser) {
	t.Helper()
	require.NoError(t, db.Create(&user).Error)
}

func seedForwardedPost(t *testing.T, db *gorm.DB, msgID int, userID int64, building, floor int) {
	t.Helper()
	chatID, fwdID := int64(500), msgID
	require.NoError(t, db.Create(&model.Comingout{
		ChatID:          -100,
		MsgID:           msgID,
		UserID:          userID,
		BuildingNum:     building,
		FloorNum:        floor,
		MsgText:         "tag",
		MsgDate:         time.Now().UTC(),
		ForwardedChatID: &chatID,
		ForwardedMsgID:  &fwdID,
	}).Error)
}
