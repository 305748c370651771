package bot

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tg-park-bot/internal/config"
	"tg-park-bot/internal/model"
	"tg-park-bot/internal/repository"
	"tg-park-bot/internal/service"
)

// fakeTelegram records outbound calls instead of talking to Telegram.
type fakeTelegram struct {
	sent    []tgbotapi.Chattable
	failAt  int // 1-based call number that fails, 0 never
	nextID  int
	members map[int64]string
	lookups []tgbotapi.GetChatMemberConfig
}

func (f *fakeTelegram) GetChatMember(c tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	f.lookups = append(f.lookups, c)
	status, ok := f.members[c.UserID]
	if !ok {
		return tgbotapi.ChatMember{}, errors.New("Bad Request: user not found")
	}
	return tgbotapi.ChatMember{User: &tgbotapi.User{ID: c.UserID}, Status: status}, nil
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.failAt != 0 && len(f.sent)+1 == f.failAt {
		f.failAt = 0
		return tgbotapi.Message{}, errors.New("telegram is down")
	}
	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeTelegram) texts() []string {
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeTelegram) forwards() []tgbotapi.ForwardConfig {
	var out []tgbotapi.ForwardConfig
	for _, c := range f.sent {
		if fw, ok := c.(tgbotapi.ForwardConfig); ok {
			out = append(out, fw)
		}
	}
	return out
}

type testEnv struct {
	bot  *Bot
	out  *fakeTelegram
	db   *gorm.DB
	conf *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "park.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	cfg := &config.Config{NewUserTimeout: 48 * time.Hour, PollTimeout: 60}
	userRepo := repository.NewUserRepository(db)
	comingoutRepo := repository.NewComingoutRepository(db)
	out := &fakeTelegram{}

	b := &Bot{
		out:            out,
		userSvc:        service.NewUserService(userRepo, cfg.NewUserTimeout),
		neighborSvc:    service.NewNeighborService(comingoutRepo),
		comingoutSvc:   service.NewComingoutService(comingoutRepo),
		maintenanceSvc: service.NewMaintenanceService(userRepo, comingoutRepo, repository.NewSyncLogRepository(db)),
		config:         cfg,
	}
	return &testEnv{bot: b, out: out, db: db, conf: cfg}
}

func (e *testEnv) member(t *testing.T, id int64, joined time.Time, landlord bool) {
	t.Helper()
	require.NoError(t, e.db.Create(&model.KnownUser{ID: id, JoinedOn: joined.UTC(), IsLandlord: landlord}).Error)
}

func (e *testEnv) post(t *testing.T, msgID int, userID int64, building, floor int, forwardedMsgID int) {
	t.Helper()
	post := model.Comingout{
		ChatID:      -100,
		MsgID:       msgID,
		UserID:      userID,
		BuildingNum: building,
		FloorNum:    floor,
		MsgText:     "tag",
		MsgDate:     time.Now().UTC(),
	}
	if forwardedMsgID != 0 {
		chatID, fwd := int64(500), forwardedMsgID
		post.ForwardedChatID, post.ForwardedMsgID = &chatID, &fwd
	}
	require.NoError(t, e.db.Create(&post).Error)
}

func privateChat(id int64) *tgbotapi.Chat {
	return &tgbotapi.Chat{ID: id, Type: "private"}
}

func startMessage(userID int64) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: userID},
		Chat:      privateChat(userID),
		Date:      int(time.Now().Unix()),
		Text:      "/start",
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}
}

var longAgo = time.Now().Add(-30 * 24 * time.Hour)
