package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tg-park-bot/internal/config"
	"tg-park-bot/internal/service"
)

// telegram is the part of *tgbotapi.BotAPI used outside the polling loop.
type telegram interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api            *tgbotapi.BotAPI
	out            telegram
	userSvc        *service.UserService
	neighborSvc    *service.NeighborService
	comingoutSvc   *service.ComingoutService
	maintenanceSvc *service.MaintenanceService
	config         *config.Config
}

func New(token string, userSvc *service.UserService, neighborSvc *service.NeighborService, comingoutSvc *service.ComingoutService, maintenanceSvc *service.MaintenanceService, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:            api,
		out:            api,
		userSvc:        userSvc,
		neighborSvc:    neighborSvc,
		comingoutSvc:   comingoutSvc,
		maintenanceSvc: maintenanceSvc,
		config:         cfg,
	}, nil
}

// Start begins polling updates until ctx is cancelled. Updates are handled
// one at a time in arrival order.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.PollTimeout
	updateConfig.AllowedUpdates = []string{"message"}
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if err := b.handleUpdate(ctx, update); err != nil {
			log.Printf("handle update %d: %v", update.UpdateID, err)
		}
	}

	return ctx.Err()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}

	switch {
	case msg.Chat.IsPrivate():
		return b.handlePrivateMessage(ctx, msg)
	case msg.Chat.IsGroup() || msg.Chat.IsSuperGroup():
		return b.handleGroupMessage(ctx, msg)
	default:
		return nil
	}
}

func (b *Bot) handlePrivateMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s", msg.From.ID, msg.Command())
		if msg.Command() == "start" {
			return b.handleStart(ctx, msg)
		}
		return nil
	}

	if msg.ForwardFrom != nil && msg.Text != "" {
		return b.handleForward(ctx, msg)
	}
	return nil
}

// handleForward back-fills the forwarded reference of a comingout once its
// author forwards it to the bot. The admin chat may forward anyone's post.
func (b *Bot) handleForward(ctx context.Context, msg *tgbotapi.Message) error {
	fromAdmin := b.config.AdminChatID != 0 && msg.Chat.ID == b.config.AdminChatID
	if msg.ForwardFrom.ID != msg.From.ID && !fromAdmin {
		log.Printf("[info] ignore forward of %d's post by %d", msg.ForwardFrom.ID, msg.From.ID)
		return nil
	}
	if _, err := b.comingoutSvc.RecordForward(ctx, msg.ForwardFrom.ID, msg.Chat.ID, msg.MessageID, msg.Text); err != nil {
		return fmt.Errorf("record forward from %d: %w", msg.ForwardFrom.ID, err)
	}
	return nil
}

// handleGroupMessage tracks membership and location posts of the monitored chat.
func (b *Bot) handleGroupMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if b.config.ChatID != 0 && msg.Chat.ID != b.config.ChatID {
		return nil
	}

	at := msg.Time().UTC()
	// Residents who were in the chat before the bot have no join event.
	if msg.From != nil && !msg.From.IsBot && msg.LeftChatMember == nil {
		if err := b.userSvc.Joined(ctx, msg.From.ID, at); err != nil {
			return err
		}
	}

	for _, member := range msg.NewChatMembers {
		if member.IsBot {
			continue
		}
		log.Printf("[info] member joined user=%d chat=%d", member.ID, msg.Chat.ID)
		if err := b.userSvc.Joined(ctx, member.ID, at); err != nil {
			return err
		}
	}

	if left := msg.LeftChatMember; left != nil && !left.IsBot {
		log.Printf("[info] member left user=%d chat=%d", left.ID, msg.Chat.ID)
		if err := b.userSvc.Left(ctx, left.ID, at); err != nil {
			return err
		}
	}

	if msg.From == nil || msg.From.IsBot || msg.ForwardFrom != nil || msg.Text == "" {
		return nil
	}
	_, err := b.comingoutSvc.Capture(ctx, msg.Chat.ID, msg.MessageID, msg.From.ID, msg.Text, at)
	return err
}

// SendMaintenanceReport runs the bookkeeping job and reports to the admin chat.
func (b *Bot) SendMaintenanceReport(ctx context.Context) error {
	report, err := b.maintenanceSvc.Run(ctx, time.Now())
	if err != nil {
		return err
	}
	log.Printf("[info] maintenance members=%d inactive=%d pending=%d", report.ActiveMembers, report.InactiveMembers, report.PendingForwards)

	if b.config.AdminChatID == 0 {
		return nil
	}
	return b.sendText(b.config.AdminChatID, report.Summary())
}

// lookupMember asks Telegram whether userID is in the monitored chat and, if
// so, records the membership starting now.
func (b *Bot) lookupMember(ctx context.Context, userID int64) (bool, error) {
	if b.config.ChatID == 0 {
		return false, nil
	}
	member, err := b.out.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: b.config.ChatID, UserID: userID},
	})
	if err != nil {
		log.Printf("get chat member user=%d chat=%d: %v", userID, b.config.ChatID, err)
		return false, nil
	}
	switch member.Status {
	case "creator", "administrator", "member":
	case "restricted":
		if !member.IsMember {
			return false, nil
		}
	default:
		return false, nil
	}
	log.Printf("[info] member found user=%d chat=%d status=%s", userID, b.config.ChatID, member.Status)
	if err := b.userSvc.Joined(ctx, userID, time.Now().UTC()); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.out.Send(msg)
	return err
}

func (b *Bot) forward(chatID, fromChatID int64, msgID int) (tgbotapi.Message, error) {
	return b.out.Send(tgbotapi.NewForward(chatID, fromChatID, msgID))
}
