package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tg-park-bot/internal/model"
	"tg-park-bot/internal/service"
)

type greetingOutcome int

const (
	// outcomeDone means a gate stopped the greeting after its last message.
	outcomeDone greetingOutcome = iota
	// outcomeForwarded means every neighbor message was forwarded.
	outcomeForwarded
)

func (o greetingOutcome) String() string {
	if o == outcomeForwarded {
		return "forwarded"
	}
	return "done"
}

// greeting is the state of one /start run.
type greeting struct {
	userID    int64
	chatID    int64
	class     service.Classification
	places    []model.Place
	pending   bool
	neighbors []model.NeighborMessage
	last      tgbotapi.Message
}

// greetingStep runs an action and then stops the run if stopIf holds.
type greetingStep struct {
	name   string
	run    func(ctx context.Context, g *greeting) error
	stopIf func(g *greeting) bool
}

func (b *Bot) greetingSteps() []greetingStep {
	return []greetingStep{
		{
			name:   "greet",
			run:    b.greet,
			stopIf: func(g *greeting) bool { return g.class.Status != model.KnownAndTrusted },
		},
		{
			name:   "locations",
			run:    b.reportLocations,
			stopIf: func(g *greeting) bool { return !service.CanSearchNeighbors(len(g.places), g.class.Landlord) },
		},
		{
			name:   "neighbors",
			run:    b.reportNeighbors,
			stopIf: func(g *greeting) bool { return len(g.neighbors) == 0 },
		},
		{
			name: "forward",
			run:  b.forwardNeighbors,
		},
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	outcome, last, err := b.runGreeting(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("/start user=%d chat=%d: %v", msg.From.ID, msg.Chat.ID, err)
		return b.sendText(msg.Chat.ID, fatalText)
	}
	log.Printf("[info] /start user=%d outcome=%s last_forward=%d", msg.From.ID, outcome, last.MessageID)
	return nil
}

// runGreeting evaluates the greeting steps in order and returns the last
// forwarded message when the run gets that far. Messages already sent stay
// sent when a later step fails.
func (b *Bot) runGreeting(ctx context.Context, userID, chatID int64) (greetingOutcome, tgbotapi.Message, error) {
	g := &greeting{userID: userID, chatID: chatID}
	for _, step := range b.greetingSteps() {
		if err := step.run(ctx, g); err != nil {
			return outcomeDone, g.last, fmt.Errorf("%s: %w", step.name, err)
		}
		if step.stopIf != nil && step.stopIf(g) {
			return outcomeDone, g.last, nil
		}
	}
	return outcomeForwarded, g.last, nil
}

func (b *Bot) greet(ctx context.Context, g *greeting) error {
	class, err := b.userSvc.Classify(ctx, g.userID)
	if err != nil {
		return err
	}
	if class.Status == model.Stranger {
		found, err := b.lookupMember(ctx, g.userID)
		if err != nil {
			return err
		}
		if found {
			if class, err = b.userSvc.Classify(ctx, g.userID); err != nil {
				return err
			}
		}
	}
	g.class = class
	log.Printf("[info] /start user=%d status=%s landlord=%t", g.userID, class.Status, class.Landlord)
	return b.sendText(g.chatID, composeGreeting(class.Status, b.config.NewUserTimeout))
}

func (b *Bot) reportLocations(ctx context.Context, g *greeting) error {
	places, err := b.neighborSvc.Locations(ctx, g.userID)
	if err != nil {
		return err
	}
	g.places = places
	if len(places) > 0 {
		if g.pending, err = b.neighborSvc.HasPendingPost(ctx, g.userID); err != nil {
			return err
		}
	}
	return b.sendText(g.chatID, composePlaces(places, g.class.Landlord, g.pending))
}

func (b *Bot) reportNeighbors(ctx context.Context, g *greeting) error {
	neighbors, err := b.neighborSvc.Neighbors(ctx, g.userID, g.places)
	if err != nil {
		return err
	}
	g.neighbors = neighbors
	return b.sendText(g.chatID, composeNeighbors(len(neighbors)))
}

func (b *Bot) forwardNeighbors(_ context.Context, g *greeting) error {
	for _, n := range g.neighbors {
		sent, err := b.forward(g.chatID, n.ChatID, n.MsgID)
		if err != nil {
			return fmt.Errorf("forward %d/%d: %w", n.ChatID, n.MsgID, err)
		}
		g.last = sent
	}
	return nil
}
