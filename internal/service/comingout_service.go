package service

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"time"

	"tg-park-bot/internal/model"
	"tg-park-bot/internal/repository"
)

var (
	buildingTag = regexp.MustCompile(`(?i)#(\d+)\s*корпус`)
	floorTag    = regexp.MustCompile(`(?i)#(\d+)\s*этаж`)
)

// ParsePlace extracts the place from a "#3корпус #11этаж" style message.
// The first tag of each kind wins; both are required.
func ParsePlace(text string) (model.Place, bool) {
	b := buildingTag.FindStringSubmatch(text)
	f := floorTag.FindStringSubmatch(text)
	if b == nil || f == nil {
		return model.Place{}, false
	}
	building, err := strconv.Atoi(b[1])
	if err != nil {
		return model.Place{}, false
	}
	floor, err := strconv.Atoi(f[1])
	if err != nil {
		return model.Place{}, false
	}
	return model.Place{Building: building, Floor: floor}, true
}

// ComingoutService records location posts and their forwarded copies.
type ComingoutService struct {
	repo *repository.ComingoutRepository
}

func NewComingoutService(repo *repository.ComingoutRepository) *ComingoutService {
	return &ComingoutService{repo: repo}
}

// Capture stores a tagged message from the public chat. Untagged messages and
// already captured ones are ignored.
func (s *ComingoutService) Capture(ctx context.Context, chatID int64, msgID int, userID int64, text string, date time.Time) (bool, error) {
	place, ok := ParsePlace(text)
	if !ok {
		return false, nil
	}
	post := model.Comingout{
		ChatID:      chatID,
		MsgID:       msgID,
		UserID:      userID,
		BuildingNum: place.Building,
		FloorNum:    place.Floor,
		MsgText:     text,
		MsgDate:     date.UTC(),
	}
	created, err := s.repo.Create(ctx, &post)
	if err != nil {
		return false, err
	}
	if created {
		log.Printf("[info] comingout msg=%d user=%d building=%d floor=%d", msgID, userID, place.Building, place.Floor)
	}
	return created, nil
}

// RecordForward attaches the bot's copy (chatID, msgID) of a post authored by
// userID with the given text. Only posts without a copy are touched, so a
// repeated forward changes nothing.
func (s *ComingoutService) RecordForward(ctx context.Context, userID, chatID int64, msgID int, text string) (bool, error) {
	updated, err := s.repo.AttachForward(ctx, userID, text, chatID, msgID)
	if err != nil {
		return false, err
	}
	if updated {
		log.Printf("[info] update forwarded msg %d from %d", msgID, userID)
	}
	return updated, nil
}
