package service

import (
	"context"
	"sort"

	"tg-park-bot/internal/model"
	"tg-park-bot/internal/repository"
)

// NeighborService resolves where users live and who lives next to them.
type NeighborService struct {
	repo *repository.ComingoutRepository
}

func NewNeighborService(repo *repository.ComingoutRepository) *NeighborService {
	return &NeighborService{repo: repo}
}

func (s *NeighborService) Locations(ctx context.Context, userID int64) ([]model.Place, error) {
	return s.repo.Places(ctx, userID)
}

// HasPendingPost reports whether some of the user's posts still wait for the
// forwarded copy that makes them visible to neighbors.
func (s *NeighborService) HasPendingPost(ctx context.Context, userID int64) (bool, error) {
	n, err := s.repo.CountPendingByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Neighbors returns forwardable posts of neighbors across all given places.
// A single place yields the repository order unchanged; several places are
// merged, deduplicated and ordered by building and floor while keeping the
// per-floor order.
func (s *NeighborService) Neighbors(ctx context.Context, userID int64, places []model.Place) ([]model.NeighborMessage, error) {
	if len(places) == 1 {
		return s.repo.Neighbors(ctx, userID, places[0].Building, places[0].Floor)
	}

	type key struct {
		chatID int64
		msgID  int
	}
	seen := make(map[key]bool)
	var merged []model.NeighborMessage
	for _, place := range places {
		msgs, err := s.repo.Neighbors(ctx, userID, place.Building, place.Floor)
		if err != nil {
			return nil, err
		}
		for _, m := range msgs {
			k := key{m.ChatID, m.MsgID}
			if seen[k] {
				continue
			}
			seen[k] = true
			merged = append(merged, m)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Building != merged[j].Building {
			return merged[i].Building < merged[j].Building
		}
		return merged[i].Floor < merged[j].Floor
	})
	return merged, nil
}

// CanSearchNeighbors is the gate between location report and neighbor lookup.
// Regular members need exactly one known place; landlords may have several.
func CanSearchNeighbors(places int, landlord bool) bool {
	if landlord {
		return places > 0
	}
	return places == 1
}
