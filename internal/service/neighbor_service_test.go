package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-park-bot/internal/model"
	"tg-park-bot/internal/repository"
)

func TestCanSearchNeighbors(t *testing.T) {
	assert.False(t, CanSearchNeighbors(0, false))
	assert.True(t, CanSearchNeighbors(1, false))
	assert.False(t, CanSearchNeighbors(2, false))
	assert.False(t, CanSearchNeighbors(0, true))
	assert.True(t, CanSearchNeighbors(1, true))
	assert.True(t, CanSearchNeighbors(3, true))
}

func TestNeighborsAcrossLandlordPlaces(t *testing.T) {
	db := newTestDB(t)
	svc := NewNeighborService(repository.NewComingoutRepository(db))
	joined := time.Now().UTC().Add(-30 * 24 * time.Hour)
	for id := int64(1); id <= 4; id++ {
		seedMember(t, db, model.KnownUser{ID: id, JoinedOn: joined})
	}

	// Landlord 1 owns flats on floors 2 and 8 of building 1.
	seedForwardedPost(t, db, 1, 1, 1, 2)
	seedForwardedPost(t, db, 2, 1, 1, 8)
	seedForwardedPost(t, db, 3, 2, 1, 9)
	seedForwardedPost(t, db, 4, 3, 1, 3)
	seedForwardedPost(t, db, 5, 4, 1, 5)

	ctx := context.Background()
	places, err := svc.Locations(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []model.Place{{Building: 1, Floor: 2}, {Building: 1, Floor: 8}}, places)

	msgs, err := svc.Neighbors(ctx, 1, places)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, 4, msgs[0].MsgID)
	assert.Equal(t, 3, msgs[1].MsgID)
}

func TestNeighborsMergeDropsDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewNeighborService(repository.NewComingoutRepository(db))
	joined := time.Now().UTC().Add(-30 * 24 * time.Hour)
	seedMember(t, db, model.KnownUser{ID: 1, JoinedOn: joined})
	seedMember(t, db, model.KnownUser{ID: 2, JoinedOn: joined})

	// Floor 5 is adjacent to both 4 and 6.
	seedForwardedPost(t, db, 1, 2, 1, 5)

	msgs, err := svc.Neighbors(context.Background(), 1, []model.Place{{Building: 1, Floor: 4}, {Building: 1, Floor: 6}})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, 1, msgs[0].MsgID)
}

func TestNeighborsGroupedByBuilding(t *testing.T) {
	db := newTestDB(t)
	svc := NewNeighborService(repository.NewComingoutRepository(db))
	joined := time.Now().UTC().Add(-30 * 24 * time.Hour)
	for id := int64(1); id <= 5; id++ {
		seedMember(t, db, model.KnownUser{ID: id, JoinedOn: joined, IsLandlord: id == 1})
	}

	seedForwardedPost(t, db, 1, 2, 2, 2)
	seedForwardedPost(t, db, 2, 3, 2, 4)
	seedForwardedPost(t, db, 3, 4, 1, 7)
	seedForwardedPost(t, db, 4, 5, 1, 9)

	msgs, err := svc.Neighbors(context.Background(), 1, []model.Place{{Building: 2, Floor: 3}, {Building: 1, Floor: 8}})
	require.NoError(t, err)

	type spot struct{ building, floor int }
	var got []spot
	for _, m := range msgs {
		got = append(got, spot{m.Building, m.Floor})
	}
	assert.Equal(t, []spot{{1, 7}, {1, 9}, {2, 2}, {2, 4}}, got)
}
