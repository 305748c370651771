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

func TestMaintenanceRun(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	comingoutRepo := repository.NewComingoutRepository(db)
	syncLogRepo := repository.NewSyncLogRepository(db)
	svc := NewMaintenanceService(userRepo, comingoutRepo, syncLogRepo)

	joined := time.Now().UTC().Add(-72 * time.Hour)
	seedMember(t, db, model.KnownUser{ID: 1, JoinedOn: joined})
	seedMember(t, db, model.KnownUser{ID: 2, JoinedOn: joined})
	seedForwardedPost(t, db, 1, 1, 1, 1)
	_, err := NewComingoutService(comingoutRepo).Capture(context.Background(), -100, 2, 1, "#1корпус #1этаж", time.Now())
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 4, 0, 0, 0, time.UTC)
	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.ActiveMembers)
	assert.Equal(t, 1, report.InactiveMembers)
	assert.Equal(t, int64(1), report.PendingForwards)

	last, err := syncLogRepo.Last(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "members=2 inactive=1 pending=1", last.Note)

	summary := report.Summary()
	assert.Contains(t, summary, "01.06.2024 04:00")
	assert.Contains(t, summary, "Участников чата: 2")
	assert.Contains(t, summary, "Ждут пересылки боту: 1")
}
