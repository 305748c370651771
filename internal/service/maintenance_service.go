package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tg-park-bot/internal/repository"
)

// MaintenanceReport summarises the state of the neighbor directory.
type MaintenanceReport struct {
	At              time.Time
	ActiveMembers   int64
	InactiveMembers int
	PendingForwards int64
}

// MaintenanceService runs the periodic bookkeeping job.
type MaintenanceService struct {
	userRepo      *repository.UserRepository
	comingoutRepo *repository.ComingoutRepository
	syncLogRepo   *repository.SyncLogRepository
}

func NewMaintenanceService(userRepo *repository.UserRepository, comingoutRepo *repository.ComingoutRepository, syncLogRepo *repository.SyncLogRepository) *MaintenanceService {
	return &MaintenanceService{userRepo: userRepo, comingoutRepo: comingoutRepo, syncLogRepo: syncLogRepo}
}

// Run collects the report and appends it to sync_log.
func (s *MaintenanceService) Run(ctx context.Context, now time.Time) (MaintenanceReport, error) {
	report := MaintenanceReport{At: now}

	active, err := s.userRepo.CountActive(ctx)
	if err != nil {
		return report, fmt.Errorf("count members: %w", err)
	}
	report.ActiveMembers = active

	inactive, err := s.userRepo.ListInactive(ctx)
	if err != nil {
		return report, fmt.Errorf("list inactive members: %w", err)
	}
	report.InactiveMembers = len(inactive)

	pending, err := s.comingoutRepo.CountPendingForwards(ctx)
	if err != nil {
		return report, fmt.Errorf("count pending forwards: %w", err)
	}
	report.PendingForwards = pending

	note := fmt.Sprintf("members=%d inactive=%d pending=%d", report.ActiveMembers, report.InactiveMembers, report.PendingForwards)
	if err := s.syncLogRepo.Append(ctx, now, note); err != nil {
		return report, err
	}
	return report, nil
}

// Summary renders the report for the admin chat.
func (r MaintenanceReport) Summary() string {
	var builder strings.Builder
	builder.WriteString("🏢 <b>Сводка по соседям</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", r.At.Format("02.01.2006 15:04")))
	builder.WriteString(fmt.Sprintf("👥 Участников чата: %d\n", r.ActiveMembers))
	builder.WriteString(fmt.Sprintf("🤐 Не указали этаж: %d\n", r.InactiveMembers))
	builder.WriteString(fmt.Sprintf("📨 Ждут пересылки боту: %d", r.PendingForwards))
	return builder.String()
}
