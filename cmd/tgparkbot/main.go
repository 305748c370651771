package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tg-park-bot/internal/bot"
	"tg-park-bot/internal/config"
	"tg-park-bot/internal/repository"
	"tg-park-bot/internal/service"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load(os.Args)
	if errors.Is(err, config.ErrUsage) {
		fmt.Fprintln(os.Stderr, config.Usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("[info] started version %q with %q as DB and %q config", version, cfg.DatabasePath, cfg.Variant)

	db, err := repository.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	token, err := repository.NewConfigRepository(db).BotKey(ctx, cfg.Variant)
	if err != nil {
		log.Fatalf("bot config: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	comingoutRepo := repository.NewComingoutRepository(db)
	syncLogRepo := repository.NewSyncLogRepository(db)

	userSvc := service.NewUserService(userRepo, cfg.NewUserTimeout)
	neighborSvc := service.NewNeighborService(comingoutRepo)
	comingoutSvc := service.NewComingoutService(comingoutRepo)
	maintenanceSvc := service.NewMaintenanceService(userRepo, comingoutRepo, syncLogRepo)

	telegramBot, err := bot.New(token, userSvc, neighborSvc, comingoutSvc, maintenanceSvc, &cfg)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.Schedule(cfg.MaintenanceAt, cfg.MaintenanceInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendMaintenanceReport(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("maintenance: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule maintenance: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Park bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
