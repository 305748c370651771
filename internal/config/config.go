package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrUsage is returned when the command line does not carry exactly two arguments.
var ErrUsage = errors.New("invalid argument count")

// Usage is printed when Load returns ErrUsage.
const Usage = "Usage: tg-park-bot <path to database> <config variant>"

// Config keeps runtime settings for the bot.
type Config struct {
	DatabasePath        string
	Variant             string
	NewUserTimeout      time.Duration
	ChatID              int64
	AdminChatID         int64
	MaintenanceInterval time.Duration
	MaintenanceAt       string
	PollTimeout         int
}

// Load reads positional arguments (program name included) and environment
// overrides with sane defaults. The bot token lives in the database and is
// resolved separately by config variant.
func Load(args []string) (Config, error) {
	if len(args) != 3 {
		return Config{}, ErrUsage
	}

	cfg := Config{
		DatabasePath:        strings.TrimSpace(args[1]),
		Variant:             strings.TrimSpace(args[2]),
		MaintenanceInterval: parseInterval(strings.TrimSpace(os.Getenv("MAINTENANCE_INTERVAL_HOURS"))),
		MaintenanceAt:       strings.TrimSpace(os.Getenv("MAINTENANCE_AT")),
		PollTimeout:         60,
		NewUserTimeout:      48 * time.Hour,
	}

	if cfg.DatabasePath == "" || cfg.Variant == "" {
		return cfg, ErrUsage
	}

	if cfg.MaintenanceInterval == 0 {
		cfg.MaintenanceInterval = 6 * time.Hour
	}

	if raw := strings.TrimSpace(os.Getenv("NEW_USER_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout < 0 {
			return cfg, fmt.Errorf("invalid NEW_USER_TIMEOUT %q", raw)
		}
		cfg.NewUserTimeout = timeout
	}

	var err error
	if cfg.ChatID, err = parseChatID("CHAT_ID"); err != nil {
		return cfg, err
	}
	if cfg.AdminChatID, err = parseChatID("ADMIN_CHAT_ID"); err != nil {
		return cfg, err
	}

	if raw := strings.TrimSpace(os.Getenv("POLL_TIMEOUT_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return cfg, fmt.Errorf("invalid POLL_TIMEOUT_SECONDS %q", raw)
		}
		cfg.PollTimeout = seconds
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parseChatID(key string) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return id, nil
}
