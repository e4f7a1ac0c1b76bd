package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/example/drillbot/internal/database"
	"github.com/example/drillbot/internal/scheduler"
	"github.com/example/drillbot/internal/session"
)

// Config holds the application settings read from the environment
type Config struct {
	TelegramToken         string
	DBType                string
	DBPath                string
	DatabaseURL           string
	NotificationStartHour int
	NotificationEndHour   int
	SessionMinSample      int
	AdminUserIDs          map[int64]bool
	EnableScheduler       bool
}

// ErrMissingToken is returned by Validate when no bot token is configured
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN environment variable is not set")

// Load reads envFile if it exists, then the environment
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read %s", envFile)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("db_type", database.TypeSQLite)
	v.SetDefault("db_path", "data/drillbot.db")
	v.SetDefault("enable_scheduler", true)

	cfg := &Config{
		TelegramToken:   strings.TrimSpace(v.GetString("telegram_bot_token")),
		DBType:          strings.ToLower(v.GetString("db_type")),
		DBPath:          v.GetString("db_path"),
		DatabaseURL:     v.GetString("database_url"),
		EnableScheduler: v.GetBool("enable_scheduler"),
		AdminUserIDs:    parseAdminIDs(v.GetString("admin_user_ids")),
	}

	cfg.NotificationStartHour = hour(v, "notification_start_hour", scheduler.DefaultNotificationStartHour)
	cfg.NotificationEndHour = hour(v, "notification_end_hour", scheduler.DefaultNotificationEndHour)
	if cfg.NotificationStartHour > cfg.NotificationEndHour {
		log.Printf("Warning: notification window %d-%d is empty, using defaults",
			cfg.NotificationStartHour, cfg.NotificationEndHour)
		cfg.NotificationStartHour = scheduler.DefaultNotificationStartHour
		cfg.NotificationEndHour = scheduler.DefaultNotificationEndHour
	}

	cfg.SessionMinSample = session.DefaultMinSample
	if raw := v.GetString("session_min_sample"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			log.Printf("Warning: invalid SESSION_MIN_SAMPLE %q, using %d", raw, cfg.SessionMinSample)
		} else {
			cfg.SessionMinSample = n
		}
	}

	return cfg, nil
}

// Validate checks the settings needed to run the bot
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return ErrMissingToken
	}
	return nil
}

// DatabaseConfig returns the storage settings
func (c *Config) DatabaseConfig() database.Config {
	return database.Config{Type: c.DBType, Path: c.DBPath, URL: c.DatabaseURL}
}

// SchedulerConfig returns the reminder window
func (c *Config) SchedulerConfig() scheduler.Config {
	return scheduler.Config{StartHour: c.NotificationStartHour, EndHour: c.NotificationEndHour}
}

func hour(v *viper.Viper, key string, fallback int) int {
	raw := v.GetString(key)
	if raw == "" {
		return fallback
	}
	h, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || h < 0 || h > 23 {
		log.Printf("Warning: invalid %s %q, using %d", strings.ToUpper(key), raw, fallback)
		return fallback
	}
	return h
}

func parseAdminIDs(raw string) map[int64]bool {
	ids := make(map[int64]bool)
	if raw == "" {
		return ids
	}
	for _, idStr := range strings.Split(raw, ",") {
		idStr = strings.TrimSpace(idStr)
		if idStr == "" {
			continue
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			log.Printf("Warning: Invalid admin user ID: %s", idStr)
			continue
		}
		ids[id] = true
	}
	return ids
}
