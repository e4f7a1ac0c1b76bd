package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/drillbot/internal/database"
)

var envKeys = []string{
	"TELEGRAM_BOT_TOKEN", "DB_TYPE", "DB_PATH", "DATABASE_URL",
	"NOTIFICATION_START_HOUR", "NOTIFICATION_END_HOUR",
	"SESSION_MIN_SAMPLE", "ADMIN_USER_IDS", "ENABLE_SCHEDULER",
}

// clearEnv unsets every key for the test and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, database.TypeSQLite, cfg.DBType)
	assert.Equal(t, "data/drillbot.db", cfg.DBPath)
	assert.Equal(t, 8, cfg.NotificationStartHour)
	assert.Equal(t, 20, cfg.NotificationEndHour)
	assert.Equal(t, 5, cfg.SessionMinSample)
	assert.True(t, cfg.EnableScheduler)
	assert.Empty(t, cfg.AdminUserIDs)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingToken)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", " 123:abc ")
	t.Setenv("DB_TYPE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/drill")
	t.Setenv("NOTIFICATION_START_HOUR", "6")
	t.Setenv("NOTIFICATION_END_HOUR", "22")
	t.Setenv("SESSION_MIN_SAMPLE", "10")
	t.Setenv("ADMIN_USER_IDS", "1, 2,x,")
	t.Setenv("ENABLE_SCHEDULER", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, database.Config{Type: database.TypePostgres, Path: "data/drillbot.db", URL: "postgres://localhost/drill"}, cfg.DatabaseConfig())
	assert.Equal(t, 6, cfg.SchedulerConfig().StartHour)
	assert.Equal(t, 22, cfg.SchedulerConfig().EndHour)
	assert.Equal(t, 10, cfg.SessionMinSample)
	assert.False(t, cfg.EnableScheduler)
	assert.Equal(t, map[int64]bool{1: true, 2: true}, cfg.AdminUserIDs)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTIFICATION_START_HOUR", "25")
	t.Setenv("NOTIFICATION_END_HOUR", "noon")
	t.Setenv("SESSION_MIN_SAMPLE", "0")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.NotificationStartHour)
	assert.Equal(t, 20, cfg.NotificationEndHour)
	assert.Equal(t, 5, cfg.SessionMinSample)

	t.Setenv("NOTIFICATION_START_HOUR", "21")
	t.Setenv("NOTIFICATION_END_HOUR", "9")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.NotificationStartHour)
	assert.Equal(t, 20, cfg.NotificationEndHour)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TELEGRAM_BOT_TOKEN=from-file\nDB_PATH=/tmp/x.db\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.TelegramToken)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}
