package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SUBMISSION_RETENTION_DAYS", "")

	cfg := FromEnv()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 7, cfg.SubmissionRetentionDays)
	assert.Equal(t, "0 3 * * *", cfg.SubmissionPruneCron)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("REDIS_DB", "3")

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("JWT_TTL_HOURS", "forever")
	assert.Equal(t, 24, getEnvInt("JWT_TTL_HOURS", 24))
}
