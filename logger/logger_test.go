package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"user_id", "u1", "jwt_token", "abc.def.ghi", "Password", "hunter2", "dangling"})
	assert.Equal(t, []interface{}{"user_id", "u1", "jwt_token", "[REDACTED]", "Password", "[REDACTED]", "dangling"}, out)
}

func TestNopLoggerWith(t *testing.T) {
	l := NewNop().With("service", "test")
	assert.NotNil(t, l.SugaredLogger)
	l.Info("ignored", "k", "v")
}
