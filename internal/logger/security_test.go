package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capturingLogger() (*SecurityLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	return NewSecurityLoggerWithHandler(handler), &buf
}

func TestNewSecurityLogger(t *testing.T) {
	logger := NewSecurityLogger()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.logger)
}

func TestSecurityLogger_AuthFailure_JSONFormat(t *testing.T) {
	logger, buf := capturingLogger()

	logger.AuthFailure("192.168.1.1", "/api/messages", "invalid_key")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "auth_failure", logEntry["event_type"])
	assert.Equal(t, "192.168.1.1", logEntry["ip"])
	assert.Equal(t, "/api/messages", logEntry["path"])
	assert.Equal(t, "invalid_key", logEntry["reason"])
	assert.Contains(t, logEntry, "timestamp")
}

func TestSecurityLogger_RateLimitExceeded_JSONFormat(t *testing.T) {
	logger, buf := capturingLogger()

	logger.RateLimitExceeded("192.168.1.1", "/send")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "rate_limit", logEntry["event_type"])
	assert.Equal(t, "192.168.1.1", logEntry["ip"])
	assert.Equal(t, "/send", logEntry["path"])
}

func TestSecurityLogger_SubmissionThrottled_JSONFormat(t *testing.T) {
	logger, buf := capturingLogger()

	logger.SubmissionThrottled("192.168.1.1", 45*time.Minute)

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "submission_throttle", logEntry["event_type"])
	assert.Equal(t, "192.168.1.1", logEntry["ip"])
	assert.Contains(t, logEntry, "retry_after")
}

func TestSecurityLogger_InvalidOrigin(t *testing.T) {
	logger, buf := capturingLogger()

	logger.InvalidOrigin("192.168.1.1", "http://malicious.com")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "invalid_origin", logEntry["event_type"])
	assert.Equal(t, "http://malicious.com", logEntry["origin"])
}
