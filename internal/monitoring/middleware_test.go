package monitoring

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/emotion-detector/internal/errors"
)

func setupRouter(metrics *Metrics, logger *Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(MonitoringMiddleware(metrics, logger))
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(errors.RequestIDKey))
	})
	r.GET("/bad", func(c *gin.Context) {
		c.Status(http.StatusBadRequest)
	})
	r.GET("/fail", func(c *gin.Context) {
		c.Status(http.StatusBadGateway)
	})
	return r
}

func TestRequestIDMiddleware_Generates(t *testing.T) {
	r := setupRouter(NewMetrics(), NewNopLogger())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ok", nil)
	r.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-ID")
	_, err := uuid.Parse(requestID)
	require.NoError(t, err)
	assert.Equal(t, requestID, w.Body.String())
}

func TestRequestIDMiddleware_Propagates(t *testing.T) {
	r := setupRouter(NewMetrics(), NewNopLogger())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ok", nil)
	req.Header.Set("X-Request-ID", "caller-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "caller-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "caller-123", w.Body.String())
}

func TestMonitoringMiddleware_RecordsRequests(t *testing.T) {
	metrics := NewMetrics()
	r := setupRouter(metrics, NewNopLogger())

	for _, path := range []string{"/ok", "/ok", "/bad", "/fail"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		r.ServeHTTP(w, req)
	}

	assert.Equal(t, int64(4), metrics.RequestCount)
	assert.Equal(t, int64(2), metrics.ErrorCount)
	assert.Equal(t, map[int]int64{200: 2, 400: 1, 502: 1}, metrics.GetStatusCodeDistribution())
	assert.Len(t, metrics.ResponseTimes, 4)
}

func TestMonitoringMiddleware_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	r := setupRouter(NewMetrics(), NewLogger(&buf, slog.LevelInfo))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ok", nil)
	req.Header.Set("X-Request-ID", "log-me")
	r.ServeHTTP(w, req)

	line := strings.SplitN(buf.String(), "\n", 2)[0]
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))

	assert.Equal(t, "HTTP Request", entry["msg"])
	assert.Equal(t, "log-me", entry["request_id"])
	assert.Equal(t, "/ok", entry["path"])
	assert.Equal(t, float64(200), entry["status_code"])
}

func TestNewLogger_TimestampKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	require.Contains(t, entry, "timestamp")
	assert.NotContains(t, entry, "time")
	_, err := time.Parse(time.RFC3339, entry["timestamp"].(string))
	assert.NoError(t, err)
}

func TestAnalysisLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)
	joy := "joy"

	logger.AnalysisLogger(42, "analyzed", &joy, 120*time.Millisecond)
	logger.AnalysisLogger(0, "skipped", nil, 0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, float64(42), first["text_length"])
	assert.Equal(t, "joy", first["dominant_emotion"])
	assert.Equal(t, float64(120), first["duration_ms"])
	assert.Equal(t, "none", second["dominant_emotion"])
	assert.NotContains(t, buf.String(), "text\":")
}

func TestNewDevLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDevLogger(&buf, slog.LevelDebug)

	logger.Debug("dev message", "key", "value")

	assert.Contains(t, buf.String(), "dev message")
	assert.Contains(t, buf.String(), "key")
}
