package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/config"
	"github.com/ahlemhorchani/smart-interventions/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lokiPushRequest struct {
	Streams []struct {
		Stream map[string]string `json:"stream"`
		Values [][]string        `json:"values"`
	} `json:"streams"`
}

// lokiRecorder collects push bodies / Collecte les corps reçus
type lokiRecorder struct {
	mu     sync.Mutex
	bodies [][]byte
}

func (l *lokiRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/loki/api/v1/push", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		l.mu.Lock()
		l.bodies = append(l.bodies, body)
		l.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (l *lokiRecorder) all() [][]byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([][]byte(nil), l.bodies...)
}

func decodeLines(t *testing.T, body []byte) []map[string]any {
	t.Helper()
	var req lokiPushRequest
	require.NoError(t, json.Unmarshal(body, &req))
	require.Len(t, req.Streams, 1)
	var lines []map[string]any
	for _, v := range req.Streams[0].Values {
		require.Len(t, v, 2)
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(v[1]), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestLokiHandler(t *testing.T) {
	rec := &lokiRecorder{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	labels := map[string]string{"app": "test"}
	handler := logging.NewLokiHandler(server.URL, labels, 1, true, slog.LevelInfo)
	defer handler.Close()

	logger := slog.New(handler).With("intervention_id", "i-1")
	logger.Warn("side effect failed", "target", "equipement", "err", errors.New("store down"))
	logger.Debug("filtered out")

	bodies := rec.all()
	require.Len(t, bodies, 1)

	var req lokiPushRequest
	require.NoError(t, json.Unmarshal(bodies[0], &req))
	assert.Equal(t, labels, req.Streams[0].Stream)

	lines := decodeLines(t, bodies[0])
	require.Len(t, lines, 1)
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.Equal(t, "side effect failed", lines[0]["msg"])
	assert.Equal(t, "equipement", lines[0]["target"])
	assert.Equal(t, "store down", lines[0]["err"])
	assert.Equal(t, "i-1", lines[0]["intervention_id"])
}

func TestLokiHandler_Batching(t *testing.T) {
	rec := &lokiRecorder{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	handler := logging.NewLokiHandler(server.URL, nil, 2, true, slog.LevelInfo)
	defer handler.Close()

	logger := slog.New(handler)
	logger.Info("message 1")
	assert.Empty(t, rec.all(), "first record should stay in the batch")

	logger.WithGroup("svc").Info("message 2", "id", "x")
	bodies := rec.all()
	require.Len(t, bodies, 1)

	lines := decodeLines(t, bodies[0])
	require.Len(t, lines, 2)
	assert.Equal(t, "message 1", lines[0]["msg"])
	assert.Equal(t, "message 2", lines[1]["msg"])
	assert.Equal(t, "x", lines[1]["svc.id"])
}

func TestLokiHandler_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	handler := logging.NewLokiHandler(server.URL, nil, 0, true, slog.LevelInfo,
		logging.WithRetry(2, 5*time.Millisecond, 10*time.Millisecond))

	slog.New(handler).Info("retry me")
	assert.Equal(t, int32(2), calls.Load())
}

func TestLokiHandler_UnreachableDoesNotFail(t *testing.T) {
	handler := logging.NewLokiHandler("http://127.0.0.1:1", nil, 0, true, slog.LevelInfo,
		logging.WithRetry(0, time.Millisecond, time.Millisecond))
	assert.NoError(t, handler.Close())

	rec := slog.NewRecord(time.Now(), slog.LevelError, "lost", 0)
	assert.NoError(t, handler.Handle(t.Context(), rec))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	conf := &config.Config{Logging: config.LoggingConfig{Level: "warn", Format: "json"}}

	logger, closer := logging.NewLogger(conf, &buf)
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "v", line["k"])
}

func TestNewLogger_WithLoki(t *testing.T) {
	rec := &lokiRecorder{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	var buf bytes.Buffer
	conf := &config.Config{Logging: config.LoggingConfig{
		Level:         "info",
		LokiEnabled:   true,
		LokiURL:       server.URL,
		LokiBatchSize: 10,
	}}

	logger, closer := logging.NewLogger(conf, &buf)
	logger.Info("both sinks")
	require.NoError(t, closer.Close())

	assert.Contains(t, buf.String(), "both sinks")
	require.Len(t, rec.all(), 1)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("verbose"))
}
