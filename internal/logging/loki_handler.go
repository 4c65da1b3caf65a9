package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const lokiPushPath = "/loki/api/v1/push"

// LokiHandler is a slog.Handler that batches records and pushes them to Loki.
// Children created by WithAttrs/WithGroup share the parent's batch and client.
type LokiHandler struct {
	sink   *lokiSink
	attrs  []slog.Attr
	group  string
	level  slog.Level
	active bool
}

// lokiSink owns the batch and the HTTP client shared by a handler tree
type lokiSink struct {
	client     *resty.Client
	labels     map[string]string
	mu         sync.Mutex
	batch      []lokiEntry
	batchSize  int
	flushTimer *time.Timer
	interval   time.Duration
}

type lokiEntry struct {
	timestamp time.Time
	line      string
}

type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// LokiOption tunes the push client / Ajuste le client de push
type LokiOption func(*resty.Client)

// WithRetry overrides retry count and wait bounds / Remplace le nombre d'essais et les délais
func WithRetry(count int, wait, maxWait time.Duration) LokiOption {
	return func(c *resty.Client) {
		c.SetRetryCount(count).SetRetryWaitTime(wait).SetRetryMaxWaitTime(maxWait)
	}
}

// NewLokiHandler creates a handler pushing to url (e.g. "http://localhost:3100").
// batchSize 0 sends each record immediately, otherwise records are flushed when the
// batch is full and every 5 seconds.
func NewLokiHandler(url string, labels map[string]string, batchSize int, enabled bool, level slog.Level, opts ...LokiOption) *LokiHandler {
	if labels == nil {
		labels = make(map[string]string)
	}

	client := resty.New().
		SetBaseURL(url).
		SetTimeout(5*time.Second).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	for _, opt := range opts {
		opt(client)
	}

	sink := &lokiSink{
		client:    client,
		labels:    labels,
		batch:     make([]lokiEntry, 0, batchSize),
		batchSize: batchSize,
		interval:  5 * time.Second,
	}
	if batchSize > 0 && enabled {
		sink.flushTimer = time.AfterFunc(sink.interval, sink.periodicFlush)
	}

	return &LokiHandler{sink: sink, level: level, active: enabled}
}

// Enabled reports whether the handler handles records at the given level.
func (h *LokiHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.active && level >= h.level
}

// Handle encodes the record as one JSON line / Encode l'enregistrement en une ligne JSON
func (h *LokiHandler) Handle(_ context.Context, r slog.Record) error {
	if !h.active {
		return nil
	}

	line := map[string]any{
		"time":  r.Time.Format(time.RFC3339Nano),
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, a := range h.attrs {
		line[h.key(a.Key)] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		v := a.Value.Resolve().Any()
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		line[h.key(a.Key)] = v
		return true
	})

	raw, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("failed to marshal log to JSON: %w", err)
	}

	if h.sink.add(lokiEntry{timestamp: r.Time, line: string(raw)}) {
		return h.sink.flush()
	}
	return nil
}

// WithAttrs returns a child carrying attrs on every record.
func (h *LokiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	child := *h
	child.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &child
}

// WithGroup returns a child prefixing keys with name.
func (h *LokiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	child := *h
	child.group = h.key(name)
	return &child
}

func (h *LokiHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

// Close flushes remaining records and stops the timer / Vide le lot et arrête le minuteur
func (h *LokiHandler) Close() error {
	if h.sink.flushTimer != nil {
		h.sink.flushTimer.Stop()
	}
	return h.sink.flush()
}

// add queues an entry and reports whether a flush is due
func (s *lokiSink) add(e lokiEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = append(s.batch, e)
	return s.batchSize == 0 || len(s.batch) >= s.batchSize
}

func (s *lokiSink) flush() error {
	s.mu.Lock()
	if len(s.batch) == 0 {
		s.mu.Unlock()
		return nil
	}
	entries := make([]lokiEntry, len(s.batch))
	copy(entries, s.batch)
	s.batch = s.batch[:0]
	s.mu.Unlock()

	values := make([][]string, len(entries))
	for i, e := range entries {
		// Loki expects [timestamp_in_nanoseconds, log_line]
		values[i] = []string{strconv.FormatInt(e.timestamp.UnixNano(), 10), e.line}
	}

	// Loki being down must not fail the application, push errors are dropped
	_, _ = s.client.R().
		SetBody(lokiPushRequest{Streams: []lokiStream{{Stream: s.labels, Values: values}}}).
		Post(lokiPushPath)
	return nil
}

func (s *lokiSink) periodicFlush() {
	_ = s.flush()
	if s.flushTimer != nil {
		s.flushTimer.Reset(s.interval)
	}
}
