package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const lokiQueueSize = 256

type lokiEntry struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// lokiWriter takes the JSON lines produced by zap and pushes them to Loki
// from a single goroutine. Lines are dropped when the queue is full.
type lokiWriter struct {
	url     string
	service string
	client  *http.Client
	queue   chan string
	done    sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
}

func newLokiWriter(baseURL, service string, client *http.Client) *lokiWriter {
	w := &lokiWriter{
		url:     strings.TrimRight(baseURL, "/") + "/loki/api/v1/push",
		service: service,
		client:  client,
		queue:   make(chan string, lokiQueueSize),
	}

	w.done.Add(1)
	go w.run()

	return w
}

func (w *lokiWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")

	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return len(p), nil
	}

	select {
	case w.queue <- line:
	default:
	}

	return len(p), nil
}

func (w *lokiWriter) Sync() error {
	return nil
}

func (w *lokiWriter) Close() {
	w.mu.Lock()

	if !w.closed {
		w.closed = true
		close(w.queue)
	}

	w.mu.Unlock()
	w.done.Wait()
}

func (w *lokiWriter) run() {
	defer w.done.Done()

	for line := range w.queue {
		w.push(line)
	}
}

func (w *lokiWriter) push(line string) {
	level := "info"

	var fields struct {
		Level string `json:"level"`
	}

	if err := json.Unmarshal([]byte(line), &fields); err == nil && fields.Level != "" {
		level = fields.Level
	}

	body, err := json.Marshal(lokiEntry{
		Streams: []lokiStream{
			{
				Stream: map[string]string{
					"service": w.service,
					"level":   level,
				},
				Values: [][]string{
					{strconv.FormatInt(time.Now().UnixNano(), 10), line},
				},
			},
		},
	})

	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewReader(body))

	if err != nil {
		return
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)

	if err != nil {
		return
	}

	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
}
