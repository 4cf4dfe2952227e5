package logger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogger_PushesToLoki(t *testing.T) {
	var (
		mu      sync.Mutex
		entries []lokiEntry
		paths   []string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var entry lokiEntry
		_ = json.NewDecoder(r.Body).Decode(&entry)

		mu.Lock()
		entries = append(entries, entry)
		paths = append(paths, r.URL.Path)
		mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	log, err := New(Options{Service: "accountapp", Env: "test", LokiURL: server.URL + "/"})
	require.NoError(t, err)

	log.InfoCtx(context.Background(), "user signed up", zap.Int("user.id", 1))
	require.NoError(t, log.Close())

	mu.Lock()
	defer mu.Unlock()

	require.Len(t, entries, 1)
	assert.Equal(t, "/loki/api/v1/push", paths[0])

	stream := entries[0].Streams[0]
	assert.Equal(t, "accountapp", stream.Stream["service"])
	assert.Equal(t, "info", stream.Stream["level"])
	assert.Contains(t, stream.Values[0][1], "user signed up")
}

func TestNop(t *testing.T) {
	log := Nop()

	log.ErrorCtx(context.Background(), assert.AnError, "ignored")

	assert.NotNil(t, log.Zap())
	assert.NoError(t, log.Close())
}
