package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"runcoach/internal/client"
)

func TestIntArg(t *testing.T) {
	args := []string{"3", "abc", "0"}
	assert.Equal(t, 3, intArg(args, 0, 1))
	assert.Equal(t, 10, intArg(args, 1, 10))
	assert.Equal(t, 10, intArg(args, 2, 10))
	assert.Equal(t, 7, intArg(args, 5, 7))
}

func TestRun(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/api/history/export", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("PK-data"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := client.NewClient(srv.URL, time.Second, 0, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, run(ctx, c, "health", nil))

	out := filepath.Join(t.TempDir(), "history.xlsx")
	require.NoError(t, run(ctx, c, "export-history", []string{out}))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "PK-data", string(data))

	assert.Error(t, run(ctx, c, "analysis", nil))
	assert.Error(t, run(ctx, c, "bogus", nil))
}
