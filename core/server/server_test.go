package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/core/server"
)

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := server.New(server.Config{})
	require.ErrorIs(t, err, server.ErrMissingAddress)

	srv, err := server.New(server.DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, srv.Addr())
}

func TestRun(t *testing.T) {
	t.Parallel()

	cfg := server.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"

	srv, err := server.New(cfg, server.WithShutdownTimeout(time.Second))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("pong"))
		}))
	}()

	select {
	case <-srv.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + srv.Addr().String() + "/ping")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	require.ErrorIs(t, srv.Run(ctx, http.NotFoundHandler()), server.ErrServerAlreadyRunning)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunListenError(t *testing.T) {
	t.Parallel()

	cfg := server.DefaultConfig()
	cfg.Addr = "invalid-address"

	srv, err := server.New(cfg)
	require.NoError(t, err)
	require.ErrorIs(t, srv.Run(context.Background(), http.NotFoundHandler()), server.ErrListen)
}
