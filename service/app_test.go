package service

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"postviewer/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, ln, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "ok")
		}), zap.NewNop())
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestListenAndServeBadAddr(t *testing.T) {
	err := listenAndServe(context.Background(), "not-an-addr", http.NotFoundHandler(), zap.NewNop())
	assert.Error(t, err)
}

func TestRunViewerServerRejectsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.API.BaseURL = "localhost:8081"
	assert.Error(t, RunViewerServer(context.Background(), cfg, zap.NewNop()))

	cfg = config.Default()
	cfg.Viewer.Timezone = "Nowhere/Special"
	assert.Error(t, RunViewerServer(context.Background(), cfg, zap.NewNop()))
}

func TestNewAPIClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/getSinglePost", r.URL.Path)
		io.WriteString(w, `{"id":5,"title":"Over the wire"}`)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL
	cfg.API.Timeout = 2 * time.Second

	api, err := newAPIClient(cfg)
	require.NoError(t, err)

	post, err := api.GetSinglePost(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, "Over the wire", post.Title)
}

func TestRunBackendServerUsesConfiguredPath(t *testing.T) {
	cfg := config.Default()
	cfg.Backend.Addr = "127.0.0.1:0"
	cfg.Backend.DBPath = filepath.Join(t.TempDir(), "badger")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, RunBackendServer(ctx, cfg, zap.NewNop()))
	assert.DirExists(t, cfg.Backend.DBPath)
}
