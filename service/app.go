package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"postviewer/app/client"
	"postviewer/app/config"
	"postviewer/app/controllers"
	"postviewer/app/repositories"
	"postviewer/app/routes"

	"go.uber.org/zap"
)

const (
	shutdownTimeout = 10 * time.Second
	// Every page load fans out to the same backend host.
	apiIdleConnsPerHost = 32
)

// newAPIClient builds the blog API client shared by the viewer server and show.
func newAPIClient(cfg *config.Config) (*client.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = apiIdleConnsPerHost
	return client.New(cfg.API.BaseURL,
		client.WithHTTPClient(&http.Client{Transport: transport}),
		client.WithTimeout(cfg.API.Timeout),
	)
}

// RunViewerServer serves the post pages until ctx is cancelled.
func RunViewerServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	api, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	vc := controllers.NewViewerController(api, cfg.ViewerOptions(), loc, logger)
	router := routes.SetupViewerRoutes(vc, cfg.Server.StaticDir, logger)

	logger.Info("starting viewer",
		zap.String("addr", cfg.Server.Addr),
		zap.String("api", cfg.API.BaseURL),
		zap.Bool("discard_stale", cfg.Viewer.DiscardStale),
		zap.Bool("failed_state", cfg.Viewer.FailedState),
	)
	return listenAndServe(ctx, cfg.Server.Addr, router, logger)
}

// RunBackendServer serves the blog API from the Badger store until ctx is
// cancelled.
func RunBackendServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := repositories.Open(cfg.Backend.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	router := routes.SetupBackendRoutes(db, logger)

	logger.Info("starting backend", zap.String("addr", cfg.Backend.Addr), zap.String("db", cfg.Backend.DBPath))
	return listenAndServe(ctx, cfg.Backend.Addr, router, logger)
}

func listenAndServe(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return serve(ctx, ln, handler, logger)
}

// serve runs an http.Server on ln and shuts it down gracefully once ctx is done.
func serve(ctx context.Context, ln net.Listener, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.String("addr", ln.Addr().String()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
