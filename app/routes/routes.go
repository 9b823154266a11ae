// Package routes wires controllers and middleware into gorilla/mux routers.
package routes

import (
	"net/http"

	"postviewer/app/controllers"
	"postviewer/app/middleware"
	"postviewer/app/repositories"
	"postviewer/app/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func newRouter(logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))

	router.HandleFunc("/healthz", controllers.Health).Methods(http.MethodGet)
	return router
}

// SetupViewerRoutes returns the router of the viewer frontend. staticDir may
// be empty to serve no static files.
func SetupViewerRoutes(vc *controllers.ViewerController, staticDir string, logger *zap.Logger) *mux.Router {
	router := newRouter(logger)

	if staticDir != "" {
		router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}

	router.HandleFunc("/writing/{id}", vc.ShowPost).Methods(http.MethodGet)
	router.HandleFunc("/anonymous/{id}", vc.ShowPostWithComments).Methods(http.MethodGet)
	router.HandleFunc("/anonymous/{id}/comments", vc.SubmitComment).Methods(http.MethodPost)

	return router
}

// SetupBackendRoutes returns the router of the blog API, backed by db.
func SetupBackendRoutes(db *badger.DB, logger *zap.Logger) *mux.Router {
	router := newRouter(logger)

	postRepo := repositories.NewBadgerPostRepository(db)
	commentRepo := repositories.NewBadgerCommentRepository(db)
	bc := controllers.NewBackendController(
		services.NewPostService(postRepo, commentRepo),
		services.NewCommentService(commentRepo, postRepo),
		logger,
	)

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	api.HandleFunc("/getSinglePost", bc.GetSinglePost).Methods(http.MethodGet)
	api.HandleFunc("/getComments", bc.GetComments).Methods(http.MethodGet)
	api.HandleFunc("/setCommentPost", bc.SetCommentPost).Methods(http.MethodPost)

	return router
}
