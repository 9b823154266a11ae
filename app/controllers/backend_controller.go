package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"postviewer/app/models"
	"postviewer/app/repositories"
	"postviewer/app/services"

	"go.uber.org/zap"
)

// BackendController serves the blog API the viewer consumes.
type BackendController struct {
	posts    *services.PostService
	comments *services.CommentService
	logger   *zap.Logger
}

// NewBackendController creates a new BackendController
func NewBackendController(posts *services.PostService, comments *services.CommentService, logger *zap.Logger) *BackendController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackendController{
		posts:    posts,
		comments: comments,
		logger:   logger,
	}
}

// GetSinglePost handles GET /api/getSinglePost?id=
func (bc *BackendController) GetSinglePost(w http.ResponseWriter, r *http.Request) {
	id := models.ID(r.URL.Query().Get("id"))
	if id.IsZero() {
		sendError(w, r, "Missing id", http.StatusBadRequest)
		return
	}

	post, err := bc.posts.GetPost(id)
	if err != nil {
		bc.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// GetComments handles GET /api/getComments?postId=
func (bc *BackendController) GetComments(w http.ResponseWriter, r *http.Request) {
	postID := models.ID(r.URL.Query().Get("postId"))
	if postID.IsZero() {
		sendError(w, r, "Missing postId", http.StatusBadRequest)
		return
	}

	comments, err := bc.comments.ListPostComments(postID)
	if err != nil {
		bc.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, comments)
}

// SetCommentPost handles POST /api/setCommentPost
func (bc *BackendController) SetCommentPost(w http.ResponseWriter, r *http.Request) {
	var req models.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, r, "Invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := bc.comments.CreateComment(req)
	if err != nil {
		bc.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, comment)
}

func (bc *BackendController) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		sendError(w, r, "Post not found", http.StatusNotFound)
	case errors.Is(err, services.ErrInvalid):
		sendError(w, r, err.Error(), http.StatusBadRequest)
	default:
		bc.logger.Error("backend request failed", zap.String("path", r.URL.Path), zap.Error(err))
		sendError(w, r, "Internal server error", http.StatusInternalServerError)
	}
}
