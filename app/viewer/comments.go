package viewer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"postviewer/app/client"
	"postviewer/app/models"

	"go.uber.org/zap"
)

// BlankDraftAlert is the text of the blocking prompt for an empty comment.
const BlankDraftAlert = "Please enter a comment."

var (
	// ErrBlankDraft is returned by SubmitComment for a blank draft. No
	// request is sent; the caller shows BlankDraftAlert.
	ErrBlankDraft = errors.New("comment draft is blank")
	// ErrNoIdentifier is returned by SubmitComment before any identifier
	// has been resolved.
	ErrNoIdentifier = errors.New("no post identifier resolved")
	// ErrPostNotLoaded is returned by SubmitComment while the post is not
	// shown; the comment form only exists in the loaded state.
	ErrPostNotLoaded = errors.New("post is not loaded")
)

// CommentsView is a snapshot of a PostWithCommentsViewer.
type CommentsView struct {
	PostView
	Comments []models.Comment `json:"comments"`
	Draft    string           `json:"draft"`
}

// PostWithCommentsViewer fetches a post together with its comments and
// submits new comments. A successful submission clears the draft but does
// not refresh the comment list; the new comment shows up on the next
// navigation.
type PostWithCommentsViewer struct {
	*PostViewer
}

// NewPostWithCommentsViewer creates a viewer that also handles comments.
func NewPostWithCommentsViewer(api client.API, logger *zap.Logger, opts Options) *PostWithCommentsViewer {
	return &PostWithCommentsViewer{PostViewer: newPostViewer(api, logger, opts, true)}
}

// Comments returns the fetched comments in backend order.
func (v *PostWithCommentsViewer) Comments() []models.Comment {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.commentsLocked()
}

func (v *PostWithCommentsViewer) commentsLocked() []models.Comment {
	out := make([]models.Comment, len(v.comments))
	copy(out, v.comments)
	return out
}

// SetDraft replaces the draft text.
func (v *PostWithCommentsViewer) SetDraft(text string) {
	v.mu.Lock()
	v.draft = text
	v.mu.Unlock()
}

// Draft returns the draft text.
func (v *PostWithCommentsViewer) Draft() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft
}

// View returns a snapshot of the viewer including comments and draft.
func (v *PostWithCommentsViewer) View() CommentsView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return CommentsView{
		PostView: v.viewLocked(),
		Comments: v.commentsLocked(),
		Draft:    v.draft,
	}
}

// SubmitComment sends the draft as a comment on the current post. The draft
// is cleared only when the backend accepts it.
func (v *PostWithCommentsViewer) SubmitComment(ctx context.Context) error {
	v.mu.Lock()
	draft := v.draft
	id := v.id
	state := v.stateLocked()
	v.mu.Unlock()

	if strings.TrimSpace(draft) == "" {
		return ErrBlankDraft
	}
	if id.IsZero() {
		return ErrNoIdentifier
	}
	if state != StateLoaded {
		return ErrPostNotLoaded
	}

	req := models.CommentRequest{PostID: id, Content: draft}
	if err := v.api.SetCommentPost(ctx, req); err != nil {
		v.logger.Error("failed to submit comment", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("submit comment: %w", err)
	}

	v.mu.Lock()
	v.draft = ""
	v.mu.Unlock()
	return nil
}
