// Package viewer holds the view state behind the post pages: which post
// identifier is current, what has been fetched for it, and the comment draft.
//
// A viewer is owned by one page instance. Navigate runs the fetch effect in
// the background; Wait blocks until every effect started so far has settled.
package viewer

import (
	"context"
	"sync"

	"postviewer/app/client"
	"postviewer/app/models"

	"go.uber.org/zap"
)

// Options selects between the plain loading/loaded behaviour and the
// stricter variants.
type Options struct {
	// DiscardStale drops responses issued for an identifier that is no
	// longer current. When false the last response to arrive wins.
	DiscardStale bool
	// FailedState turns a failed post fetch into StateFailed instead of
	// leaving the page in StateLoading.
	FailedState bool
}

// PostView is a snapshot of a PostViewer.
type PostView struct {
	ID    models.ID    `json:"id"`
	State State        `json:"state"`
	Post  *models.Post `json:"post,omitempty"`
}

// PostViewer fetches and holds a single post.
type PostViewer struct {
	api          client.API
	logger       *zap.Logger
	opts         Options
	withComments bool

	mu         sync.Mutex
	id         models.ID
	generation uint64
	post       *models.Post
	failed     bool
	comments   []models.Comment
	draft      string

	inflight sync.WaitGroup
}

// NewPostViewer creates a viewer that fetches posts only.
func NewPostViewer(api client.API, logger *zap.Logger, opts Options) *PostViewer {
	return newPostViewer(api, logger, opts, false)
}

func newPostViewer(api client.API, logger *zap.Logger, opts Options, withComments bool) *PostViewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostViewer{
		api:          api,
		logger:       logger,
		opts:         opts,
		withComments: withComments,
		comments:     []models.Comment{},
	}
}

// Navigate makes id the current identifier and starts the fetch effect for
// it. An empty id starts nothing; navigating to the current id again is a
// no-op. Fetches still running for a previous id are not cancelled.
func (v *PostViewer) Navigate(ctx context.Context, id models.ID) {
	if id.IsZero() {
		return
	}

	v.mu.Lock()
	if id == v.id {
		v.mu.Unlock()
		return
	}
	v.id = id
	v.generation++
	gen := v.generation
	v.failed = false
	if v.opts.DiscardStale {
		v.post = nil
		v.comments = []models.Comment{}
	}
	v.mu.Unlock()

	v.runEffect(ctx, id, gen)
}

// Retry re-runs the fetch effect for the current identifier.
func (v *PostViewer) Retry(ctx context.Context) {
	v.mu.Lock()
	id := v.id
	if id.IsZero() {
		v.mu.Unlock()
		return
	}
	v.generation++
	gen := v.generation
	v.failed = false
	v.mu.Unlock()

	v.runEffect(ctx, id, gen)
}

// Wait blocks until all fetches started so far have finished or ctx is done.
func (v *PostViewer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		v.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ID returns the current identifier.
func (v *PostViewer) ID() models.ID {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.id
}

// State returns the current render state.
func (v *PostViewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

func (v *PostViewer) stateLocked() State {
	switch {
	case v.failed:
		return StateFailed
	case v.post != nil:
		return StateLoaded
	default:
		return StateLoading
	}
}

// View returns a snapshot of the viewer.
func (v *PostViewer) View() PostView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewLocked()
}

func (v *PostViewer) viewLocked() PostView {
	view := PostView{
		ID:    v.id,
		State: v.stateLocked(),
	}
	if v.post != nil {
		post := *v.post
		view.Post = &post
	}
	return view
}

func (v *PostViewer) runEffect(ctx context.Context, id models.ID, gen uint64) {
	v.inflight.Add(1)
	go func() {
		defer v.inflight.Done()
		v.fetchPost(ctx, id, gen)
	}()

	if v.withComments {
		v.inflight.Add(1)
		go func() {
			defer v.inflight.Done()
			v.fetchComments(ctx, id, gen)
		}()
	}
}

// stale reports whether a result for gen must be dropped. Callers hold mu.
func (v *PostViewer) stale(gen uint64) bool {
	return v.opts.DiscardStale && gen != v.generation
}

func (v *PostViewer) fetchPost(ctx context.Context, id models.ID, gen uint64) {
	post, err := v.api.GetSinglePost(ctx, id)

	v.mu.Lock()
	if v.stale(gen) {
		v.mu.Unlock()
		v.logger.Debug("discarding stale post response", zap.String("id", id.String()))
		return
	}
	if err != nil {
		if v.opts.FailedState {
			v.failed = true
		}
		v.mu.Unlock()
		if client.IsNotFound(err) {
			v.logger.Warn("post not found", zap.String("id", id.String()), zap.Error(err))
		} else {
			v.logger.Error("failed to load post", zap.String("id", id.String()), zap.Error(err))
		}
		return
	}
	v.post = post
	v.failed = false
	v.mu.Unlock()
}

func (v *PostViewer) fetchComments(ctx context.Context, id models.ID, gen uint64) {
	comments, err := v.api.GetComments(ctx, id)

	v.mu.Lock()
	if v.stale(gen) {
		v.mu.Unlock()
		v.logger.Debug("discarding stale comments response", zap.String("id", id.String()))
		return
	}
	if err != nil {
		v.mu.Unlock()
		v.logger.Error("Failed to load comments", zap.String("id", id.String()), zap.Error(err))
		return
	}
	v.comments = comments
	v.mu.Unlock()
}
