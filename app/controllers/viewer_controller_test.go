package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"postviewer/app/client"
	"postviewer/app/models"
	"postviewer/app/viewer"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu          sync.Mutex
	posts       map[models.ID]*models.Post
	comments    map[models.ID][]models.Comment
	postErr     error
	commentsErr error
	submitErr   error
	submitted   []models.CommentRequest
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		posts: map[models.ID]*models.Post{
			"7": {
				ID:        "7",
				Title:     "Hello",
				Content:   "line one\nline two",
				Nickname:  "kim",
				CreatedAt: models.NewTimestamp(time.Date(2024, 3, 5, 9, 7, 0, 0, time.UTC)),
			},
		},
		comments: map[models.ID][]models.Comment{
			"7": {
				{ID: "2", Nickname: "b", Content: "later", CreatedAt: models.NewTimestamp(time.Date(2024, 3, 6, 1, 2, 0, 0, time.UTC))},
				{ID: "1", Nickname: "a", Content: "earlier", CreatedAt: models.NewTimestamp(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))},
			},
		},
	}
}

func (f *fakeAPI) GetSinglePost(ctx context.Context, id models.ID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return nil, f.postErr
	}
	post, ok := f.posts[id]
	if !ok {
		return nil, &client.StatusError{Op: "get single post", StatusCode: http.StatusNotFound}
	}
	return post, nil
}

func (f *fakeAPI) GetComments(ctx context.Context, postID models.ID) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commentsErr != nil {
		return nil, f.commentsErr
	}
	return append([]models.Comment{}, f.comments[postID]...), nil
}

func (f *fakeAPI) SetCommentPost(ctx context.Context, req models.CommentRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, req)
	if f.submitErr != nil {
		return f.submitErr
	}
	f.comments[req.PostID] = append(f.comments[req.PostID], models.Comment{Content: req.Content})
	return nil
}

func newTestRouter(api client.API, opts viewer.Options) *mux.Router {
	vc := NewViewerController(api, opts, time.UTC, nil)
	r := mux.NewRouter()
	r.HandleFunc("/writing/{id}", vc.ShowPost).Methods(http.MethodGet)
	r.HandleFunc("/anonymous/{id}", vc.ShowPostWithComments).Methods(http.MethodGet)
	r.HandleFunc("/anonymous/{id}/comments", vc.SubmitComment).Methods(http.MethodPost)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func submitForm(content string) *http.Request {
	form := url.Values{"content": {content}}
	req := httptest.NewRequest(http.MethodPost, "/anonymous/7/comments", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestShowPost(t *testing.T) {
	api := newFakeAPI()
	router := newTestRouter(api, viewer.Options{})

	t.Run("loaded", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/writing/7", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")

		body := rr.Body.String()
		assert.Contains(t, body, "<h1>Writing</h1>")
		assert.Contains(t, body, "Post ID: 7")
		assert.Contains(t, body, "<h2>Hello</h2>")
		assert.Contains(t, body, "line one")
		assert.NotContains(t, body, "Loading...")
	})

	t.Run("failure stays loading", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/writing/404", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Loading...")
		assert.NotContains(t, rr.Body.String(), "<h1>Writing</h1>")
	})

	t.Run("json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/writing/7", nil)
		req.Header.Set("Accept", "application/json")
		rr := serve(router, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var view map[string]interface{}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&view))
		assert.Equal(t, "7", view["id"])
		assert.Equal(t, "loaded", view["state"])
	})

	t.Run("failed state", func(t *testing.T) {
		failing := newTestRouter(api, viewer.Options{FailedState: true})
		rr := serve(failing, httptest.NewRequest(http.MethodGet, "/writing/404", nil))
		assert.NotContains(t, rr.Body.String(), "Loading...")
		assert.Contains(t, rr.Body.String(), `href="/writing/404"`)
	})
}

func TestShowPostWithComments(t *testing.T) {
	t.Run("loaded with comments", func(t *testing.T) {
		router := newTestRouter(newFakeAPI(), viewer.Options{})
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/anonymous/7", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "Title : Hello")
		assert.Contains(t, body, "Author : kim")
		assert.Contains(t, body, "Date : 2024-03-05 09:07")
		assert.Contains(t, body, `action="/anonymous/7/comments"`)
		assert.Contains(t, body, "2024-03-06 01:02")

		later := strings.Index(body, "later")
		earlier := strings.Index(body, "earlier")
		require.True(t, later > 0 && earlier > 0)
		assert.Less(t, later, earlier, "comments keep backend order")
	})

	t.Run("no comments", func(t *testing.T) {
		api := newFakeAPI()
		api.comments = map[models.ID][]models.Comment{}
		rr := serve(newTestRouter(api, viewer.Options{}), httptest.NewRequest(http.MethodGet, "/anonymous/7", nil))
		assert.Contains(t, rr.Body.String(), "no comments")
	})

	t.Run("comment failure still shows post", func(t *testing.T) {
		api := newFakeAPI()
		api.commentsErr = errors.New("boom")
		rr := serve(newTestRouter(api, viewer.Options{}), httptest.NewRequest(http.MethodGet, "/anonymous/7", nil))
		assert.Contains(t, rr.Body.String(), "Title : Hello")
		assert.Contains(t, rr.Body.String(), "no comments")
	})
}

func TestSubmitComment(t *testing.T) {
	t.Run("blank draft alerts without request", func(t *testing.T) {
		api := newFakeAPI()
		rr := serve(newTestRouter(api, viewer.Options{}), submitForm("   "))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "alert(")
		assert.Contains(t, rr.Body.String(), viewer.BlankDraftAlert)
		assert.Empty(t, api.submitted)
	})

	t.Run("success clears draft without refresh", func(t *testing.T) {
		api := newFakeAPI()
		rr := serve(newTestRouter(api, viewer.Options{}), submitForm("brand new"))

		assert.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, api.submitted, 1)
		assert.Equal(t, models.CommentRequest{PostID: "7", Content: "brand new"}, api.submitted[0])

		body := rr.Body.String()
		assert.NotContains(t, body, "brand new")
		assert.NotContains(t, body, "alert(")
	})

	t.Run("failure keeps draft", func(t *testing.T) {
		api := newFakeAPI()
		api.submitErr = &client.StatusError{Op: "set comment post", StatusCode: http.StatusInternalServerError}
		rr := serve(newTestRouter(api, viewer.Options{}), submitForm("keep me"))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "keep me")
	})

	t.Run("post not loaded sends nothing", func(t *testing.T) {
		api := newFakeAPI()
		delete(api.posts, "7")
		rr := serve(newTestRouter(api, viewer.Options{}), submitForm("too early"))

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "Loading...")
		assert.NotContains(t, rr.Body.String(), "alert(")
		assert.Empty(t, api.submitted)
	})

	t.Run("post not loaded json keeps draft", func(t *testing.T) {
		api := newFakeAPI()
		api.postErr = errors.New("connection refused")
		req := httptest.NewRequest(http.MethodPost, "/anonymous/7/comments", strings.NewReader(`{"content":"too early"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		rr := serve(newTestRouter(api, viewer.Options{FailedState: true}), req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		var view viewer.CommentsView
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&view))
		assert.Equal(t, viewer.StateFailed, view.State)
		assert.Equal(t, "too early", view.Draft)
		assert.Empty(t, api.submitted)
	})

	t.Run("json body and response", func(t *testing.T) {
		api := newFakeAPI()
		req := httptest.NewRequest(http.MethodPost, "/anonymous/7/comments", strings.NewReader(`{"content":"via json"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		rr := serve(newTestRouter(api, viewer.Options{}), req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var view viewer.CommentsView
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&view))
		assert.Empty(t, view.Draft)
		assert.Len(t, view.Comments, 2)
	})

	t.Run("json blank", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/anonymous/7/comments", strings.NewReader(`{"content":""}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		rr := serve(newTestRouter(newFakeAPI(), viewer.Options{}), req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), viewer.BlankDraftAlert)
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/anonymous/7/comments", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")
		rr := serve(newTestRouter(newFakeAPI(), viewer.Options{}), req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
