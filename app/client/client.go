package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"postviewer/app/models"
)

const (
	singlePostPath  = "/api/getSinglePost"
	commentsPath    = "/api/getComments"
	setCommentPath  = "/api/setCommentPost"
	maxResponseSize = 4 << 20
)

// API is the subset of the blog backend the viewers depend on.
type API interface {
	GetSinglePost(ctx context.Context, id models.ID) (*models.Post, error)
	GetComments(ctx context.Context, postID models.ID) ([]models.Comment, error)
	SetCommentPost(ctx context.Context, req models.CommentRequest) error
}

// Client talks to the blog API over HTTP.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero means none. The http.Client
// in use is copied first, so one passed to WithHTTPClient is left as is.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetSinglePost fetches one post by identifier.
func (c *Client) GetSinglePost(ctx context.Context, id models.ID) (*models.Post, error) {
	const op = "get single post"

	body, err := c.do(ctx, op, http.MethodGet, singlePostPath, url.Values{"id": {id.String()}}, nil)
	if err != nil {
		return nil, err
	}

	post, err := decodePost(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return post, nil
}

// GetComments fetches the comment list of a post in backend order.
func (c *Client) GetComments(ctx context.Context, postID models.ID) ([]models.Comment, error) {
	const op = "get comments"

	body, err := c.do(ctx, op, http.MethodGet, commentsPath, url.Values{"postId": {postID.String()}}, nil)
	if err != nil {
		return nil, err
	}

	comments, err := decodeComments(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return comments, nil
}

// SetCommentPost submits a new comment. The response body is ignored.
func (c *Client) SetCommentPost(ctx context.Context, req models.CommentRequest) error {
	const op = "set comment post"

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%s: encode payload: %w", op, err)
	}

	_, err = c.do(ctx, op, http.MethodPost, setCommentPath, nil, payload)
	return err
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload []byte) ([]byte, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	return body, nil
}
