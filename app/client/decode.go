package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"postviewer/app/models"
)

// decodePost checks shape only. Content limits are the backend's concern.
func decodePost(body []byte) (*models.Post, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: post must be a JSON object", ErrMalformedResponse)
	}

	var post models.Post
	if err := json.Unmarshal(trimmed, &post); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &post, nil
}

func decodeComments(body []byte) ([]models.Comment, error) {
	trimmed := bytes.TrimSpace(body)
	if bytes.Equal(trimmed, []byte("null")) {
		return []models.Comment{}, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: comments must be a JSON array", ErrMalformedResponse)
	}

	var comments []models.Comment
	if err := json.Unmarshal(trimmed, &comments); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}
