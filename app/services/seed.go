package services

import (
	"fmt"
	"io"

	"postviewer/app/models"

	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML layout read by `backend seed`.
//
//	posts:
//	  - title: Hello
//	    nickname: kim
//	    createdAt: 2024-03-05T09:07:00Z
//	    content: |
//	      first line
//	    comments:
//	      - content: nice
type SeedFile struct {
	Posts []SeedPost `yaml:"posts"`
}

// SeedPost is one post of a seed file.
type SeedPost struct {
	Title     string        `yaml:"title"`
	Content   string        `yaml:"content"`
	Nickname  string        `yaml:"nickname"`
	CreatedAt string        `yaml:"createdAt"`
	Comments  []SeedComment `yaml:"comments"`
}

// SeedComment is one comment of a seed post.
type SeedComment struct {
	Nickname  string `yaml:"nickname"`
	Content   string `yaml:"content"`
	CreatedAt string `yaml:"createdAt"`
}

// SeedResult counts what Seed stored.
type SeedResult struct {
	Posts    []models.ID
	Comments int
}

// Seed reads a SeedFile from r and stores its posts and comments in file
// order. It stops at the first invalid entry; entries before it stay stored.
func Seed(r io.Reader, posts *PostService, comments *CommentService) (SeedResult, error) {
	var result SeedResult

	var file SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return result, fmt.Errorf("%w: seed file: %v", ErrInvalid, err)
	}

	for i, sp := range file.Posts {
		created, err := seedTime(sp.CreatedAt)
		if err != nil {
			return result, fmt.Errorf("%w: post %d: %v", ErrInvalid, i, err)
		}
		post := &models.Post{
			Title:     sp.Title,
			Content:   sp.Content,
			Nickname:  sp.Nickname,
			CreatedAt: created,
		}
		if err := posts.CreatePost(post); err != nil {
			return result, fmt.Errorf("post %d: %w", i, err)
		}
		result.Posts = append(result.Posts, post.ID)

		for j, sc := range sp.Comments {
			created, err := seedTime(sc.CreatedAt)
			if err != nil {
				return result, fmt.Errorf("%w: post %d comment %d: %v", ErrInvalid, i, j, err)
			}
			comment := &models.Comment{
				PostID:    post.ID,
				Nickname:  sc.Nickname,
				Content:   sc.Content,
				CreatedAt: created,
			}
			if err := comments.AddComment(comment); err != nil {
				return result, fmt.Errorf("post %d comment %d: %w", i, j, err)
			}
			result.Comments++
		}
	}
	return result, nil
}

// seedTime leaves the timestamp unset for an empty value so that it is
// stamped on creation.
func seedTime(s string) (models.Timestamp, error) {
	if s == "" {
		return models.Timestamp{}, nil
	}
	return models.ParseTimestamp(s)
}
