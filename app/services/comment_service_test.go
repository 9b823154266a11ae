package services

import (
	"strings"
	"testing"

	"postviewer/app/models"
	"postviewer/app/repositories"
	"postviewer/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService(t *testing.T) {
	postRepo := mock.NewPostRepository()
	commentRepo := mock.NewCommentRepository()
	service := NewCommentService(commentRepo, postRepo)

	post := &models.Post{Title: "Test Post", Content: "Test Content"}
	require.NoError(t, postRepo.Create(post))

	t.Run("create comment", func(t *testing.T) {
		comment, err := service.CreateComment(models.CommentRequest{PostID: post.ID, Content: "first"})
		require.NoError(t, err)
		assert.Equal(t, models.ID("1"), comment.ID)
		assert.Equal(t, post.ID, comment.PostID)
		assert.Equal(t, models.AnonymousNickname, comment.Nickname)
		assert.False(t, comment.CreatedAt.IsZero())
	})

	t.Run("reject invalid request", func(t *testing.T) {
		tests := []struct {
			name string
			req  models.CommentRequest
		}{
			{"blank content", models.CommentRequest{PostID: post.ID, Content: "  \n"}},
			{"missing post id", models.CommentRequest{Content: "x"}},
			{"content too long", models.CommentRequest{PostID: post.ID, Content: strings.Repeat("c", 1001)}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := service.CreateComment(tt.req)
				assert.ErrorIs(t, err, ErrInvalid)
			})
		}
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := service.CreateComment(models.CommentRequest{PostID: "999", Content: "x"})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("list keeps order", func(t *testing.T) {
		_, err := service.CreateComment(models.CommentRequest{PostID: post.ID, Content: "second"})
		require.NoError(t, err)

		comments, err := service.ListPostComments(post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "first", comments[0].Content)
		assert.Equal(t, "second", comments[1].Content)
	})

	t.Run("list for unknown post", func(t *testing.T) {
		_, err := service.ListPostComments("999")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("add comment keeps nickname", func(t *testing.T) {
		comment := &models.Comment{PostID: post.ID, Nickname: "lee", Content: "signed"}
		require.NoError(t, service.AddComment(comment))
		assert.Equal(t, "lee", comment.Nickname)

		assert.ErrorIs(t, service.AddComment(&models.Comment{PostID: post.ID}), ErrInvalid)
	})
}
