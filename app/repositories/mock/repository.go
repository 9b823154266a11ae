// Package mock provides in-memory repositories for tests.
package mock

import (
	"errors"
	"sync"

	"postviewer/app/models"
	"postviewer/app/repositories"
)

// ErrInjected is returned by a repository whose Err field is set.
var ErrInjected = errors.New("injected repository failure")

type PostRepository struct {
	posts  map[models.ID]*models.Post
	order  []models.ID
	nextID int
	mutex  sync.RWMutex

	// Err, when set, is returned by every call.
	Err error
}

type CommentRepository struct {
	comments map[models.ID][]*models.Comment
	nextID   int
	mutex    sync.RWMutex

	Err error
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[models.ID]*models.Post),
		nextID: 1,
	}
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: make(map[models.ID][]*models.Comment),
		nextID:   1,
	}
}

// PostRepository implementation
func (m *PostRepository) Create(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	post.ID = models.IntID(m.nextID)
	m.nextID++
	post.BeforeCreate()
	m.posts[post.ID] = post
	m.order = append(m.order, post.ID)
	return nil
}

func (m *PostRepository) GetByID(id models.ID) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return post, nil
}

func (m *PostRepository) List(limit, offset int) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	posts := []*models.Post{}
	count := 0
	for _, id := range m.order {
		post, exists := m.posts[id]
		if !exists {
			continue
		}
		if count >= offset && len(posts) < limit {
			posts = append(posts, post)
		}
		count++
	}
	return posts, nil
}

func (m *PostRepository) Delete(id models.ID) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

// CommentRepository implementation
func (m *CommentRepository) Create(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	comment.ID = models.IntID(m.nextID)
	m.nextID++
	comment.BeforeCreate()
	m.comments[comment.PostID] = append(m.comments[comment.PostID], comment)
	return nil
}

func (m *CommentRepository) ListByPost(postID models.ID) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	comments := make([]*models.Comment, len(m.comments[postID]))
	copy(comments, m.comments[postID])
	return comments, nil
}

func (m *CommentRepository) DeleteByPost(postID models.ID) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	delete(m.comments, postID)
	return nil
}

var (
	_ repositories.PostRepository    = (*PostRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
)
