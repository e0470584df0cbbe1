package forum

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUserRequired    = errors.New("authenticated user required")
	ErrTitleRequired   = errors.New("title required")
	ErrContentRequired = errors.New("content required")
	ErrPostNotFound    = errors.New("post not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListForums(ctx context.Context) ([]Forum, error) {
	return s.repo.ListForums(ctx)
}

func (s *Service) ListPosts(ctx context.Context, category *string) ([]Post, error) {
	return s.repo.ListPosts(ctx, category)
}

func (s *Service) GetPost(ctx context.Context, id int64) (*Post, error) {
	return s.repo.GetPost(ctx, id)
}

func (s *Service) CreatePost(ctx context.Context, userID int64, title, content, category string) (*Post, error) {
	if userID == 0 {
		return nil, ErrUserRequired
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}
	if category = strings.TrimSpace(category); category == "" {
		category = "general"
	}

	p := &Post{
		Title:    title,
		Content:  content,
		Category: category,
		UserID:   userID,
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListComments(ctx context.Context, postID int64) ([]Comment, error) {
	return s.repo.ListComments(ctx, postID)
}

func (s *Service) AddComment(ctx context.Context, userID, postID int64, content string) (*Comment, error) {
	if userID == 0 {
		return nil, ErrUserRequired
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}

	// Commenting on a deleted post should 404, not violate a foreign key.
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	c := &Comment{
		PostID:  postID,
		Content: content,
		UserID:  userID,
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
