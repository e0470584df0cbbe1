package forum

import (
	"context"
	"time"
)

type Forum struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	Content   string    `json:"content"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	ListForums(ctx context.Context) ([]Forum, error)
	// ListPosts returns newest posts first; category nil means all categories.
	ListPosts(ctx context.Context, category *string) ([]Post, error)
	GetPost(ctx context.Context, id int64) (*Post, error)
	CreatePost(ctx context.Context, p *Post) error
	ListComments(ctx context.Context, postID int64) ([]Comment, error)
	CreateComment(ctx context.Context, c *Comment) error
}
