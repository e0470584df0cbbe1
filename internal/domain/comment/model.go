package comment

import (
	"context"
	"time"
)

// Comment is a fan comment pinned to a news article or a fixture.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Target    string    `json:"target"`
	TargetID  int64     `json:"target_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	// ListByTarget returns newest comments first for one target item.
	ListByTarget(ctx context.Context, target string, targetID int64) ([]Comment, error)
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id int64) (*Comment, error)
	Delete(ctx context.Context, id int64) error
}
