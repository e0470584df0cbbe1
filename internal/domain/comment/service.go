package comment

import (
	"context"
	"errors"
	"strings"
)

const (
	TargetNews    = "news"
	TargetFixture = "fixture"
)

var (
	ErrUserRequired    = errors.New("authenticated user required")
	ErrContentRequired = errors.New("content required")
	ErrInvalidTarget   = errors.New("target must be news or fixture")
	ErrNotOwner        = errors.New("comment belongs to another user")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, target string, targetID int64) ([]Comment, error) {
	if target != TargetNews && target != TargetFixture {
		return nil, ErrInvalidTarget
	}
	return s.repo.ListByTarget(ctx, target, targetID)
}

func (s *Service) Add(ctx context.Context, userID int64, content, target string, targetID int64) (*Comment, error) {
	if userID == 0 {
		return nil, ErrUserRequired
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}
	if target != TargetNews && target != TargetFixture {
		return nil, ErrInvalidTarget
	}

	c := &Comment{
		Content:  content,
		Target:   target,
		TargetID: targetID,
		UserID:   userID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the comment; only its author may do so.
func (s *Service) Delete(ctx context.Context, userID, commentID int64) error {
	if userID == 0 {
		return ErrUserRequired
	}

	c, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return ErrNotOwner
	}

	return s.repo.Delete(ctx, commentID)
}
