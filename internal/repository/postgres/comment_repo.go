package postgres

import (
	"context"
	"database/sql"

	"fanclub-backend/internal/domain/comment"
)

type CommentRepo struct {
	db *sql.DB
}

func NewCommentRepo(db *sql.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) ListByTarget(ctx context.Context, target string, targetID int64) ([]comment.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, content, target, target_id, user_id, created_at
        FROM comments
        WHERE target = $1 AND target_id = $2
        ORDER BY created_at DESC
    `, target, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []comment.Comment
	for rows.Next() {
		var c comment.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.Target, &c.TargetID, &c.UserID, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *CommentRepo) Create(ctx context.Context, c *comment.Comment) error {
	query := `
        INSERT INTO comments (content, target, target_id, user_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	return r.db.QueryRowContext(ctx, query, c.Content, c.Target, c.TargetID, c.UserID).
		Scan(&c.ID, &c.CreatedAt)
}

func (r *CommentRepo) GetByID(ctx context.Context, id int64) (*comment.Comment, error) {
	c := &comment.Comment{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, content, target, target_id, user_id, created_at
        FROM comments WHERE id = $1
    `, id).Scan(&c.ID, &c.Content, &c.Target, &c.TargetID, &c.UserID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CommentRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}
