package postgres

import (
	"context"
	"database/sql"

	"fanclub-backend/internal/domain/forum"
)

type ForumRepo struct {
	db *sql.DB
}

func NewForumRepo(db *sql.DB) *ForumRepo {
	return &ForumRepo{db: db}
}

func (r *ForumRepo) ListForums(ctx context.Context) ([]forum.Forum, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, description, created_at
        FROM forums
        ORDER BY created_at ASC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []forum.Forum
	for rows.Next() {
		var f forum.Forum
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, f)
	}
	return res, rows.Err()
}

func (r *ForumRepo) ListPosts(ctx context.Context, category *string) ([]forum.Post, error) {
	query := `
        SELECT id, title, content, category, user_id, created_at, updated_at
        FROM forum_posts
    `
	var rows *sql.Rows
	var err error

	if category != nil {
		query += " WHERE category = $1 ORDER BY created_at DESC"
		rows, err = r.db.QueryContext(ctx, query, *category)
	} else {
		query += " ORDER BY created_at DESC"
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []forum.Post
	for rows.Next() {
		var p forum.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Category, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *ForumRepo) GetPost(ctx context.Context, id int64) (*forum.Post, error) {
	p := &forum.Post{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, title, content, category, user_id, created_at, updated_at
        FROM forum_posts WHERE id = $1
    `, id).Scan(&p.ID, &p.Title, &p.Content, &p.Category, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ForumRepo) CreatePost(ctx context.Context, p *forum.Post) error {
	query := `
        INSERT INTO forum_posts (title, content, category, user_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `
	return r.db.QueryRowContext(ctx, query, p.Title, p.Content, p.Category, p.UserID).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ForumRepo) ListComments(ctx context.Context, postID int64) ([]forum.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, post_id, content, user_id, created_at
        FROM forum_comments
        WHERE post_id = $1
        ORDER BY created_at ASC
    `, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []forum.Comment
	for rows.Next() {
		var c forum.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Content, &c.UserID, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *ForumRepo) CreateComment(ctx context.Context, c *forum.Comment) error {
	query := `
        INSERT INTO forum_comments (post_id, content, user_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	return r.db.QueryRowContext(ctx, query, c.PostID, c.Content, c.UserID).
		Scan(&c.ID, &c.CreatedAt)
}
