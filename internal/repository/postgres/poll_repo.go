package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fanclub-backend/internal/domain/poll"
)

type PollRepo struct {
	db *sql.DB
}

func NewPollRepo(db *sql.DB) *PollRepo {
	return &PollRepo{db: db}
}

func (r *PollRepo) Create(ctx context.Context, p *poll.Poll, options []poll.Option) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	queryPoll := `
        INSERT INTO polls (title, description, end_date, user_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `

	err = tx.QueryRowContext(ctx, queryPoll,
		p.Title,
		p.Description,
		p.EndDate,
		p.UserID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return 0, err
	}

	queryOpt := `
        INSERT INTO poll_options (poll_id, option_text)
        VALUES ($1, $2)
        RETURNING id, created_at
    `

	for i := range options {
		options[i].PollID = p.ID
		if err := tx.QueryRowContext(ctx, queryOpt, options[i].PollID, options[i].OptionText).
			Scan(&options[i].ID, &options[i].CreatedAt); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return p.ID, nil
}

func (r *PollRepo) ListActive(ctx context.Context, now time.Time) ([]poll.Poll, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, title, description, end_date, created_at, user_id
        FROM polls
        WHERE end_date >= $1
        ORDER BY created_at DESC
    `, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []poll.Poll
	for rows.Next() {
		var p poll.Poll
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.EndDate, &p.CreatedAt, &p.UserID); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *PollRepo) OptionsByPoll(ctx context.Context, pollID int64) ([]poll.Option, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, poll_id, option_text, created_at
        FROM poll_options
        WHERE poll_id = $1
        ORDER BY id
    `, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opts []poll.Option
	for rows.Next() {
		var o poll.Option
		if err := rows.Scan(&o.ID, &o.PollID, &o.OptionText, &o.CreatedAt); err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}

func (r *PollRepo) VoteCountsByPoll(ctx context.Context, pollID int64) (map[int64]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT option_id, COUNT(*)
        FROM poll_votes
        WHERE poll_id = $1
        GROUP BY option_id
    `, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int64]int64)
	for rows.Next() {
		var optID, c int64
		if err := rows.Scan(&optID, &c); err != nil {
			return nil, err
		}
		res[optID] = c
	}
	return res, rows.Err()
}

func (r *PollRepo) UserVote(ctx context.Context, pollID, userID int64) (int64, bool, error) {
	var optionID int64
	err := r.db.QueryRowContext(ctx, `
        SELECT option_id FROM poll_votes
        WHERE poll_id = $1 AND user_id = $2
    `, pollID, userID).Scan(&optionID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return optionID, true, nil
}

func (r *PollRepo) UpsertVote(ctx context.Context, v *poll.Vote) error {
	query := `
        INSERT INTO poll_votes (poll_id, option_id, user_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (poll_id, user_id) DO UPDATE SET option_id = EXCLUDED.option_id
        RETURNING id, created_at
    `
	return r.db.QueryRowContext(ctx, query, v.PollID, v.OptionID, v.UserID).
		Scan(&v.ID, &v.CreatedAt)
}

func (r *PollRepo) ExpiredPollIDs(ctx context.Context, now time.Time) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM polls WHERE end_date < $1`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeletePolls removes votes, then options, then the polls themselves, all in
// one transaction so a failure partway leaves nothing half-cleaned.
func (r *PollRepo) DeletePolls(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	in, args := inClause(ids)

	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_votes WHERE poll_id IN `+in, args...); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_options WHERE poll_id IN `+in, args...); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM polls WHERE id IN `+in, args...); err != nil {
		return err
	}

	return tx.Commit()
}

func inClause(ids []int64) (string, []any) {
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	return "(" + strings.Join(ph, ", ") + ")", args
}
