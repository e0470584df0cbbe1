package poll

import (
	"context"
	"time"
)

type Poll struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      int64     `json:"user_id"`
}

type Option struct {
	ID         int64     `json:"id"`
	PollID     int64     `json:"poll_id"`
	OptionText string    `json:"option_text"`
	CreatedAt  time.Time `json:"created_at"`
}

type Vote struct {
	ID        int64     `json:"id"`
	PollID    int64     `json:"poll_id"`
	OptionID  int64     `json:"option_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OptionResult is an option annotated with its vote count.
type OptionResult struct {
	Option
	Votes int64 `json:"votes"`
}

// View is a poll as the listing endpoint returns it: options with counts,
// plus the calling user's selected option when they have voted.
type View struct {
	Poll
	Options  []OptionResult `json:"options"`
	UserVote *int64         `json:"user_vote,omitempty"`
}

type Repository interface {
	// Create inserts the poll and its options as one transaction.
	Create(ctx context.Context, p *Poll, options []Option) (int64, error)
	// ListActive returns polls with end_date >= now, newest first.
	ListActive(ctx context.Context, now time.Time) ([]Poll, error)
	OptionsByPoll(ctx context.Context, pollID int64) ([]Option, error)
	// VoteCountsByPoll groups the poll's votes by option id.
	VoteCountsByPoll(ctx context.Context, pollID int64) (map[int64]int64, error)
	// UserVote reports the option the user picked, if any.
	UserVote(ctx context.Context, pollID, userID int64) (int64, bool, error)
	// UpsertVote inserts the vote, or moves the existing (poll, user) vote
	// to the new option. At most one row per (poll, user) pair.
	UpsertVote(ctx context.Context, v *Vote) error
	// ExpiredPollIDs returns ids of polls with end_date strictly before now.
	ExpiredPollIDs(ctx context.Context, now time.Time) ([]int64, error)
	// DeletePolls removes the polls plus their votes and options as one
	// transaction, dependents first.
	DeletePolls(ctx context.Context, ids []int64) error
}
