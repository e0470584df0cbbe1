package poll

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fanclub-backend/internal/platform/clock"
)

var (
	ErrUserRequired        = errors.New("authenticated user required")
	ErrTitleRequired       = errors.New("title required")
	ErrDescriptionRequired = errors.New("description required")
	ErrTooFewOptions       = errors.New("poll must have at least 2 options")
	ErrEndDateRequired     = errors.New("end date required")
)

type Service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, clk clock.Clock) *Service {
	return &Service{repo: repo, clock: clk}
}

// Create validates the input and stores the poll with its options. Blank
// option texts are dropped before the minimum-count check.
func (s *Service) Create(ctx context.Context, userID int64, p *Poll, optionTexts []string) (int64, error) {
	if userID == 0 {
		return 0, ErrUserRequired
	}
	if strings.TrimSpace(p.Title) == "" {
		return 0, ErrTitleRequired
	}
	if strings.TrimSpace(p.Description) == "" {
		return 0, ErrDescriptionRequired
	}
	if p.EndDate.IsZero() {
		return 0, ErrEndDateRequired
	}

	opts := make([]Option, 0, len(optionTexts))
	for _, text := range optionTexts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		opts = append(opts, Option{OptionText: text})
	}
	if len(opts) < 2 {
		return 0, ErrTooFewOptions
	}

	p.UserID = userID
	id, err := s.repo.Create(ctx, p, opts)
	if err != nil {
		return 0, fmt.Errorf("create poll: %w", err)
	}
	return id, nil
}

// ListActive returns non-expired polls, newest first, each with per-option
// vote counts and the caller's selection. userID 0 means anonymous: the
// listing still works, user_vote is just never set.
//
// A poll whose end date equals the current instant is still active; only
// end dates strictly in the past are expired.
func (s *Service) ListActive(ctx context.Context, userID int64) ([]View, error) {
	now := s.clock.Now()

	polls, err := s.repo.ListActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list polls: %w", err)
	}

	views := make([]View, 0, len(polls))
	for _, p := range polls {
		opts, err := s.repo.OptionsByPoll(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("poll %d options: %w", p.ID, err)
		}
		counts, err := s.repo.VoteCountsByPoll(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("poll %d votes: %w", p.ID, err)
		}

		v := View{Poll: p, Options: make([]OptionResult, 0, len(opts))}
		for _, o := range opts {
			v.Options = append(v.Options, OptionResult{Option: o, Votes: counts[o.ID]})
		}

		if userID != 0 {
			optionID, voted, err := s.repo.UserVote(ctx, p.ID, userID)
			if err != nil {
				return nil, fmt.Errorf("poll %d user vote: %w", p.ID, err)
			}
			if voted {
				v.UserVote = &optionID
			}
		}

		views = append(views, v)
	}

	return views, nil
}

// Vote records the user's choice for a poll. Voting again moves the vote to
// the new option; a user never holds more than one vote per poll.
func (s *Service) Vote(ctx context.Context, pollID, optionID, userID int64) error {
	if userID == 0 {
		return ErrUserRequired
	}

	v := &Vote{
		PollID:   pollID,
		OptionID: optionID,
		UserID:   userID,
	}
	if err := s.repo.UpsertVote(ctx, v); err != nil {
		return fmt.Errorf("record vote: %w", err)
	}
	return nil
}

// CleanupExpired removes every poll whose end date has passed, along with
// its options and votes, and reports how many polls were removed. Running
// it with nothing expired is a no-op.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	now := s.clock.Now()

	ids, err := s.repo.ExpiredPollIDs(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("find expired polls: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.repo.DeletePolls(ctx, ids); err != nil {
		return 0, fmt.Errorf("delete expired polls: %w", err)
	}
	return int64(len(ids)), nil
}
