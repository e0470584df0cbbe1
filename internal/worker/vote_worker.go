package worker

import (
	"context"
	"log/slog"

	"fanclub-backend/internal/metrics"
)

type VoteEvent struct {
	PollID   int64
	OptionID int64
	UserID   int64
}

// VoteWorker drains vote events off the request path and feeds the vote
// counters. The channel send in the handler is non-blocking, so a stalled
// worker never delays a voter.
type VoteWorker struct {
	Ch  <-chan VoteEvent
	log *slog.Logger
}

func NewVoteWorker(ch <-chan VoteEvent, log *slog.Logger) *VoteWorker {
	if log == nil {
		log = slog.Default()
	}
	return &VoteWorker{Ch: ch, log: log}
}

func (w *VoteWorker) Run(ctx context.Context) {
	w.log.Info("vote worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("vote worker stopped")
			return
		case ev := <-w.Ch:
			metrics.IncVote(ev.PollID)
			w.log.Info("vote recorded",
				"poll_id", ev.PollID,
				"option_id", ev.OptionID,
			)
		}
	}
}
