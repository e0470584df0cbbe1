package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal *prometheus.CounterVec
	pollVotesTotal    *prometheus.CounterVec
	expiredPollsTotal prometheus.Counter
	registerOnce      sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fanclub",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the API.",
		}, []string{"method", "path", "status"})

		pollVotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fanclub",
			Name:      "poll_votes_total",
			Help:      "Total poll votes recorded, by poll.",
		}, []string{"poll_id"})

		expiredPollsTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "fanclub",
			Name:      "expired_polls_deleted_total",
			Help:      "Total expired polls removed by cleanup runs.",
		})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// IncVote counts one recorded vote for the given poll.
func IncVote(pollID int64) {
	if pollVotesTotal == nil {
		return
	}
	pollVotesTotal.WithLabelValues(strconv.FormatInt(pollID, 10)).Inc()
}

// AddExpiredPolls counts polls removed by a cleanup run.
func AddExpiredPolls(n int64) {
	if expiredPollsTotal == nil || n <= 0 {
		return
	}
	expiredPollsTotal.Add(float64(n))
}
