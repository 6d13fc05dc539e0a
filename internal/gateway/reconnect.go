package gateway

import (
	"time"

	"github.com/sethvargo/go-retry"
)

// Redial delays of the change feeds after a lost connection.
const (
	defaultReconnectDelay    = 500 * time.Millisecond
	defaultMaxReconnectDelay = 30 * time.Second
	reconnectDialTimeout     = 10 * time.Second
)

// reconnectBackoff grows exponentially from base up to limit with a 10%
// jitter. It never gives up; callers stop it through the context.
func reconnectBackoff(base, limit time.Duration) retry.Backoff {
	return retry.WithJitterPercent(10, retry.WithCappedDuration(limit, retry.NewExponential(base)))
}
