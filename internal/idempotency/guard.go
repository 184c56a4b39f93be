package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultWindow = 5 * time.Second

// Guard suppresses duplicate transfer submissions inside a short window.
// State is process-local: replicas behind a load balancer each keep their
// own map, so duplicate suppression is not guaranteed across instances.
type Guard struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]time.Time
	now    func() time.Time
}

func New(window time.Duration) *Guard {
	return &Guard{
		window: window,
		seen:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// NewWithClock is used by tests to control time.
func NewWithClock(window time.Duration, now func() time.Time) *Guard {
	g := New(window)
	g.now = now
	return g
}

// Fingerprint digests the fields that define a "same" transfer attempt.
func Fingerprint(userID, recipientAccountID int, amount decimal.Decimal, reference string) string {
	key := fmt.Sprintf("%d:%d:%s:%s", userID, recipientAccountID, amount.StringFixed(2), reference)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// CheckAndRecord reports whether the attempt may proceed. A fingerprint seen
// within the window is rejected; otherwise it is recorded with the current
// time. Stale entries are swept lazily on each call.
func (g *Guard) CheckAndRecord(fingerprint string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, ok := g.seen[fingerprint]; ok && now.Sub(last) < g.window {
		return false
	}
	g.seen[fingerprint] = now

	for fp, last := range g.seen {
		if now.Sub(last) >= g.window {
			delete(g.seen, fp)
		}
	}
	return true
}
