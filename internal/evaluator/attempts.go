package evaluator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lshigami/examprep/internal/kvstore"
	"github.com/rs/zerolog/log"
)

// ScopeKey identifies one subject's attempt counter for one test. The subject is a user
// id or a guest id.
func ScopeKey(subject string, categoryID, testID uint) string {
	return fmt.Sprintf("attempts:%s:%d:%d", subject, categoryID, testID)
}

// SessionKey identifies the open session record for a scope key.
func SessionKey(scopeKey string) string {
	return "session:" + scopeKey
}

// AttemptCounter counts test starts per scope key. Read-modify-write is not atomic;
// callers serialize starts for the same key (see Evaluator.StartSession).
type AttemptCounter struct {
	store kvstore.Store
}

func NewAttemptCounter(store kvstore.Store) *AttemptCounter {
	return &AttemptCounter{store: store}
}

// Get returns the stored count. Missing and malformed values read as 0.
func (c *AttemptCounter) Get(ctx context.Context, scopeKey string) (int, error) {
	raw, ok, err := c.store.Get(ctx, scopeKey)
	if err != nil {
		return 0, fmt.Errorf("read attempts %s: %w", scopeKey, err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		log.Warn().Str("scopeKey", scopeKey).Str("raw", raw).Msg("Malformed attempt count, treating as 0")
		return 0, nil
	}
	return n, nil
}

// Record adds one attempt and returns the new count.
func (c *AttemptCounter) Record(ctx context.Context, scopeKey string) (int, error) {
	n, err := c.Get(ctx, scopeKey)
	if err != nil {
		return 0, err
	}
	n++
	if err := c.store.Set(ctx, scopeKey, strconv.Itoa(n)); err != nil {
		return 0, fmt.Errorf("write attempts %s: %w", scopeKey, err)
	}
	return n, nil
}
