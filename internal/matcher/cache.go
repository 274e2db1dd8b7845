package matcher

import (
	"sync"
	"time"

	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/store"
)

// RuleCache holds the compiled active rule set with a bounded time-to-live.
// The staleness window is the trade-off for not refetching rules on every
// transaction. The cache is read-mostly: the only writer is the refresh,
// which replaces the set wholesale under the lock, so concurrent readers
// never observe a half-populated set. Calls that miss during a refresh block
// on the same refresh rather than each fetching independently.
type RuleCache struct {
	source store.RuleSource
	ttl    time.Duration
	clock  func() time.Time
	logger logging.Logger

	mu        sync.RWMutex
	rules     []CompiledRule
	fetchedAt time.Time
}

// NewRuleCache creates a cache over the given rule source.
func NewRuleCache(source store.RuleSource, ttl time.Duration, logger logging.Logger) *RuleCache {
	return NewRuleCacheWithClock(source, ttl, logger, time.Now)
}

// NewRuleCacheWithClock creates a cache with an injected clock, for tests.
func NewRuleCacheWithClock(source store.RuleSource, ttl time.Duration, logger logging.Logger, clock func() time.Time) *RuleCache {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &RuleCache{
		source: source,
		ttl:    ttl,
		clock:  clock,
		logger: logger,
	}
}

// Rules returns the current rule snapshot, refreshing it when the TTL has
// expired. The returned slice must be treated as read-only.
func (c *RuleCache) Rules() ([]CompiledRule, error) {
	c.mu.RLock()
	if c.fresh() {
		rules := c.rules
		c.mu.RUnlock()
		return rules, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another caller may have refreshed while we waited for the lock.
	if c.fresh() {
		return c.rules, nil
	}

	raw, err := c.source.ListActiveRules()
	if err != nil {
		return nil, err
	}
	c.rules = CompileRules(raw, c.logger)
	c.fetchedAt = c.clock()

	c.logger.Debug("Refreshed rule cache",
		logging.Field{Key: logging.FieldCount, Value: len(c.rules)})
	return c.rules, nil
}

// Invalidate forces the next Rules call to refresh.
func (c *RuleCache) Invalidate() {
	c.mu.Lock()
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

// fresh must be called with at least a read lock held.
func (c *RuleCache) fresh() bool {
	return !c.fetchedAt.IsZero() && c.clock().Sub(c.fetchedAt) < c.ttl
}
