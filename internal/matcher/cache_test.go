package matcher

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/models"
	"wanjohi/mpesa-csv/internal/store"
)

func TestRuleCacheServesSnapshotWithinTTL(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	source := &store.MockRuleSource{Rules: []models.MerchantRule{kplcRule()}}
	cache := NewRuleCacheWithClock(source, 5*time.Minute, &logging.MockLogger{}, clock)

	rules, err := cache.Rules()
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, 1, source.ListCalls)

	// Repeated calls inside the TTL reuse the snapshot.
	now = now.Add(4 * time.Minute)
	_, err = cache.Rules()
	require.NoError(t, err)
	assert.Equal(t, 1, source.ListCalls)
}

func TestRuleCacheRefreshesAfterTTL(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	source := &store.MockRuleSource{Rules: []models.MerchantRule{kplcRule()}}
	cache := NewRuleCacheWithClock(source, 5*time.Minute, &logging.MockLogger{}, clock)

	_, err := cache.Rules()
	require.NoError(t, err)

	source.Rules = append(source.Rules, models.MerchantRule{
		ID: "safaricom", Keywords: []string{"airtime"},
		CategoryID: "telecom", Confidence: 0.8, Active: true,
	})

	now = now.Add(5 * time.Minute)
	rules, err := cache.Rules()
	require.NoError(t, err)
	assert.Equal(t, 2, source.ListCalls)
	// The refresh replaces the snapshot wholesale, picking up the new rule.
	require.Len(t, rules, 2)
}

func TestRuleCacheInvalidateForcesRefresh(t *testing.T) {
	source := &store.MockRuleSource{Rules: []models.MerchantRule{kplcRule()}}
	cache := NewRuleCache(source, time.Hour, &logging.MockLogger{})

	_, err := cache.Rules()
	require.NoError(t, err)
	assert.Equal(t, 1, source.ListCalls)

	cache.Invalidate()
	_, err = cache.Rules()
	require.NoError(t, err)
	assert.Equal(t, 2, source.ListCalls)
}

func TestRuleCachePropagatesSourceError(t *testing.T) {
	source := &store.MockRuleSource{ListRulesError: assert.AnError}
	cache := NewRuleCache(source, time.Minute, &logging.MockLogger{})

	_, err := cache.Rules()
	assert.Error(t, err)
}

func TestRuleCacheCompilesPatterns(t *testing.T) {
	source := &store.MockRuleSource{Rules: []models.MerchantRule{kplcRule()}}
	cache := NewRuleCache(source, time.Minute, &logging.MockLogger{})

	rules, err := cache.Rules()
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.Len(t, rules[0].Regexps, 2)
	assert.True(t, rules[0].Regexps[0].MatchString("kplc prepaid"))
	assert.True(t, rules[0].Regexps[1].MatchString("KENYA  POWER"))
}

func TestRuleCacheConcurrentReaders(t *testing.T) {
	source := &store.MockRuleSource{Rules: []models.MerchantRule{kplcRule()}}
	cache := NewRuleCache(source, time.Hour, &logging.MockLogger{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rules, err := cache.Rules()
			assert.NoError(t, err)
			assert.Len(t, rules, 1)
		}()
	}
	wg.Wait()
	// Readers that raced the first refresh must share a single fetch.
	assert.Equal(t, 1, source.ListCalls)
}
