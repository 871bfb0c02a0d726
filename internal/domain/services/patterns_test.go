package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palavaproof-api/internal/domain/models"
)

func TestNewRuleSet(t *testing.T) {
	t.Run("compiles default rules", func(t *testing.T) {
		rs, err := NewRuleSet(DefaultPatternRules(20))
		require.NoError(t, err)
		assert.Equal(t, 9, rs.Len())
	})

	t.Run("bad pattern fails the whole load", func(t *testing.T) {
		_, err := NewRuleSet([]models.PatternRule{
			{Pattern: `won.*prize`, Severity: 20},
			{Pattern: `[unclosed`, Severity: 20},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "[unclosed")
	})

	t.Run("preserves declaration order", func(t *testing.T) {
		rs, err := NewRuleSet([]models.PatternRule{
			{Pattern: `first`, Severity: 10},
			{Pattern: `second`, Severity: 20},
		})
		require.NoError(t, err)
		rules := rs.Rules()
		require.Len(t, rules, 2)
		assert.Equal(t, "first", rules[0].Pattern)
		assert.Equal(t, "second", rules[1].Pattern)
	})
}

func TestRuleMatches(t *testing.T) {
	rs, err := NewRuleSet(DefaultPatternRules(20))
	require.NoError(t, err)

	matching := func(text string) []string {
		var hit []string
		for _, r := range rs.Rules() {
			if r.Matches(text) {
				hit = append(hit, r.Pattern)
			}
		}
		return hit
	}

	t.Run("case insensitive", func(t *testing.T) {
		assert.Contains(t, matching("YOU WON A BIG PRIZE"), `won.*prize`)
	})

	t.Run("gap bridges arbitrary text", func(t *testing.T) {
		assert.Contains(t, matching("click this link now to win big"), `click.*link.*win`)
	})

	t.Run("multiple rules can match one message", func(t *testing.T) {
		hits := matching("You won the lottery prize! Claim your reward today")
		assert.Contains(t, hits, `won.*prize`)
		assert.Contains(t, hits, `lottery`)
		assert.Contains(t, hits, `claim.*reward`)
	})

	t.Run("clean message matches nothing", func(t *testing.T) {
		assert.Empty(t, matching("See you at the market tomorrow"))
	})
}

func TestPrefixMatcher(t *testing.T) {
	m := PrefixMatcher{Window: 50}

	t.Run("existing contains fingerprint", func(t *testing.T) {
		assert.True(t, m.IsMatch("You WON a big prize today", Fingerprint("won a big prize", 50)))
	})

	t.Run("fingerprint contains existing", func(t *testing.T) {
		assert.True(t, m.IsMatch("won a prize", Fingerprint("you won a prize today friend", 50)))
	})

	t.Run("different content does not match", func(t *testing.T) {
		assert.False(t, m.IsMatch("free airtime offer", Fingerprint("your account is locked", 50)))
	})

	t.Run("empty fingerprint never matches", func(t *testing.T) {
		assert.False(t, m.IsMatch("anything at all", ""))
	})

	t.Run("empty existing content never matches", func(t *testing.T) {
		assert.False(t, m.IsMatch("  ", Fingerprint("some content", 50)))
	})
}
