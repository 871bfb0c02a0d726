package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"palavaproof-api/internal/config"
	"palavaproof-api/internal/domain/models"
	"palavaproof-api/internal/infrastructure/cache"
	"palavaproof-api/pkg/logger"
)

// Link shorteners whose presence in a URL is a caution signal on its own.
// Matched as substrings of the full URL string.
var urlShorteners = []string{"bit.ly", "tinyurl", "goo.gl", "ow.ly"}

// Scorer turns free-text messages into scam verdicts by combining pattern
// rule matches with per-entity reputation lookups.
type Scorer struct {
	rules  *RuleSet
	store  ReputationStore
	cache  *cache.RedisCache
	cfg    config.ScoringConfig
	logger *logger.Logger
}

// NewScorer creates a scorer. store may be nil (no database); reputation
// lookups then degrade to "not found" and the verdict carries the degraded
// flag. cache may be nil to skip reputation caching.
func NewScorer(rules *RuleSet, store ReputationStore, c *cache.RedisCache, cfg config.ScoringConfig, log *logger.Logger) *Scorer {
	return &Scorer{
		rules:  rules,
		store:  store,
		cache:  c,
		cfg:    cfg,
		logger: log.WithComponent("scorer"),
	}
}

// Score screens a message and returns the verdict. Confidence accumulates
// across all triggered signals and is clamped to [0, MaxConfidence] once at
// the end, so every triggered signal still contributes its warning text.
func (s *Scorer) Score(ctx context.Context, message string) *models.Verdict {
	verdict := models.NewVerdict()

	if strings.TrimSpace(message) == "" {
		return verdict
	}

	for _, rule := range s.rules.Rules() {
		if rule.Matches(message) {
			verdict.IsScam = true
			verdict.Confidence += rule.Severity
			verdict.Warnings = append(verdict.Warnings,
				fmt.Sprintf("Message contains suspicious phrase: '%s'", rule.Pattern))
		}
	}

	for _, url := range ExtractURLs(message) {
		count, degraded := s.reputationCount(ctx, cache.KeyReputationURL, url, s.countByURL)
		if degraded {
			verdict.Degraded = true
		}
		if count > 0 {
			verdict.IsScam = true
			verdict.Confidence += s.cfg.URLWeight
			verdict.Warnings = append(verdict.Warnings,
				fmt.Sprintf("This URL has been reported as a scam %d times", count))
		}

		for _, shortener := range urlShorteners {
			if strings.Contains(url, shortener) {
				verdict.Warnings = append(verdict.Warnings,
					"This uses a link shortener - be careful where it really goes")
				break
			}
		}
	}

	for _, phone := range ExtractPhoneNumbers(message) {
		normalized := NormalizePhone(phone)
		count, degraded := s.reputationCount(ctx, cache.KeyReputationPhone, normalized, s.countByPhone)
		if degraded {
			verdict.Degraded = true
		}
		if count > 0 {
			verdict.IsScam = true
			verdict.Confidence += s.cfg.PhoneWeight
			verdict.Warnings = append(verdict.Warnings,
				fmt.Sprintf("This phone number has been reported as a scam %d times", count))
		}
	}

	if verdict.Confidence > s.cfg.MaxConfidence {
		verdict.Confidence = s.cfg.MaxConfidence
	}

	return verdict
}

func (s *Scorer) countByURL(ctx context.Context, url string) (int64, error) {
	return s.store.CountByURL(ctx, url)
}

func (s *Scorer) countByPhone(ctx context.Context, phone string) (int64, error) {
	return s.store.CountByPhone(ctx, phone)
}

// reputationCount resolves the report count for one entity, consulting the
// cache first. A failed store lookup is treated as "not found" and flagged
// as degraded rather than failing the whole check.
func (s *Scorer) reputationCount(ctx context.Context, keyPrefix, value string, lookup func(context.Context, string) (int64, error)) (count int64, degraded bool) {
	if s.store == nil {
		return 0, true
	}

	key := keyPrefix + hashEntity(value)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			if n, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return n, false
			}
		}
	}

	count, err := lookup(ctx, value)
	if err != nil {
		s.logger.Warn().Err(err).Str("entity", value).Msg("reputation lookup failed, treating as not found")
		return 0, true
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, strconv.FormatInt(count, 10), s.cfg.ReputationCacheTTL); err != nil {
			s.logger.Debug().Err(err).Msg("failed to cache reputation count")
		}
	}

	return count, false
}

func hashEntity(value string) string {
	h := sha256.Sum256([]byte(value))
	return hex.EncodeToString(h[:])
}
