package services

import (
	"context"
	"strings"

	"palavaproof-api/internal/domain/models"
)

// ReputationStore provides exact-match counts of existing reports for an
// extracted entity. Implementations must compare against the same canonical
// forms the resolver stores (see NormalizePhone).
type ReputationStore interface {
	CountByURL(ctx context.Context, url string) (int64, error)
	CountByPhone(ctx context.Context, phone string) (int64, error)
}

// ReportStore is the persistence contract for scam reports. FindOrIncrement
// is the atomic identity-resolution primitive: it must either increment an
// existing matching record or insert the fresh one, with submissions for
// the same identity key serialized so two concurrent reports of the same
// scam can never both insert.
type ReportStore interface {
	ReputationStore

	// FindOrIncrement looks for a record matching the fresh report by
	// normalized-content fingerprint, exact phone, or exact URL (any one
	// suffices). On a match it increments times_reported by one, leaving
	// every other field untouched, and returns (record, true, nil). With no
	// match it inserts fresh and returns (record, false, nil).
	FindOrIncrement(ctx context.Context, fresh *models.ScamReport, fingerprint string) (*models.ScamReport, bool, error)

	// ListRecent returns reports that are verified or reported more than
	// three times, newest first, capped at limit.
	ListRecent(ctx context.Context, limit int) ([]models.ScamReport, error)
}

// ContentMatcher decides whether an existing record's content and an
// incoming report's fingerprint describe the same scam. Pluggable so the
// bounded-prefix heuristic can be swapped for a real similarity metric
// without touching the resolver's merge/insert control flow.
type ContentMatcher interface {
	IsMatch(existingContent, fingerprint string) bool
}

// PrefixMatcher matches when the existing record's normalized content
// contains, or is contained by, the candidate's prefix fingerprint. This is
// deliberately the source system's bounded-prefix semantics, kept for
// compatibility: a shared 50-character prefix merges, different leading
// text does not.
type PrefixMatcher struct {
	Window int
}

// IsMatch implements ContentMatcher. Empty content on either side never
// matches; empty-content records must only merge via phone or URL.
func (m PrefixMatcher) IsMatch(existingContent, fingerprint string) bool {
	if fingerprint == "" {
		return false
	}
	existing := NormalizeContent(existingContent)
	if existing == "" {
		return false
	}
	return strings.Contains(existing, fingerprint) || strings.Contains(fingerprint, existing)
}
