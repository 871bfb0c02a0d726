// Package memstore provides an in-memory report store used when no
// database is configured. Reports do not survive a restart.
package memstore

import (
	"context"
	"sort"
	"sync"

	"palavaproof-api/internal/domain/models"
	"palavaproof-api/internal/domain/services"
)

// Store keeps scam reports in memory behind a single mutex. It implements
// services.ReportStore with the same merge semantics as the database
// repository, so handlers and tests can run without Postgres.
type Store struct {
	mu      sync.Mutex
	reports []*models.ScamReport
	matcher services.ContentMatcher
}

// New creates an empty in-memory store using matcher for content matching.
func New(matcher services.ContentMatcher) *Store {
	return &Store{matcher: matcher}
}

var _ services.ReportStore = (*Store)(nil)

// CountByURL returns how many reports carry this exact URL.
func (s *Store) CountByURL(_ context.Context, url string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, r := range s.reports {
		if r.URL != nil && *r.URL == url {
			count++
		}
	}
	return count, nil
}

// CountByPhone returns how many reports carry this exact phone number.
func (s *Store) CountByPhone(_ context.Context, phone string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, r := range s.reports {
		if r.PhoneNumber != nil && *r.PhoneNumber == phone {
			count++
		}
	}
	return count, nil
}

// FindOrIncrement merges fresh into the oldest matching report, or stores
// it as new. The whole operation runs under one lock, so concurrent
// submissions of the same scam always land on a single record.
func (s *Store) FindOrIncrement(_ context.Context, fresh *models.ScamReport, fingerprint string) (*models.ScamReport, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reports {
		if s.matches(r, fresh, fingerprint) {
			r.TimesReported++
			return r.Clone(), true, nil
		}
	}

	stored := fresh.Clone()
	s.reports = append(s.reports, stored)
	return stored.Clone(), false, nil
}

func (s *Store) matches(existing, fresh *models.ScamReport, fingerprint string) bool {
	if s.matcher != nil && s.matcher.IsMatch(existing.Content, fingerprint) {
		return true
	}
	if fresh.PhoneNumber != nil && existing.PhoneNumber != nil && *existing.PhoneNumber == *fresh.PhoneNumber {
		return true
	}
	if fresh.URL != nil && existing.URL != nil && *existing.URL == *fresh.URL {
		return true
	}
	return false
}

// ListRecent returns confirmed scams, newest first.
func (s *Store) ListRecent(_ context.Context, limit int) ([]models.ScamReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	confirmed := make([]models.ScamReport, 0, limit)
	for _, r := range s.reports {
		if r.Verified || r.IsPopular() {
			confirmed = append(confirmed, *r.Clone())
		}
	}

	sort.Slice(confirmed, func(i, j int) bool {
		return confirmed[i].ReportedAt.After(confirmed[j].ReportedAt)
	})

	if limit > 0 && len(confirmed) > limit {
		confirmed = confirmed[:limit]
	}
	return confirmed, nil
}

// Len reports how many distinct scams are on file.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}
