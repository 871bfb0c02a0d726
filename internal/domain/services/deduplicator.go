package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"palavaproof-api/internal/config"
	"palavaproof-api/internal/domain/models"
	"palavaproof-api/pkg/logger"
)

// Resolver decides whether an incoming report describes a scam already on
// file. A match by content fingerprint, exact phone, or exact URL merges
// into the existing record; otherwise a new record is created. The
// match-then-increment-or-insert step is delegated to the store's atomic
// FindOrIncrement so concurrent reports of the same scam land on one row.
type Resolver struct {
	store  ReportStore
	window int
	logger *logger.Logger
}

// NewResolver creates a deduplication resolver. window bounds the content
// fingerprint length, cfg.SimilarityWindow in practice.
func NewResolver(store ReportStore, cfg config.ScoringConfig, log *logger.Logger) *Resolver {
	return &Resolver{
		store:  store,
		window: cfg.SimilarityWindow,
		logger: log.WithComponent("resolver"),
	}
}

// SubmitResult is the outcome of a report submission.
type SubmitResult struct {
	Report *models.ScamReport
	Merged bool
}

// SubmitReport resolves a candidate against existing records and either
// merges (incrementing times_reported) or creates a new record. Returns
// ErrInsufficientIdentity when the candidate carries no identity signal at
// all, and ErrStoreUnavailable when no store is configured.
func (r *Resolver) SubmitReport(ctx context.Context, c models.ReportCandidate) (*SubmitResult, error) {
	content := strings.TrimSpace(c.Content)
	fingerprint := Fingerprint(content, r.window)

	phone := ""
	if strings.TrimSpace(c.PhoneNumber) != "" {
		phone = NormalizePhone(c.PhoneNumber)
	}
	url := strings.TrimSpace(c.URL)

	// An empty fingerprint with no phone and no URL could only ever merge
	// into an unrelated empty-content record; reject it instead.
	if fingerprint == "" && phone == "" && url == "" {
		return nil, ErrInsufficientIdentity
	}

	if r.store == nil {
		return nil, ErrStoreUnavailable
	}

	reportType := strings.TrimSpace(c.Type)
	if reportType == "" {
		reportType = models.DefaultReportType
	}

	fresh := &models.ScamReport{
		ID:            uuid.New(),
		Content:       content,
		Type:          reportType,
		ReportedAt:    time.Now().UTC(),
		Verified:      false,
		TimesReported: 1,
	}
	// Absent optional fields stay nil so they persist as NULL, never as an
	// empty string that exact-match lookups could spuriously hit.
	if phone != "" {
		fresh.PhoneNumber = &phone
	}
	if url != "" {
		fresh.URL = &url
	}

	report, merged, err := r.store.FindOrIncrement(ctx, fresh, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("submit report: %w", err)
	}

	r.logger.Info().
		Str("report_id", report.ID.String()).
		Bool("merged", merged).
		Int("times_reported", report.TimesReported).
		Msg("report resolved")

	return &SubmitResult{Report: report, Merged: merged}, nil
}
