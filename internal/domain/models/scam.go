package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportType is the channel a scam arrived on. Free-form, "sms" by default.
const DefaultReportType = "sms"

// ScamReport is one distinct known scam on file. Repeat reports of the same
// scam bump TimesReported instead of creating a new row.
type ScamReport struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Content       string    `json:"content" db:"content"`
	Type          string    `json:"type" db:"type"`
	PhoneNumber   *string   `json:"phone_number,omitempty" db:"phone_number"`
	URL           *string   `json:"url,omitempty" db:"url"`
	ReportedAt    time.Time `json:"reported_at" db:"reported_at"`
	Verified      bool      `json:"verified" db:"verified"`
	TimesReported int       `json:"times_reported" db:"times_reported"`
}

// IsPopular reports whether the record qualifies for the recent-scams feed
// on report volume alone.
func (r *ScamReport) IsPopular() bool {
	return r.TimesReported > 3
}

// Clone returns a request-scoped copy of the report. Stores hand out clones
// so callers never hold references into store-owned state.
func (r *ScamReport) Clone() *ScamReport {
	c := *r
	if r.PhoneNumber != nil {
		p := *r.PhoneNumber
		c.PhoneNumber = &p
	}
	if r.URL != nil {
		u := *r.URL
		c.URL = &u
	}
	return &c
}

// ReportCandidate is an inbound report submission before identity
// resolution. All fields are optional individually; at least one identity
// signal (content, phone, url) must be present.
type ReportCandidate struct {
	Content     string `json:"content"`
	Type        string `json:"type"`
	PhoneNumber string `json:"phone_number"`
	URL         string `json:"url"`
}

// PatternRule is one scam-indicator rule. Rules are loaded once at startup
// and never mutated by request handling.
type PatternRule struct {
	Pattern     string `json:"pattern" db:"pattern"`
	Description string `json:"description" db:"description"`
	Severity    int    `json:"severity" db:"severity"`
}

// Verdict is the outcome of screening a message.
type Verdict struct {
	IsScam       bool         `json:"is_scam"`
	Confidence   int          `json:"confidence"`
	Warnings     []string     `json:"warnings"`
	SimilarScams []ScamReport `json:"similar_scams"`

	// Degraded is set when an entity-reputation lookup failed and was
	// treated as "not found" rather than aborting the check.
	Degraded bool `json:"degraded,omitempty"`
}

// NewVerdict returns a clean verdict with non-nil slices so JSON encodes
// empty arrays, not null.
func NewVerdict() *Verdict {
	return &Verdict{
		Warnings:     []string{},
		SimilarScams: []ScamReport{},
	}
}
