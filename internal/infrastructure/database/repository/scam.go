package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"palavaproof-api/internal/domain/models"
	"palavaproof-api/internal/domain/services"
	"palavaproof-api/internal/infrastructure/database"
)

const scamColumns = "id, content, type, phone_number, url, reported_at, verified, times_reported"

// ScamRepository handles scam report persistence
type ScamRepository struct {
	db *database.PostgresDB
}

// NewScamRepository creates a new scam repository
func NewScamRepository(db *database.PostgresDB) *ScamRepository {
	return &ScamRepository{db: db}
}

var _ services.ReportStore = (*ScamRepository)(nil)

// CountByURL returns how many reports on file carry this exact URL
func (r *ScamRepository) CountByURL(ctx context.Context, url string) (int64, error) {
	var count int64
	err := r.db.Pool().QueryRow(ctx,
		"SELECT COUNT(*) FROM scams WHERE url = $1", url,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports by url: %w", err)
	}
	return count, nil
}

// CountByPhone returns how many reports on file carry this exact phone number
func (r *ScamRepository) CountByPhone(ctx context.Context, phone string) (int64, error) {
	var count int64
	err := r.db.Pool().QueryRow(ctx,
		"SELECT COUNT(*) FROM scams WHERE phone_number = $1", phone,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports by phone: %w", err)
	}
	return count, nil
}

// FindOrIncrement atomically resolves a fresh report against existing rows.
// A row matching the content fingerprint, the exact phone number, or the
// exact URL gets its times_reported incremented; otherwise fresh is
// inserted. Advisory locks on the report's identity keys serialize
// concurrent submissions of the same scam so exactly one row results.
func (r *ScamRepository) FindOrIncrement(ctx context.Context, fresh *models.ScamReport, fingerprint string) (*models.ScamReport, bool, error) {
	var (
		result *models.ScamReport
		merged bool
	)

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		// Locks are taken in sorted order so two reports sharing any subset
		// of identity keys cannot deadlock.
		keys := identityKeys(fresh, fingerprint)
		for _, k := range keys {
			if _, err := tx.Exec(ctx,
				"SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", k,
			); err != nil {
				return fmt.Errorf("failed to acquire advisory lock: %w", err)
			}
		}

		existing, err := findMatch(ctx, tx, fresh, fingerprint)
		if err != nil {
			return err
		}

		if existing != nil {
			row := tx.QueryRow(ctx,
				"UPDATE scams SET times_reported = times_reported + 1, updated_at = now() WHERE id = $1 RETURNING "+scamColumns,
				existing.ID,
			)
			result, err = scanScam(row)
			if err != nil {
				return fmt.Errorf("failed to increment report count: %w", err)
			}
			merged = true
			return nil
		}

		row := tx.QueryRow(ctx,
			`INSERT INTO scams (id, content, type, phone_number, url, reported_at, verified, times_reported)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING `+scamColumns,
			fresh.ID, fresh.Content, fresh.Type,
			textPtrOrNull(fresh.PhoneNumber), textPtrOrNull(fresh.URL),
			timeToTimestamptz(fresh.ReportedAt), fresh.Verified, fresh.TimesReported,
		)
		result, err = scanScam(row)
		if err != nil {
			return fmt.Errorf("failed to insert report: %w", err)
		}
		merged = false
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return result, merged, nil
}

// ListRecent returns confirmed scams, newest first. Confirmed means either
// verified by a moderator or reported more than three times.
func (r *ScamRepository) ListRecent(ctx context.Context, limit int) ([]models.ScamReport, error) {
	rows, err := r.db.Pool().Query(ctx,
		"SELECT "+scamColumns+" FROM scams WHERE verified OR times_reported > 3 ORDER BY reported_at DESC LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent scams: %w", err)
	}
	defer rows.Close()

	reports := make([]models.ScamReport, 0, limit)
	for rows.Next() {
		report, err := scanScam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scam row: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scam rows: %w", err)
	}

	return reports, nil
}

// identityKeys lists the namespaced lock keys for a report, sorted.
func identityKeys(fresh *models.ScamReport, fingerprint string) []string {
	keys := make([]string, 0, 3)
	if fingerprint != "" {
		keys = append(keys, "fp:"+fingerprint)
	}
	if fresh.PhoneNumber != nil {
		keys = append(keys, "phone:"+*fresh.PhoneNumber)
	}
	if fresh.URL != nil {
		keys = append(keys, "url:"+*fresh.URL)
	}
	sort.Strings(keys)
	return keys
}

// sqlNormalizedContent rewrites the stored content into the same canonical
// form the fingerprint is built from: lowercased with whitespace runs
// collapsed to single spaces and trimmed. The two sides of the LIKE must
// agree on this or reports whose content carries a double space would never
// content-match their own resubmission.
const sqlNormalizedContent = `trim(regexp_replace(lower(content), '\s+', ' ', 'g'))`

// findMatch looks up the oldest row matching any of the report's identity
// signals. The fingerprint matches when either normalized content contains
// the other, mirroring the prefix matcher used by the in-memory store.
func findMatch(ctx context.Context, tx pgx.Tx, fresh *models.ScamReport, fingerprint string) (*models.ScamReport, error) {
	query, args := buildMatchQuery(fresh, fingerprint)
	if query == "" {
		return nil, nil
	}

	report, err := scanScam(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find matching report: %w", err)
	}
	return report, nil
}

// buildMatchQuery assembles the disjunctive identity lookup for a fresh
// report. Returns an empty query when the report carries no identity signal.
func buildMatchQuery(fresh *models.ScamReport, fingerprint string) (string, []any) {
	conds := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if fingerprint != "" {
		args = append(args, fingerprint)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(content <> '' AND (%s LIKE '%%' || $%d || '%%' OR $%d LIKE '%%' || %s || '%%'))",
			sqlNormalizedContent, n, n, sqlNormalizedContent,
		))
	}
	if fresh.PhoneNumber != nil {
		args = append(args, *fresh.PhoneNumber)
		conds = append(conds, fmt.Sprintf("phone_number = $%d", len(args)))
	}
	if fresh.URL != nil {
		args = append(args, *fresh.URL)
		conds = append(conds, fmt.Sprintf("url = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}

	query := "SELECT " + scamColumns + " FROM scams WHERE " +
		strings.Join(conds, " OR ") + " ORDER BY reported_at, id LIMIT 1"
	return query, args
}

func scanScam(row pgx.Row) (*models.ScamReport, error) {
	var (
		report     models.ScamReport
		phone, url pgtype.Text
		reportedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&report.ID, &report.Content, &report.Type,
		&phone, &url, &reportedAt,
		&report.Verified, &report.TimesReported,
	)
	if err != nil {
		return nil, err
	}
	report.PhoneNumber = nullTextToPtr(phone)
	report.URL = nullTextToPtr(url)
	report.ReportedAt = timestamptzToTime(reportedAt)
	return &report, nil
}
