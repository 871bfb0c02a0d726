package repository

import (
	"context"
	"fmt"

	"palavaproof-api/internal/domain/models"
	"palavaproof-api/internal/infrastructure/database"
)

// PatternRepository handles persisted scam pattern rules
type PatternRepository struct {
	db *database.PostgresDB
}

// NewPatternRepository creates a new pattern repository
func NewPatternRepository(db *database.PostgresDB) *PatternRepository {
	return &PatternRepository{db: db}
}

// ListAll returns every stored pattern rule in a stable order
func (r *PatternRepository) ListAll(ctx context.Context) ([]models.PatternRule, error) {
	rows, err := r.db.Pool().Query(ctx,
		"SELECT pattern, description, severity FROM scam_patterns ORDER BY created_at, pattern",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	defer rows.Close()

	var rules []models.PatternRule
	for rows.Next() {
		var rule models.PatternRule
		if err := rows.Scan(&rule.Pattern, &rule.Description, &rule.Severity); err != nil {
			return nil, fmt.Errorf("failed to scan pattern row: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pattern rows: %w", err)
	}

	return rules, nil
}
