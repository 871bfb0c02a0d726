package repository

import (
	"palavaproof-api/internal/infrastructure/database"
)

// Repositories bundles all database repositories
type Repositories struct {
	Scams    *ScamRepository
	Patterns *PatternRepository
}

// NewRepositories creates the repository bundle
func NewRepositories(db *database.PostgresDB) *Repositories {
	return &Repositories{
		Scams:    NewScamRepository(db),
		Patterns: NewPatternRepository(db),
	}
}
