package handlers

import (
	"palavaproof-api/internal/config"
	"palavaproof-api/internal/domain/services"
	"palavaproof-api/internal/infrastructure/cache"
	"palavaproof-api/internal/infrastructure/database"
	"palavaproof-api/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health *HealthHandler
	Scams  *ScamsHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Scorer   *services.Scorer
	Resolver *services.Resolver
	Store    services.ReportStore
	DB       *database.PostgresDB
	Cache    *cache.RedisCache
	Config   config.ScoringConfig
	Logger   *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Cache, deps.DB, deps.Logger),
		Scams:  NewScamsHandler(deps.Scorer, deps.Resolver, deps.Store, deps.Cache, deps.Config, deps.Logger),
	}
}
