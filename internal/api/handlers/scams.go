package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"palavaproof-api/internal/config"
	"palavaproof-api/internal/domain/models"
	"palavaproof-api/internal/domain/services"
	"palavaproof-api/internal/infrastructure/cache"
	"palavaproof-api/pkg/logger"
)

// ScamsHandler handles scam checking and reporting endpoints
type ScamsHandler struct {
	scorer   *services.Scorer
	resolver *services.Resolver
	store    services.ReportStore
	cache    *cache.RedisCache
	cfg      config.ScoringConfig
	logger   *logger.Logger
}

// NewScamsHandler creates a new ScamsHandler
func NewScamsHandler(scorer *services.Scorer, resolver *services.Resolver, store services.ReportStore, c *cache.RedisCache, cfg config.ScoringConfig, log *logger.Logger) *ScamsHandler {
	return &ScamsHandler{
		scorer:   scorer,
		resolver: resolver,
		store:    store,
		cache:    c,
		cfg:      cfg,
		logger:   log.WithComponent("scams"),
	}
}

// Home handles GET /
func (h *ScamsHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"message": "🛡️ Palava Proof API is running!",
		"status":  "online",
		"endpoints": map[string]string{
			"check":        "POST /api/check",
			"report":       "POST /api/report",
			"recent_scams": "GET /api/recent-scams",
		},
	})
}

// CheckRequest is the body of POST /api/check
type CheckRequest struct {
	Message string `json:"message"`
}

// Check handles POST /api/check
func (h *ScamsHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	verdict := h.scorer.Score(r.Context(), req.Message)
	h.respondJSON(w, http.StatusOK, verdict)
}

// ReportRequest is the body of POST /api/report
type ReportRequest struct {
	Content     string `json:"content"`
	Type        string `json:"type"`
	PhoneNumber string `json:"phone_number"`
	URL         string `json:"url"`
}

// ReportResponse is the body returned by POST /api/report
type ReportResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	ReportID      string `json:"report_id"`
	TimesReported int    `json:"times_reported"`
}

// Report handles POST /api/report
func (h *ScamsHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.resolver.SubmitReport(r.Context(), models.ReportCandidate{
		Content:     req.Content,
		Type:        req.Type,
		PhoneNumber: req.PhoneNumber,
		URL:         req.URL,
	})
	if err != nil {
		if errors.Is(err, services.ErrInsufficientIdentity) {
			h.respondError(w, http.StatusBadRequest, "report needs content, a phone number, or a URL")
			return
		}
		h.logger.Error().Err(err).Msg("failed to submit report")
		h.respondError(w, http.StatusServiceUnavailable, "could not save report, please try again later")
		return
	}

	message := "Thank you for reporting! Your report helps protect other Liberians."
	if result.Merged {
		message = "Thank you! This scam has been reported before. Your report helps confirm it."
	}

	h.respondJSON(w, http.StatusOK, ReportResponse{
		Status:        "success",
		Message:       message,
		ReportID:      result.Report.ID.String(),
		TimesReported: result.Report.TimesReported,
	})
}

// RecentScams handles GET /api/recent-scams. The body is a bare JSON array
// of reports, empty when nothing qualifies.
func (h *ScamsHandler) RecentScams(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.respondError(w, http.StatusServiceUnavailable, "report store unavailable")
		return
	}

	// Serve from cache when fresh, the feed tolerates short staleness
	if h.cache != nil {
		var cached []models.ScamReport
		if err := h.cache.GetJSON(r.Context(), cache.KeyRecentScams, &cached); err == nil {
			if cached == nil {
				cached = []models.ScamReport{}
			}
			h.respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	limit := h.cfg.RecentScamsLimit
	if limit <= 0 {
		limit = 20
	}

	scams, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list recent scams")
		h.respondError(w, http.StatusServiceUnavailable, "could not fetch recent scams")
		return
	}
	if scams == nil {
		scams = []models.ScamReport{}
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(r.Context(), cache.KeyRecentScams, scams, h.cfg.RecentCacheTTL); err != nil {
			h.logger.Warn().Err(err).Msg("failed to cache recent scams")
		}
	}

	h.respondJSON(w, http.StatusOK, scams)
}

// respondJSON sends a JSON response
func (h *ScamsHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *ScamsHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
