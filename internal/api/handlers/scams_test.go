package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palavaproof-api/internal/api/handlers"
	"palavaproof-api/internal/config"
	"palavaproof-api/internal/domain/models"
	"palavaproof-api/internal/domain/services"
	"palavaproof-api/internal/infrastructure/memstore"
	"palavaproof-api/pkg/logger"
)

func testScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		RuleWeight:       20,
		URLWeight:        30,
		PhoneWeight:      25,
		MaxConfidence:    100,
		SimilarityWindow: 50,
		RecentScamsLimit: 20,
	}
}

func newTestHandler(t *testing.T) (*handlers.ScamsHandler, *memstore.Store) {
	t.Helper()
	cfg := testScoringConfig()
	log := logger.NewDefault()

	store := memstore.New(services.PrefixMatcher{Window: cfg.SimilarityWindow})
	rules, err := services.NewRuleSet(services.DefaultPatternRules(cfg.RuleWeight))
	require.NoError(t, err)

	scorer := services.NewScorer(rules, store, nil, cfg, log)
	resolver := services.NewResolver(store, cfg, log)
	return handlers.NewScamsHandler(scorer, resolver, store, nil, cfg, log), store
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHome(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h.Home, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "🛡️ Palava Proof API is running!", body["message"])
	assert.Equal(t, "online", body["status"])
	assert.Contains(t, body, "endpoints")
}

func TestCheck(t *testing.T) {
	h, _ := newTestHandler(t)

	t.Run("scam message", func(t *testing.T) {
		rec := doJSON(t, h.Check, http.MethodPost, "/api/check",
			`{"message": "You won a big prize! Claim your reward now"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var verdict models.Verdict
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
		assert.True(t, verdict.IsScam)
		assert.Equal(t, 40, verdict.Confidence)
		assert.Len(t, verdict.Warnings, 2)
		assert.NotNil(t, verdict.SimilarScams)
	})

	t.Run("clean message", func(t *testing.T) {
		rec := doJSON(t, h.Check, http.MethodPost, "/api/check",
			`{"message": "see you at church on sunday"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var verdict models.Verdict
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
		assert.False(t, verdict.IsScam)
		assert.Equal(t, 0, verdict.Confidence)
	})

	t.Run("missing message field scores empty", func(t *testing.T) {
		rec := doJSON(t, h.Check, http.MethodPost, "/api/check", `{}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var verdict models.Verdict
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
		assert.False(t, verdict.IsScam)
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := doJSON(t, h.Check, http.MethodPost, "/api/check", `not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReport(t *testing.T) {
	h, store := newTestHandler(t)

	t.Run("first report", func(t *testing.T) {
		rec := doJSON(t, h.Report, http.MethodPost, "/api/report",
			`{"content": "You won a lottery prize, call now", "phone_number": "0778123456"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Status        string `json:"status"`
			Message       string `json:"message"`
			ReportID      string `json:"report_id"`
			TimesReported int    `json:"times_reported"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		assert.True(t, strings.HasPrefix(resp.Message, "Thank you for reporting!"))
		assert.NotEmpty(t, resp.ReportID)
		assert.Equal(t, 1, resp.TimesReported)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("duplicate report merges", func(t *testing.T) {
		rec := doJSON(t, h.Report, http.MethodPost, "/api/report",
			`{"content": "you won a LOTTERY prize, call now"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Message       string `json:"message"`
			TimesReported int    `json:"times_reported"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Message, "reported before")
		assert.Equal(t, 2, resp.TimesReported)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("empty report rejected", func(t *testing.T) {
		rec := doJSON(t, h.Report, http.MethodPost, "/api/report", `{"type": "sms"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := doJSON(t, h.Report, http.MethodPost, "/api/report", `{{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReportFeedsCheck(t *testing.T) {
	h, _ := newTestHandler(t)

	// Report the same phone number four times
	for i := 0; i < 4; i++ {
		rec := doJSON(t, h.Report, http.MethodPost, "/api/report",
			`{"content": "send money to this number", "phone_number": "0778123456"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, h.Check, http.MethodPost, "/api/check",
		`{"message": "please call 0778123456 today"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var verdict models.Verdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
	assert.True(t, verdict.IsScam)
	assert.Equal(t, 25, verdict.Confidence)
	assert.Contains(t, verdict.Warnings, "This phone number has been reported as a scam 1 times")
}

func TestRecentScams(t *testing.T) {
	h, store := newTestHandler(t)

	// Five reports of one scam make it confirmed
	for i := 0; i < 5; i++ {
		rec := doJSON(t, h.Report, http.MethodPost, "/api/report",
			`{"content": "you won a prize, claim your reward", "url": "http://bit.ly/claim"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	// A one-off report stays out of the feed
	rec := doJSON(t, h.Report, http.MethodPost, "/api/report",
		`{"content": "some entirely different unconfirmed scam"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, store.Len())

	rec = doJSON(t, h.RecentScams, http.MethodGet, "/api/recent-scams", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// The feed is a bare array of reports
	var scams []models.ScamReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scams))
	require.Len(t, scams, 1)
	assert.Equal(t, 5, scams[0].TimesReported)
}

func TestRecentScamsEmpty(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h.RecentScams, http.MethodGet, "/api/recent-scams", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Empty feed is an empty array, never null
	assert.JSONEq(t, `[]`, rec.Body.String())
}
