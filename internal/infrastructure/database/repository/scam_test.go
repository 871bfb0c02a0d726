package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palavaproof-api/internal/domain/models"
	"palavaproof-api/internal/domain/services"
)

func TestBuildMatchQueryNormalizesContent(t *testing.T) {
	// Stored content may carry internal whitespace runs while the
	// fingerprint is always collapsed, so the SQL side must collapse too
	// or a report would never content-match its own resubmission.
	fp := services.Fingerprint("You WON a  big prize, call now", 50)
	require.Equal(t, "you won a big prize, call now", fp)

	query, args := buildMatchQuery(&models.ScamReport{}, fp)

	require.NotEmpty(t, query)
	require.Len(t, args, 1)
	assert.Equal(t, fp, args[0])

	// Both LIKE directions compare against the normalized column.
	assert.Equal(t, 2, strings.Count(query, sqlNormalizedContent))
	assert.Contains(t, sqlNormalizedContent, `regexp_replace(lower(content), '\s+', ' ', 'g')`)
	assert.NotContains(t, query, "lower(content) LIKE")
}

func TestBuildMatchQueryIdentitySignals(t *testing.T) {
	phone := "+231770123456"
	url := "http://bit.ly/xyz"

	query, args := buildMatchQuery(&models.ScamReport{
		PhoneNumber: &phone,
		URL:         &url,
	}, "win cash now")

	require.Len(t, args, 3)
	assert.Equal(t, "win cash now", args[0])
	assert.Equal(t, phone, args[1])
	assert.Equal(t, url, args[2])
	assert.Contains(t, query, "phone_number = $2")
	assert.Contains(t, query, "url = $3")
	assert.Contains(t, query, "ORDER BY reported_at, id LIMIT 1")
}

func TestBuildMatchQueryNoIdentity(t *testing.T) {
	query, args := buildMatchQuery(&models.ScamReport{}, "")

	assert.Empty(t, query)
	assert.Nil(t, args)
}
