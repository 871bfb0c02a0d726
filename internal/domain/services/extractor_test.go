package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single url",
			text: "Click here http://bit.ly/win-now to claim",
			want: []string{"http://bit.ly/win-now"},
		},
		{
			name: "https url",
			text: "Visit https://example.com now",
			want: []string{"https://example.com"},
		},
		{
			name: "multiple urls in order",
			text: "http://a.com then https://b.org",
			want: []string{"http://a.com", "https://b.org"},
		},
		{
			name: "keeps path and query",
			text: "go to http://example.com/path?q=1 now",
			want: []string{"http://example.com/path?q=1"},
		},
		{
			name: "stops at disallowed character",
			text: "http://example.com/claim!now",
			want: []string{"http://example.com/claim"},
		},
		{
			name: "no urls",
			text: "just a plain message",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractURLs(tt.text))
		})
	}
}

func TestExtractPhoneNumbers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "local format",
			text: "Call 0778123456 to claim your prize",
			want: []string{"0778123456"},
		},
		{
			name: "international format",
			text: "Send to +231778123456 today",
			want: []string{"+231778123456"},
		},
		{
			name: "both formats",
			text: "0778123456 or +231886123456",
			want: []string{"0778123456", "+231886123456"},
		},
		{
			name: "too short",
			text: "call 077812345",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPhoneNumbers(tt.text))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+231778123456", NormalizePhone("0778123456"))
	assert.Equal(t, "+231778123456", NormalizePhone(" 0778123456 "))
	assert.Equal(t, "+231778123456", NormalizePhone("+231778123456"))
	assert.Equal(t, "12345", NormalizePhone("12345"))
	assert.Equal(t, "", NormalizePhone("  "))
}

func TestNormalizeContent(t *testing.T) {
	assert.Equal(t, "you won a prize", NormalizeContent("  You   WON a\tprize \n"))
	assert.Equal(t, "", NormalizeContent("   \n\t "))
}

func TestFingerprint(t *testing.T) {
	t.Run("short content returned whole", func(t *testing.T) {
		assert.Equal(t, "you won", Fingerprint("You WON", 50))
	})

	t.Run("long content truncated to window", func(t *testing.T) {
		content := "Congratulations! You have won a big lottery prize, claim your reward now"
		fp := Fingerprint(content, 50)
		assert.Len(t, []rune(fp), 50)
		assert.Equal(t, NormalizeContent(content)[:50], fp)
	})

	t.Run("empty content yields empty fingerprint", func(t *testing.T) {
		assert.Equal(t, "", Fingerprint("  ", 50))
	})
}
