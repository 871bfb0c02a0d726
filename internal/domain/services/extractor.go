package services

import (
	"regexp"
	"strings"
)

// Entity extraction grammars. URLs are http(s) schemes followed by a run of
// letters, digits, and characters in the $ through _ ASCII range (which
// covers slashes, dots, and query punctuation), plus @, &, and +; the match
// stops at the first character outside that set. Phone numbers are either
// local format (0 plus nine digits) or international with the +231 country
// code.
var (
	urlPattern   = regexp.MustCompile(`https?://[a-zA-Z0-9$-_@.&+]+`)
	phonePattern = regexp.MustCompile(`0\d{9}|\+231\d{9}`)

	whitespaceRun = regexp.MustCompile(`\s+`)
)

// ExtractURLs pulls candidate URLs out of raw message text, in order of
// appearance. Duplicates are retained; callers dedupe if they need to.
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

// ExtractPhoneNumbers pulls candidate phone numbers out of raw message
// text, in order of appearance.
func ExtractPhoneNumbers(text string) []string {
	return phonePattern.FindAllString(text, -1)
}

// NormalizePhone converts a phone number to the canonical +231 form shared
// by the scorer and the deduplication resolver. Local numbers (leading 0)
// are rewritten to the country-code form; anything else is returned
// trimmed as-is.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) == 10 && phone[0] == '0' {
		return "+231" + phone[1:]
	}
	return phone
}

// NormalizeContent lowercases, collapses whitespace runs, and trims message
// text. This is the normalization the similarity fingerprint is built on.
func NormalizeContent(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(strings.ToLower(text), " "))
}

// Fingerprint returns the bounded-prefix similarity key for report content:
// the first window runes of the normalized text. An empty result means the
// content carries no identity signal.
func Fingerprint(content string, window int) string {
	norm := NormalizeContent(content)
	runes := []rune(norm)
	if len(runes) > window {
		return string(runes[:window])
	}
	return norm
}
