package services

import (
	"fmt"
	"regexp"

	"palavaproof-api/internal/domain/models"
)

// Rule is one compiled scam-indicator rule.
type Rule struct {
	Pattern     string
	Description string
	Severity    int
	expr        *regexp.Regexp
}

// Matches reports whether the rule matches the message, case-insensitively.
func (r Rule) Matches(text string) bool {
	return r.expr.MatchString(text)
}

// RuleSet is the ordered, immutable collection of scam-indicator rules.
// Built once at startup and shared across requests without locking.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet compiles pattern rules in declaration order. Matching is
// case-insensitive; .* gaps in the pattern bridge arbitrary text between
// keyword fragments. A pattern that fails to compile fails the whole load.
func NewRuleSet(patterns []models.PatternRule) (*RuleSet, error) {
	rules := make([]Rule, 0, len(patterns))
	for _, p := range patterns {
		expr, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p.Pattern, err)
		}
		rules = append(rules, Rule{
			Pattern:     p.Pattern,
			Description: p.Description,
			Severity:    p.Severity,
			expr:        expr,
		})
	}
	return &RuleSet{rules: rules}, nil
}

// Rules returns the rules in declaration order. The slice is shared;
// callers must not modify it.
func (rs *RuleSet) Rules() []Rule {
	return rs.rules
}

// Len returns the number of rules in the set.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// DefaultPatternRules returns the built-in scam keyword rules, each with
// the given severity weight.
func DefaultPatternRules(severity int) []models.PatternRule {
	phrases := []struct {
		pattern     string
		description string
	}{
		{`won.*prize`, "Prize-winning bait"},
		{`lottery`, "Lottery scam"},
		{`free.*data`, "Free mobile data bait"},
		{`free.*airtime`, "Free airtime bait"},
		{`claim.*reward`, "Reward-claim bait"},
		{`click.*link.*win`, "Click-to-win link bait"},
		{`verify.*account.*details`, "Account verification phishing"},
		{`update.*orange.*money`, "Orange Money update phishing"},
		{`your.*account.*locked`, "Account lockout scare"},
	}

	rules := make([]models.PatternRule, 0, len(phrases))
	for _, p := range phrases {
		rules = append(rules, models.PatternRule{
			Pattern:     p.pattern,
			Description: p.description,
			Severity:    severity,
		})
	}
	return rules
}
