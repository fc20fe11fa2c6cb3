// Package category maps report comment bodies onto the fixed abuse taxonomy.
package category

import (
	"strings"
)

// TriggerMention must appear in a comment body before any category matching
// happens; without it the classifier fails closed.
const TriggerMention = "@steemflagrewards"

// Taxonomy is the fixed, ordered list of recognized abuse categories. The
// ordering carries precedence semantics: because the scan returns the first
// match, a multi-word category must come before any single-word category
// that is a substring of it ("comment spam" before "spam", "vote abuse"
// before... etc). The alphabetical order happens to satisfy this; keep it
// that way when adding entries.
var Taxonomy = []string{
	"bid bot abuse",
	"bid bot misuse",
	"collusive voting",
	"comment self-vote violation",
	"comment spam",
	"copy/paste",
	"death threats",
	"failure to tag nsfw",
	"identity theft",
	"manipulation",
	"phishing",
	"plagiarism",
	"post farming",
	"scam",
	"spam",
	"tag abuse",
	"tag misuse",
	"testing for rewards",
	"threat",
	"vote abuse",
	"vote farming",
}

// Classify returns the first matching category in taxonomy order, or false
// when the body lacks the trigger mention or contains no category keyword.
func Classify(body string) (string, bool) {
	lower := strings.ToLower(body)
	if !strings.Contains(lower, TriggerMention) {
		return "", false
	}
	for _, cat := range Taxonomy {
		if strings.Contains(lower, cat) {
			return cat, true
		}
	}
	return "", false
}
