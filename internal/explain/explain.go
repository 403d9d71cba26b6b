// Package explain produces human-readable justifications for
// recommendation results. Explanations are annotation only: they never
// influence ranking, and they never fail.
package explain

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/speakerdex/internal/domain"
)

// stopwords are query glue words that carry no matching signal.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "find": {}, "for": {}, "from": {}, "have": {},
	"i": {}, "im": {}, "in": {}, "is": {}, "it": {}, "looking": {},
	"me": {}, "my": {}, "need": {}, "of": {}, "on": {}, "or": {},
	"that": {}, "the": {}, "to": {}, "want": {}, "who": {}, "with": {},
}

// fieldLabel names one record field for explanation text.
type fieldLabel struct {
	label string
	value func(domain.SpeakerRecord) string
}

// fields are checked in the same fixed order the document builder uses,
// keeping explanations deterministic.
var fields = []fieldLabel{
	{"name", func(r domain.SpeakerRecord) string { return r.Name }},
	{"professional title", func(r domain.SpeakerRecord) string { return r.Title }},
	{"company", func(r domain.SpeakerRecord) string { return r.Company }},
	{"session topic", func(r domain.SpeakerRecord) string { return r.SessionTitle }},
	{"session description", func(r domain.SpeakerRecord) string { return r.SessionDescription }},
}

// Lexical explains matches through token overlap between the query and
// record fields, layered on top of the numeric similarity. No second
// model call is involved.
type Lexical struct{}

// New creates a lexical explainer.
func New() *Lexical {
	return &Lexical{}
}

// Explain produces a short deterministic sentence naming the record
// fields (and shared terms) that plausibly drove the match. With no
// lexical overlap it falls back to a generic profile-similarity
// sentence; it never returns an error or an empty string.
func (l *Lexical) Explain(queryText string, rec domain.SpeakerRecord, score float64) string {
	queryTokens := tokens(queryText)

	var matched []string
	for _, f := range fields {
		shared := overlap(queryTokens, tokens(f.value(rec)))
		if len(shared) == 0 {
			continue
		}
		matched = append(matched, fmt.Sprintf("%s (%s)", f.label, strings.Join(shared, ", ")))
	}

	if len(matched) == 0 {
		return fmt.Sprintf("Matched on overall profile similarity (score: %.1f%%).", score*100)
	}

	strength := "somewhat relevant"
	switch {
	case score > 0.7:
		strength = "highly relevant"
	case score > 0.5:
		strength = "relevant"
	}
	return fmt.Sprintf("This speaker is %s based on matches in: %s. The semantic similarity score is %.1f%%.",
		strength, strings.Join(matched, ", "), score*100)
}

// tokens lowercases text and splits it into significant terms, dropping
// stopwords and single-character fragments. Order follows first
// appearance; duplicates are removed.
func tokens(text string) []string {
	raw := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < 2 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// overlap returns the query tokens also present in the field tokens,
// preserving query order.
func overlap(queryTokens, fieldTokens []string) []string {
	if len(queryTokens) == 0 || len(fieldTokens) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(fieldTokens))
	for _, tok := range fieldTokens {
		set[tok] = struct{}{}
	}
	var shared []string
	for _, tok := range queryTokens {
		if _, ok := set[tok]; ok {
			shared = append(shared, tok)
		}
	}
	return shared
}
