package answer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Query is immutable once constructed; use NewQuery
type Query struct {
	rawText        string
	normalizedText string
	context        Context
	clientID       string
}

// NewQuery builds a query and derives its normalized text
func NewQuery(rawText string, ctx Context, clientID string) (Query, error) {
	normalized := Normalize(rawText)
	if normalized == "" {
		return Query{}, ErrEmptyQuestion
	}
	return Query{
		rawText:        strings.TrimSpace(rawText),
		normalizedText: normalized,
		context:        ctx,
		clientID:       clientID,
	}, nil
}

func (q Query) RawText() string        { return q.rawText }
func (q Query) NormalizedText() string { return q.normalizedText }
func (q Query) Context() Context       { return q.context }
func (q Query) ClientID() string       { return q.clientID }

// Tokens splits the normalized text into words
func (q Query) Tokens() []string {
	return strings.Fields(q.normalizedText)
}

// CacheKey is derived from the normalized text plus the full context tuple
func (q Query) CacheKey() string {
	sum := sha256.Sum256([]byte(q.normalizedText + "|" + q.context.Key()))
	return hex.EncodeToString(sum[:])
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "am": {}, "i": {}, "me": {}, "my": {},
	"to": {}, "of": {}, "it": {}, "its": {}, "this": {}, "that": {}, "please": {}, "and": {},
	"or": {}, "be": {}, "so": {}, "just": {}, "you": {}, "your": {}, "we": {}, "us": {},
}

// Normalize lowercases, strips punctuation, collapses whitespace and drops a light stopword set.
// If every word is a stopword the cleaned text is kept as-is so short questions stay matchable.
func Normalize(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '\'' {
			return r
		}
		return ' '
	}, lowered)

	words := strings.Fields(cleaned)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, "'")
		if w == "" {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return strings.Join(words, " ")
	}
	return strings.Join(kept, " ")
}
