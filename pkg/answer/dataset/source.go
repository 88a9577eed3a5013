package dataset

import (
	"strings"
	"time"

	"pregnancy-nutrition-be/pkg/answer"
)

const DefaultMinOverlap = 1

// Record is one curated question/topic → answer entry
type Record struct {
	ID     string   `yaml:"id" json:"id"`
	Topic  string   `yaml:"topic" json:"topic"`
	Tags   []string `yaml:"tags" json:"tags"`
	Answer string   `yaml:"answer" json:"answer"`
	Dos    []string `yaml:"dos" json:"dos,omitempty"`
	Donts  []string `yaml:"donts" json:"donts,omitempty"`
}

// Match describes why a record was picked
type Match struct {
	Record  Record
	Tag     string
	Overlap int
}

// ignoredWords never count towards overlap: they appear in almost every question
var ignoredWords = map[string]struct{}{
	"can": {}, "could": {}, "should": {}, "would": {}, "was": {}, "were": {}, "have": {}, "has": {},
	"had": {}, "do": {}, "does": {}, "did": {}, "will": {}, "eat": {}, "eating": {}, "drink": {},
	"consume": {}, "take": {}, "safe": {}, "okay": {}, "ok": {}, "good": {}, "bad": {}, "during": {},
	"pregnancy": {}, "pregnant": {}, "women": {}, "woman": {}, "about": {}, "what": {}, "which": {},
	"when": {}, "how": {}, "why": {}, "in": {}, "on": {}, "at": {}, "for": {}, "with": {}, "from": {},
	"by": {}, "as": {}, "much": {}, "many": {}, "some": {}, "any": {},
}

type indexedTag struct {
	recordIdx int
	phrase    string
	tokens    []string
}

// Source matches queries against records loaded once at startup.
// It is read-only after construction and safe for concurrent use.
type Source struct {
	records    []Record
	tags       []indexedTag
	minOverlap int
}

func NewSource(records []Record, minOverlap int) *Source {
	if minOverlap <= 0 {
		minOverlap = DefaultMinOverlap
	}
	s := &Source{
		records:    append([]Record(nil), records...),
		minOverlap: minOverlap,
	}
	for i, r := range s.records {
		for _, tag := range r.Tags {
			phrase := answer.Normalize(tag)
			if phrase == "" {
				continue
			}
			s.tags = append(s.tags, indexedTag{recordIdx: i, phrase: phrase, tokens: strings.Fields(phrase)})
		}
	}
	return s
}

func (s *Source) Len() int {
	return len(s.records)
}

// Lookup returns the best matching record as a dataset candidate.
// The boolean is false when nothing clears the minimum overlap.
func (s *Source) Lookup(q answer.Query) (answer.Candidate, bool) {
	start := time.Now()
	m, ok := s.Match(q)
	if !ok {
		return answer.Candidate{}, false
	}
	return answer.Candidate{
		Text:       m.Record.Answer,
		SourceTier: answer.TierDataset,
		Provider:   "dataset:" + m.Record.ID,
		Latency:    time.Since(start),
		Dos:        append([]string(nil), m.Record.Dos...),
		Donts:      append([]string(nil), m.Record.Donts...),
	}, true
}

// Match ranks by overlap, then by the shortest (most specific) tag, then by record order
func (s *Source) Match(q answer.Query) (Match, bool) {
	queryTokens := make(map[string]struct{})
	for _, tok := range q.Tokens() {
		if _, skip := ignoredWords[tok]; skip {
			continue
		}
		queryTokens[tok] = struct{}{}
	}
	padded := " " + q.NormalizedText() + " "

	var best *indexedTag
	bestOverlap := 0
	for i := range s.tags {
		tag := &s.tags[i]
		overlap := tagOverlap(tag, padded, queryTokens)
		if overlap < s.minOverlap || overlap == 0 {
			continue
		}
		if best == nil || overlap > bestOverlap ||
			(overlap == bestOverlap && len(tag.phrase) < len(best.phrase)) {
			best = tag
			bestOverlap = overlap
		}
	}

	if best == nil {
		return Match{}, false
	}
	return Match{Record: s.records[best.recordIdx], Tag: best.phrase, Overlap: bestOverlap}, true
}

func tagOverlap(tag *indexedTag, padded string, queryTokens map[string]struct{}) int {
	if containsPhrase(padded, tag.phrase) {
		meaningful := 0
		for _, tok := range tag.tokens {
			if _, skip := ignoredWords[tok]; !skip {
				meaningful++
			}
		}
		return meaningful
	}

	overlap := 0
	for _, tok := range tag.tokens {
		if _, skip := ignoredWords[tok]; skip {
			continue
		}
		if _, ok := queryTokens[tok]; ok {
			overlap++
		}
	}
	return overlap
}

// phraseSuffixes are the plural endings accepted after a whole tag phrase
var phraseSuffixes = []string{" ", "s ", "es "}

// containsPhrase reports whether phrase occurs in padded as whole words,
// optionally pluralised ("egg" matches "eggs" but not "eggplant")
func containsPhrase(padded, phrase string) bool {
	for _, suffix := range phraseSuffixes {
		if strings.Contains(padded, " "+phrase+suffix) {
			return true
		}
	}
	return false
}
