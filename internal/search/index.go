// Package search provides a small, deterministic, concurrency-safe in-memory
// index over subject names, used to suggest catalog entries while a user
// types. The index is immutable after construction.
//
//   - No logging in the library (callers decide how/what to log)
//   - Unicode-aware tokenization with optional stop-word removal
//   - Deterministic scoring and sorting (stable order for ties)
//
// Scoring uses Jaccard similarity between the query token set Q and each
// name's token set N, where a query token that is a prefix of a name token
// counts as half a match: score = m / |Q ∪ N|. Ties are broken by usage
// count (higher first), then by name.
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Entry is an indexed subject.
type Entry struct {
	ID    int64
	Name  string
	Usage int64
}

// Result is a ranked entry with its similarity score.
type Result struct {
	Entry
	Score float64
}

// Index is the minimal interface implemented by all search indices.
type Index interface {
	TopK(query string, k int) []Result
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	stopwords    map[string]struct{}
	minPrefixLen int
}

func defaultConfig() config {
	return config{
		stopwords:    nil,
		minPrefixLen: 2,
	}
}

// WithStopwords drops the given words from names and queries.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// WithMinPrefixLen sets how many runes a query token needs before it may
// match name tokens by prefix. Zero disables prefix matching.
func WithMinPrefixLen(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.minPrefixLen = n
		}
	}
}

// ----------------------------------------------------------------------------
// Implementation

type doc struct {
	entry  Entry
	tokens map[string]struct{}
}

type index struct {
	cfg  config
	docs []doc
}

// New builds an Index from entries. Entries whose name has no tokens are
// skipped.
func New(entries []Entry, opts ...Option) Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	docs := make([]doc, 0, len(entries))
	for _, e := range entries {
		toks := tokenize(e.Name, cfg.stopwords)
		if len(toks) == 0 {
			continue
		}
		docs = append(docs, doc{entry: e, tokens: toks})
	}
	return &index{cfg: cfg, docs: docs}
}

// TopK returns up to k best-matching entries. k <= 0 defaults to 5.
func (i *index) TopK(q string, k int) []Result {
	if len(i.docs) == 0 {
		return nil
	}
	if strings.TrimSpace(q) == "" {
		return nil
	}
	if k <= 0 {
		k = 5
	}
	qTokens := tokenize(q, i.cfg.stopwords)
	if len(qTokens) == 0 {
		return nil
	}

	buf := make([]Result, 0, min(k*4, len(i.docs)))
	for _, d := range i.docs {
		exact, partial := overlap(qTokens, d.tokens, i.cfg.minPrefixLen)
		matched := float64(exact) + 0.5*float64(partial)
		if matched == 0 {
			continue
		}
		union := float64(len(qTokens) + len(d.tokens) - exact)
		if union <= 0 {
			continue
		}
		buf = append(buf, Result{Entry: d.entry, Score: matched / union})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].Score != buf[b].Score {
			return buf[a].Score > buf[b].Score
		}
		if buf[a].Usage != buf[b].Usage {
			return buf[a].Usage > buf[b].Usage
		}
		la, lb := utf8.RuneCountInString(buf[a].Name), utf8.RuneCountInString(buf[b].Name)
		if la != lb {
			return la < lb
		}
		return buf[a].Name < buf[b].Name
	})

	if k > len(buf) {
		k = len(buf)
	}
	return buf[:k]
}

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`[\p{L}\p{N}]+`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	s = strings.ToLower(s)
	words := wordRE.FindAllString(s, -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

// overlap counts query tokens found in name exactly, and those that only
// prefix some name token.
func overlap(query, name map[string]struct{}, minPrefix int) (exact, partial int) {
	for qt := range query {
		if _, ok := name[qt]; ok {
			exact++
			continue
		}
		if minPrefix == 0 || utf8.RuneCountInString(qt) < minPrefix {
			continue
		}
		for nt := range name {
			if strings.HasPrefix(nt, qt) {
				partial++
				break
			}
		}
	}
	return exact, partial
}
