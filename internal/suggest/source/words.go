package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/tagstorm/internal/suggest"
)

// DefaultWordLimit caps the matches Words returns for one query.
const DefaultWordLimit = 50

// Words suggests entries of a vocabulary that contain the query as a fuzzy
// subsequence, best match first. An empty query returns the vocabulary in
// insertion order. Words is safe for concurrent use.
type Words struct {
	mu    sync.RWMutex
	words []string
	seen  map[string]struct{}

	limit   int
	weights Weights
}

// WordsOption configures Words.
type WordsOption func(*Words)

// WithLimit caps the number of results. Zero or less means no cap.
func WithLimit(n int) WordsOption {
	return func(w *Words) {
		w.limit = n
	}
}

// WithWeights replaces the scoring weights.
func WithWeights(weights Weights) WordsOption {
	return func(w *Words) {
		w.weights = weights
	}
}

// NewWords creates a vocabulary from words.
func NewWords(words []string, opts ...WordsOption) *Words {
	w := &Words{
		seen:    make(map[string]struct{}),
		limit:   DefaultWordLimit,
		weights: DefaultWeights(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.Add(words...)
	return w
}

// LoadWords reads a vocabulary file with one entry per line. Blank lines
// and lines starting with '#' are skipped.
func LoadWords(path string, opts ...WordsOption) (*Words, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	words, err := ReadWords(f)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	return NewWords(words, opts...), nil
}

// ReadWords parses one entry per line from r.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, sc.Err()
}

// Add appends words not already present, ignoring case.
func (w *Words) Add(words ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range words {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, ok := w.seen[key]; ok {
			continue
		}
		w.seen[key] = struct{}{}
		w.words = append(w.words, s)
	}
}

// Len returns the vocabulary size.
func (w *Words) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.words)
}

type scored struct {
	word  string
	score int
	order int
}

// Suggest implements suggest.Source.
func (w *Words) Suggest(ctx context.Context, query string) (suggest.Result, error) {
	w.mu.RLock()
	words := w.words
	w.mu.RUnlock()

	q := fold(strings.TrimSpace(query))
	if len(q) == 0 {
		return suggest.Strings(w.cap(append([]string(nil), words...))...), nil
	}

	var hits []scored
	for i, word := range words {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return suggest.Result{}, err
			}
		}
		original := []rune(word)
		folded := fold(word)
		m := match(q, folded)
		if m == nil {
			continue
		}
		hits = append(hits, scored{word: word, score: w.weights.score(q, original, folded, m), order: i})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].order < hits[j].order
	})

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.word
	}
	return suggest.Strings(w.cap(out)...), nil
}

func (w *Words) cap(s []string) []string {
	if w.limit > 0 && len(s) > w.limit {
		return s[:w.limit]
	}
	return s
}
