package suggest

import "unicode"

// Segment is a piece of display text, marked when it matches the query.
type Segment struct {
	Text  string
	Match bool
}

// Highlight splits text into segments where every case-insensitive,
// non-overlapping occurrence of query is marked. An empty query yields
// the text as a single unmarked segment.
func Highlight(text, query string) []Segment {
	if text == "" {
		return nil
	}
	tr := []rune(text)
	qr := []rune(query)
	if len(qr) == 0 || len(qr) > len(tr) {
		return []Segment{{Text: text}}
	}

	var segs []Segment
	start := 0
	for i := 0; i+len(qr) <= len(tr); {
		if !foldEqual(tr[i:i+len(qr)], qr) {
			i++
			continue
		}
		if i > start {
			segs = append(segs, Segment{Text: string(tr[start:i])})
		}
		segs = append(segs, Segment{Text: string(tr[i : i+len(qr)]), Match: true})
		i += len(qr)
		start = i
	}
	if start < len(tr) {
		segs = append(segs, Segment{Text: string(tr[start:])})
	}
	return segs
}

func foldEqual(a, b []rune) bool {
	for i := range a {
		if unicode.ToLower(a[i]) != unicode.ToLower(b[i]) {
			return false
		}
	}
	return true
}
