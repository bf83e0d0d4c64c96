// Package slug turns heading text into the anchor identifiers that
// fragment links point at.
//
// Slugs follow the convention used by GitHub and most static-site
// generators: text is NFC-normalized and lower-cased, letters, numbers,
// hyphens and underscores are kept, spaces become hyphens and all other
// punctuation is dropped. Repeated headings within one document are told
// apart with -1, -2, ... suffixes.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Make returns the base slug for text, without duplicate tracking.
func Make(text string) string {
	var buf strings.Builder
	buf.Grow(len(text))

	prevHyphen := true

	for _, r := range strings.ToLower(norm.NFC.String(text)) {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.Is(unicode.Mn, r), r == '_':
			buf.WriteRune(r)
			prevHyphen = false
		case r == '-' || unicode.IsSpace(r):
			if !prevHyphen {
				buf.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimRight(buf.String(), "-")
}

// Slugger generates slugs for the headings of a single document.
// The zero value is ready to use. A Slugger is not safe for concurrent use.
type Slugger struct {
	seen map[string]int
}

// New returns an empty Slugger.
func New() *Slugger {
	return &Slugger{}
}

// Slug returns the slug for text, suffixed when an earlier call already
// produced the same one.
func (s *Slugger) Slug(text string) string {
	if s.seen == nil {
		s.seen = make(map[string]int)
	}

	base := Make(text)
	result := base

	if n, ok := s.seen[base]; ok {
		for {
			n++
			result = base + "-" + strconv.Itoa(n)
			if _, taken := s.seen[result]; !taken {
				break
			}
		}
		s.seen[base] = n
	}

	s.seen[result] = 0
	return result
}

// Reset forgets every slug generated so far.
func (s *Slugger) Reset() {
	clear(s.seen)
}
