// Package tags normalizes the free-form labels attached to robot versions.
package tags

import (
	"regexp"
	"strings"
)

var (
	accentFolder = strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
		"é", "e", "è", "e", "ê", "e", "ë", "e",
		"í", "i", "ì", "i", "î", "i", "ï", "i",
		"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
		"ú", "u", "ù", "u", "û", "u", "ü", "u",
		"ç", "c", "ñ", "n",
	)

	whitespaceRun = regexp.MustCompile(`[\s\p{Z}]+`)
	disallowed    = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
)

// Normalize maps a raw tag to its canonical form: lowercase ASCII letters,
// digits and single hyphens, with no leading or trailing hyphen.
// Normalize(Normalize(x)) == Normalize(x) for every x.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = accentFolder.Replace(s)
	s = disallowed.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Fold lowercases s and strips accents without touching anything else.
// Used for keyword matching over prose.
func Fold(s string) string {
	return accentFolder.Replace(strings.ToLower(s))
}

// Set keeps normalized tags in insertion order without duplicates.
type Set struct {
	seen  map[string]struct{}
	items []string
}

func NewSet(raw ...string) *Set {
	s := &Set{seen: make(map[string]struct{})}
	s.Add(raw...)
	return s
}

// Add normalizes each tag and keeps it if it is non-empty and new.
func (s *Set) Add(raw ...string) {
	for _, r := range raw {
		t := Normalize(r)
		if t == "" {
			continue
		}
		if _, ok := s.seen[t]; ok {
			continue
		}
		s.seen[t] = struct{}{}
		s.items = append(s.items, t)
	}
}

func (s *Set) Contains(raw string) bool {
	_, ok := s.seen[Normalize(raw)]
	return ok
}

func (s *Set) Len() int {
	return len(s.items)
}

// Slice returns a copy of the tags in insertion order. It is never nil.
func (s *Set) Slice() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Clean normalizes and deduplicates a tag list.
func Clean(raw []string) []string {
	return NewSet(raw...).Slice()
}
