// Package naming picks collision-free names for robot versions.
package naming

import (
	"strconv"
	"time"
)

const DefaultMaxAttempts = 100

// Allocation is the outcome of Allocate. Degraded is set when every
// candidate of the family was taken and a timestamp suffix was used.
type Allocation struct {
	Name     string
	Family   Family
	Degraded bool
}

type Allocator struct {
	// Now is read only on the degraded path. Defaults to time.Now.
	Now func() time.Time
}

func NewAllocator() *Allocator {
	return &Allocator{Now: time.Now}
}

// Allocate returns base when it is free, otherwise the first free candidate
// of base's family within maxAttempts tries, otherwise base suffixed with a
// millisecond timestamp. An empty base means "Versão 1". existing is never
// modified. maxAttempts <= 0 means DefaultMaxAttempts.
func (a *Allocator) Allocate(base string, existing []string, maxAttempts int) Allocation {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if base == "" {
		base = FormatOrdinal(1)
	}

	taken := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		taken[name] = struct{}{}
	}

	s := newScheme(base, existing)
	if _, ok := taken[base]; !ok {
		return Allocation{Name: base, Family: s.family()}
	}

	for i := 1; i <= maxAttempts; i++ {
		name := s.candidate(i)
		if _, ok := taken[name]; !ok {
			return Allocation{Name: name, Family: s.family()}
		}
	}

	return Allocation{Name: a.timestamped(base, taken), Family: s.family(), Degraded: true}
}

func (a *Allocator) timestamped(base string, taken map[string]struct{}) string {
	now := time.Now
	if a != nil && a.Now != nil {
		now = a.Now
	}
	ms := now().UnixMilli()
	for {
		name := base + "_" + strconv.FormatInt(ms, 10)
		if _, ok := taken[name]; !ok {
			return name
		}
		ms++
	}
}

// NextOrdinal proposes the ordinal name after the highest one in use.
// "Versão 3.1" counts as 3.
func NextOrdinal(existing []string) string {
	return FormatOrdinal(highestOrdinal(existing) + 1)
}

// SuggestNext proposes the semantic name after the highest one in use,
// bumping the patch component. Without any semantic name it suggests
// v1.0.0.
func SuggestNext(existing []string) string {
	var best SemVer
	found := false
	for _, name := range existing {
		v, ok := ParseSemantic(name)
		if !ok {
			continue
		}
		if !found || less(best, v) {
			best, found = v, true
		}
	}
	if !found {
		return SemVer{Major: 1}.String()
	}
	best.Patch++
	return best.String()
}

func less(a, b SemVer) bool {
	if a.Major != b.Major {
		return a.Major < b.Major
	}
	if a.Minor != b.Minor {
		return a.Minor < b.Minor
	}
	return a.Patch < b.Patch
}
