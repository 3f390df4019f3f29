package naming

import (
	"fmt"
	"regexp"
	"strconv"
)

// Family is the naming convention a version name follows.
type Family string

const (
	FamilySemantic Family = "semantic"
	FamilyOrdinal  Family = "ordinal"
	FamilyFreeText Family = "free_text"
)

// OrdinalPrefix starts every ordinal name: "Versão 1", "Versão 2", ...
const OrdinalPrefix = "Versão "

var (
	semanticPattern = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)$`)
	ordinalPattern  = regexp.MustCompile(`^Versão (\d+)(?:\.(\d+))?$`)
)

// scheme produces the i-th alternative (i >= 1) for a taken name.
type scheme interface {
	family() Family
	candidate(i int) string
}

type SemVer struct {
	Major, Minor, Patch int
}

func (v SemVer) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseSemantic reads a "vMAJOR.MINOR.PATCH" name.
func ParseSemantic(name string) (SemVer, bool) {
	m := semanticPattern.FindStringSubmatch(name)
	if m == nil {
		return SemVer{}, false
	}
	var v SemVer
	var err error
	if v.Major, err = strconv.Atoi(m[1]); err != nil {
		return SemVer{}, false
	}
	if v.Minor, err = strconv.Atoi(m[2]); err != nil {
		return SemVer{}, false
	}
	if v.Patch, err = strconv.Atoi(m[3]); err != nil {
		return SemVer{}, false
	}
	return v, true
}

// ParseOrdinal reads the number N of a "Versão N" or "Versão N.M" name.
func ParseOrdinal(name string) (int, bool) {
	m := ordinalPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func FormatOrdinal(n int) string {
	return OrdinalPrefix + strconv.Itoa(n)
}

func IsSemantic(name string) bool {
	_, ok := ParseSemantic(name)
	return ok
}

// Classify reports which family base belongs to.
func Classify(base string) Family {
	if IsSemantic(base) {
		return FamilySemantic
	}
	if _, ok := ParseOrdinal(base); ok {
		return FamilyOrdinal
	}
	return FamilyFreeText
}

// newScheme classifies base once and binds the state its family needs.
func newScheme(base string, existing []string) scheme {
	switch Classify(base) {
	case FamilySemantic:
		v, _ := ParseSemantic(base)
		return semanticScheme{base: v}
	case FamilyOrdinal:
		return ordinalScheme{highest: highestOrdinal(existing)}
	default:
		return freeTextScheme{base: base}
	}
}

type semanticScheme struct {
	base SemVer
}

func (semanticScheme) family() Family { return FamilySemantic }

func (s semanticScheme) candidate(i int) string {
	v := s.base
	v.Patch += i
	return v.String()
}

// ordinalScheme counts up from the highest ordinal in use, not from the
// base, so gaps left by deleted versions are never refilled.
type ordinalScheme struct {
	highest int
}

func (ordinalScheme) family() Family { return FamilyOrdinal }

func (s ordinalScheme) candidate(i int) string {
	return FormatOrdinal(s.highest + i)
}

type freeTextScheme struct {
	base string
}

func (freeTextScheme) family() Family { return FamilyFreeText }

func (s freeTextScheme) candidate(i int) string {
	return s.base + "_" + strconv.Itoa(i)
}

func highestOrdinal(names []string) int {
	highest := 0
	for _, name := range names {
		if n, ok := ParseOrdinal(name); ok && n > highest {
			highest = n
		}
	}
	return highest
}
