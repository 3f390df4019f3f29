package extract

import (
	"regexp"
	"strings"

	"devhubtrader.app/forge/internal/tags"
)

type field string

const (
	fieldDescription field = "description"
	fieldTags        field = "tags"
	fieldTimeframes  field = "timeframes"
	fieldAssets      field = "assets"
)

var labelAliases = map[string]field{
	"description": fieldDescription,
	"descrição":   fieldDescription,
	"descricao":   fieldDescription,
	"tags":        fieldTags,
	"etiquetas":   fieldTags,
	"timeframes":  fieldTimeframes,
	"timeframe":   fieldTimeframes,
	"períodos":    fieldTimeframes,
	"periodos":    fieldTimeframes,
	"assets":      fieldAssets,
	"ativos":      fieldAssets,
}

// A label line looks like "Description: ...", optionally bulleted and with
// the label in bold ("- **Tags:** a, b" or "**Tags**: a, b").
var labelLine = regexp.MustCompile(`(?i)^\s*(?:[-*•]\s+)?(?:\*\*|__)?\s*(description|descrição|descricao|tags|etiquetas|timeframes?|períodos|periodos|assets|ativos)\s*(?:\*\*|__)?\s*:\s*(?:\*\*|__)?\s*(.*)$`)

// parseLabels returns the first value found for each labeled field. A value
// continues onto following lines until a blank line, a bold line or the
// next label.
func parseLabels(prose string) map[field]string {
	out := make(map[field]string)
	lines := strings.Split(prose, "\n")

	for i := 0; i < len(lines); i++ {
		m := labelLine.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		f := labelAliases[strings.ToLower(m[1])]

		parts := []string{strings.TrimSpace(m[2])}
		j := i + 1
		for ; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" || strings.HasPrefix(next, "**") || labelLine.MatchString(lines[j]) {
				break
			}
			parts = append(parts, next)
		}

		if _, seen := out[f]; !seen {
			out[f] = joinParts(f, parts)
		}
		i = j - 1
	}
	return out
}

func joinParts(f field, parts []string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if f == fieldDescription {
		return strings.TrimSpace(strings.Trim(strings.Join(kept, "\n"), "*_"))
	}
	// List fields written one item per line become comma separated.
	return strings.Join(kept, ",")
}

var listSeparator = regexp.MustCompile(`[,;]`)

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, item := range listSeparator.Split(value, -1) {
		if c := cleanItem(item); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// cleanItem strips list bullets, markdown emphasis, quotes and trailing
// punctuation around a single list item.
func cleanItem(item string) string {
	item = strings.TrimSpace(item)
	item = strings.TrimLeft(item, "-•* ")
	return strings.Trim(item, " \t.`*_\"'#")
}

var keywordVocabulary = []string{
	"sem trailing",
	"trailing",
	"tendencia",
	"reversao",
	"medias moveis",
	"rompimento",
	"volatilidade",
	"correlacao",
	"alvo longo",
	"alvo curto",
	"scalping",
}

var keywordPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(keywordVocabulary))
	for i, k := range keywordVocabulary {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`)
	}
	return out
}()

// scanKeywords returns the vocabulary terms mentioned in prose, in
// vocabulary order. Matching ignores case and accents.
func scanKeywords(prose string) []string {
	folded := tags.Fold(prose)
	var found []string
	for i, re := range keywordPatterns {
		if re.MatchString(folded) {
			found = append(found, keywordVocabulary[i])
		}
	}
	return found
}
