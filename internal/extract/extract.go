// Package extract recovers a script and its metadata from a free-text
// assistant reply. Parsing is best effort: Extract never fails and returns
// whatever it could find.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"devhubtrader.app/forge/internal/tags"
)

// Metadata is the machine-readable block the assistant is asked to append
// to its reply as a fenced json block.
type Metadata struct {
	Description string   `json:"description" jsonschema:"description=One or two sentences describing what changed in this version"`
	Tags        []string `json:"tags" jsonschema:"description=Short lowercase labels for the strategy style"`
	Timeframes  []string `json:"timeframes,omitempty" jsonschema:"description=Chart timeframes such as M5 or H1"`
	Assets      []string `json:"assets,omitempty" jsonschema:"description=Ticker symbols such as WINFUT or PETR4"`
}

// Hints are selections the user made in the guided form. They only
// contribute tags.
type Hints struct {
	Timeframes []string
	Assets     []string
}

type Result struct {
	Code        *string
	Description *string
	Tags        []string
	Timeframes  []string
	Assets      []string
	// Prose is the reply with every fenced block removed.
	Prose string
	// Structured is true when a valid json metadata block was found.
	Structured bool
}

var (
	fencedBlock   = regexp.MustCompile("(?s)```([A-Za-z0-9_+-]*)[ \\t]*\\r?\\n(.*?)```")
	excessNewline = regexp.MustCompile(`\n{3,}`)
)

// Extract parses reply. The same input always yields the same Result.
func Extract(reply string, hints Hints) Result {
	reply = strings.ReplaceAll(reply, "\r\n", "\n")

	var (
		code *string
		meta *Metadata
	)
	for _, m := range fencedBlock.FindAllStringSubmatch(reply, -1) {
		lang, body := strings.ToLower(m[1]), m[2]
		switch {
		case isScriptLanguage(lang):
			if c := strings.TrimSpace(body); c != "" {
				code = &c
			}
		case lang == "json":
			if md, ok := parseMetadata(body); ok {
				meta = md
			}
		}
	}

	prose := fencedBlock.ReplaceAllString(reply, "")
	prose = strings.TrimSpace(excessNewline.ReplaceAllString(prose, "\n\n"))

	res := Result{
		Code:       code,
		Prose:      prose,
		Structured: meta != nil,
		Timeframes: []string{},
		Assets:     []string{},
	}

	labeled := parseLabels(prose)

	var explicitTags []string
	if meta != nil {
		if d := strings.TrimSpace(meta.Description); d != "" {
			res.Description = &d
		}
		explicitTags = meta.Tags
		res.Timeframes = upperList(meta.Timeframes)
		res.Assets = upperList(meta.Assets)
	}

	if res.Description == nil {
		if d, ok := labeled[fieldDescription]; ok && d != "" {
			res.Description = &d
		}
	}
	if len(explicitTags) == 0 {
		explicitTags = splitList(labeled[fieldTags])
	}
	if len(res.Timeframes) == 0 {
		res.Timeframes = upperList(splitList(labeled[fieldTimeframes]))
	}
	if len(res.Assets) == 0 {
		res.Assets = upperList(splitList(labeled[fieldAssets]))
	}

	set := tags.NewSet(explicitTags...)
	if set.Len() == 0 {
		set.Add(scanKeywords(prose)...)
	}
	for _, tf := range res.Timeframes {
		set.Add("tf-" + tf)
	}
	for _, a := range res.Assets {
		set.Add("ativo-" + a)
	}
	for _, tf := range hints.Timeframes {
		set.Add("tf-" + tf)
	}
	for _, a := range hints.Assets {
		set.Add("ativo-" + a)
	}
	res.Tags = set.Slice()

	return res
}

func isScriptLanguage(lang string) bool {
	return lang == "" || lang == "ntsl"
}

func parseMetadata(body string) (*Metadata, bool) {
	var md Metadata
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &md); err != nil {
		return nil, false
	}
	if md.Description == "" && len(md.Tags) == 0 && len(md.Timeframes) == 0 && len(md.Assets) == 0 {
		return nil, false
	}
	return &md, true
}

// upperList upper-cases items and drops duplicates, keeping first-seen order.
func upperList(items []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		u := strings.ToUpper(cleanItem(it))
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
