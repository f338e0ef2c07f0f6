package instruction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/challenge-solver/internal/types"
)

var (
	exactlyNumberRe = regexp.MustCompile(`exactly\s+(\d+)`)
	// taggedNumberRe finds a bare integer sitting between two tags in raw markup.
	taggedNumberRe = regexp.MustCompile(`>\s*(\d+)\s*<`)
)

// maximumKeywords, exactKeyword and outlierKeywords classify the normalized
// instruction text. Checked in priority order; first family to match wins.
var (
	maximumKeywords = []string{"highest", "most", "maximum"}
	exactKeyword    = "exactly"
	outlierKeywords = []string{"pair", "not like the others", "odd one out"}
)

// Interpret parses raw instruction markup into a structured rule. It never
// fails: markup that cannot be parsed or classified yields an unknown rule
// with empty normalized text.
func Interpret(markup string) types.Rule {
	normalized := NormalizeMarkup(markup)
	rule := types.Rule{Kind: types.RuleUnknown, NormalizedText: normalized}
	if normalized == "" {
		return rule
	}

	switch {
	case containsAny(normalized, maximumKeywords):
		rule.Kind = types.RuleMaximum
	case strings.Contains(normalized, exactKeyword):
		rule.Kind = types.RuleExactCount
		if n, ok := extractTarget(normalized, markup); ok {
			rule.Target = n
			rule.HasTarget = true
		}
	case containsAny(normalized, outlierKeywords):
		rule.Kind = types.RuleOutlier
	}
	return rule
}

// NormalizeMarkup strips hidden nodes from instruction markup and returns the
// remaining visible text, lowercased with collapsed whitespace. Malformed
// markup yields an empty string.
func NormalizeMarkup(markup string) string {
	unescaped := unescapeSlashes(markup)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(unescaped))
	if err != nil {
		return ""
	}

	// Challenge authors hide decoy text fragments with inline styles; drop
	// every node whose style marks it invisible before reading the text.
	doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		if styleHidesNode(style) {
			sel.Remove()
		}
	})

	text := strings.ToLower(doc.Text())
	return strings.Join(strings.Fields(text), " ")
}

// styleHidesNode reports whether an inline style declares the node invisible:
// display:none, visibility:hidden, or opacity:0. Matching is on the exact
// declaration value — a typo like "display:nnone" still renders visibly and
// must not be treated as hidden.
func styleHidesNode(style string) bool {
	for _, decl := range strings.Split(style, ";") {
		property, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		property = strings.ToLower(strings.TrimSpace(property))
		value = strings.ToLower(strings.TrimSpace(value))
		switch property {
		case "display":
			if value == "none" {
				return true
			}
		case "visibility":
			if value == "hidden" {
				return true
			}
		case "opacity":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f == 0 {
				return true
			}
		}
	}
	return false
}

// unescapeSlashes undoes JSON-style escaping of forward slashes so markup
// lifted out of a JSON payload parses as HTML.
func unescapeSlashes(s string) string {
	return strings.ReplaceAll(s, `\/`, `/`)
}

// extractTarget pulls the exact-count target: the first integer after
// "exactly" in the normalized text, falling back to the first bare integer
// between angle-bracket tags in the raw markup.
func extractTarget(normalized, rawMarkup string) (int, bool) {
	if m := exactlyNumberRe.FindStringSubmatch(normalized); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	if m := taggedNumberRe.FindStringSubmatch(unescapeSlashes(rawMarkup)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	return 0, false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
