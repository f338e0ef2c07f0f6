// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock strips a markdown code fence from a model response. Models
// often wrap JSON in ``` fences even when asked for bare JSON.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := strings.TrimPrefix(text, "```")
	if strings.HasPrefix(body, "json") && (len(body) == 4 || !isLetter(body[4])) {
		body = body[4:]
	}
	// Drop a leading language tag such as "json". A real payload line would
	// contain braces or spaces, so only short bare words are treated as tags.
	if idx := strings.Index(body, "\n"); idx >= 0 {
		tag := strings.TrimSpace(body[:idx])
		if tag != "" && len(tag) < 20 && !strings.ContainsAny(tag, " {[\"") {
			body = body[idx+1:]
		}
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
