package utils

import (
	"strings"
	"unicode"
)

const fence = "```"

// StripCodeFence returns the body of the first markdown code fence (``` or
// ```json) in a model reply, dropping any prose around it. Text without a
// fence is returned trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, fence)
	if start < 0 {
		return s
	}
	s = s[start+len(fence):]
	// drop the info string ("json", "JSON", ...)
	info := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if info > 0 {
		s = s[info:]
	} else if info < 0 {
		s = ""
	}
	if end := strings.Index(s, fence); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// ExtractJSONObject narrows a model reply to the span from its first '{' to
// its last '}', after removing any code fence. Replies without braces are
// returned as StripCodeFence leaves them.
func ExtractJSONObject(s string) string {
	s = StripCodeFence(s)
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return s
	}
	open, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if open < 0 || end < open {
		return s
	}
	return s[open : end+1]
}
