package aiextract

import (
	"regexp"
	"strings"
)

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// RecoverJSON pulls a JSON object out of model output that may be wrapped in
// a fenced block or surrounded by prose: fenced block first, else the span
// from the first '{' to the last '}'. Returns nil when no object is present.
func RecoverJSON(text string) []byte {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		return []byte(m[1])
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return nil
	}
	return []byte(text[start : end+1])
}
