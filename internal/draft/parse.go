package draft

import (
	"encoding/json"
	"regexp"
	"strings"
)

// rawObject is one parsed draft object before validation. Values are kept
// loosely typed because model output does not reliably honor the schema.
type rawObject map[string]any

var objectPattern = regexp.MustCompile(`(?s)\{.*?\}`)

// parseObjects recovers draft objects from raw model output.
//
// Strategies are tried in order: first the substring between the first '['
// and the last ']' is parsed as a JSON array; if that fails, brace-delimited
// substrings are extracted and parsed independently, skipping any that are
// not valid JSON objects. A ParseError is returned only when no strategy
// yields a single object.
func parseObjects(text string) ([]rawObject, error) {
	if objs := parseArray(text); len(objs) > 0 {
		return objs, nil
	}
	if objs := parseBraceDelimited(text); len(objs) > 0 {
		return objs, nil
	}
	return nil, &ParseError{Raw: text}
}

func parseArray(text string) []rawObject {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &elements); err != nil {
		return nil
	}

	var objs []rawObject
	for _, el := range elements {
		var obj rawObject
		if err := json.Unmarshal(el, &obj); err != nil {
			continue
		}
		objs = append(objs, obj)
	}
	return objs
}

func parseBraceDelimited(text string) []rawObject {
	var objs []rawObject
	for _, match := range objectPattern.FindAllString(text, -1) {
		var obj rawObject
		if err := json.Unmarshal([]byte(match), &obj); err != nil {
			continue
		}
		objs = append(objs, obj)
	}
	return objs
}
