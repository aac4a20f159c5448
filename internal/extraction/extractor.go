package extraction

import (
	"regexp"
	"strings"
	"unicode"
)

// Extract runs every field rule over one utterance and returns the partial
// field map. Absence of a match is not an error: fields with no match are
// simply omitted. Extract never fails and holds no state between calls.
func Extract(utterance string) PartialFields {
	partial := PartialFields{}
	if strings.TrimSpace(utterance) == "" {
		return partial
	}

	for _, fp := range fieldPatterns {
		matches := captureAll(fp.pattern, utterance)
		if len(matches) == 0 {
			continue
		}
		switch fp.field.Kind() {
		case KindMulti:
			values := make([]string, 0, len(matches))
			for _, m := range matches {
				cleaned := stripWhitespace(m)
				if cleaned != "" {
					values = append(values, cleaned)
				}
			}
			if len(values) > 0 {
				partial[fp.field] = Value{Kind: KindMulti, List: values}
			}
		default:
			// People often restate or correct themselves within one
			// message, so the last match wins for scalar fields.
			last := strings.TrimSpace(matches[len(matches)-1])
			if last != "" {
				partial[fp.field] = Value{Kind: KindScalar, Text: last}
			}
		}
	}

	return partial
}

// captureAll returns the captured span for patterns with a capture group,
// or the whole match for purely structural patterns.
func captureAll(re *regexp.Regexp, text string) []string {
	submatches := re.FindAllStringSubmatch(text, -1)
	if len(submatches) == 0 {
		return nil
	}
	group := 0
	if re.NumSubexp() > 0 {
		group = 1
	}
	out := make([]string, 0, len(submatches))
	for _, sm := range submatches {
		if group < len(sm) {
			out = append(out, sm[group])
		}
	}
	return out
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
