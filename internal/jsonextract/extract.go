// Package jsonextract recovers a JSON object from free-text model output.
// The generation channel is instructed to return strict JSON but frequently
// wraps it in fences, surrounds it with prose, or emits almost-JSON; recovery
// is an ordered chain of parse strategies with graceful degradation.
package jsonextract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyResponse is returned when the model output is blank.
	ErrEmptyResponse = errors.New("empty model response")
	// ErrNoObject is returned when no {...} span exists in the output.
	ErrNoObject = errors.New("no JSON object found in response")
	// ErrNotAnObject is returned when the relaxed fallback parses the output
	// into something other than an object.
	ErrNotAnObject = errors.New("parsed value is not an object")
)

const snippetLimit = 1000

// UnparseableError reports that every recovery strategy failed. Snippet
// retains the head of the raw output for diagnostics; callers do not retry.
type UnparseableError struct {
	Snippet string
}

func (e *UnparseableError) Error() string {
	return fmt.Sprintf("unparseable model response: %.120q", e.Snippet)
}

// Strategy is one attempt at recovering an object from raw model output.
type Strategy interface {
	Name() string
	Attempt(text string) (map[string]any, error)
}

var chain = []Strategy{
	strictStrategy{},
	objectSpanStrategy{},
	commaRepairStrategy{},
	relaxedStrategy{},
}

// Extract trims and de-fences the raw output, then walks the strategy chain
// until one recovers an object.
func Extract(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyResponse
	}
	raw = stripFence(raw)

	var lastErr error
	for _, s := range chain {
		obj, err := s.Attempt(raw)
		if err == nil {
			return obj, nil
		}
		lastErr = err
	}

	if errors.Is(lastErr, ErrNoObject) || errors.Is(lastErr, ErrNotAnObject) {
		return nil, lastErr
	}
	return nil, &UnparseableError{Snippet: snippet(raw)}
}

var (
	fenceOpen  = regexp.MustCompile("^```[a-zA-Z]*\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
	objectSpan = regexp.MustCompile(`(?s)\{.*\}`)
	trailComma = regexp.MustCompile(`,\s*([}\]])`)
)

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func snippet(s string) string {
	runes := []rune(s)
	if len(runes) > snippetLimit {
		runes = runes[:snippetLimit]
	}
	return string(runes)
}

func parseObject(text string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// strictStrategy parses the whole text as a JSON object.
type strictStrategy struct{}

func (strictStrategy) Name() string { return "strict" }

func (strictStrategy) Attempt(text string) (map[string]any, error) {
	return parseObject(text)
}

// objectSpanStrategy parses the greedy first-{ to last-} span.
type objectSpanStrategy struct{}

func (objectSpanStrategy) Name() string { return "object-span" }

func (objectSpanStrategy) Attempt(text string) (map[string]any, error) {
	span := objectSpan.FindString(text)
	if span == "" {
		return nil, ErrNoObject
	}
	return parseObject(span)
}

// commaRepairStrategy removes commas that immediately precede a closing
// brace or bracket, then retries the strict parse on the span.
type commaRepairStrategy struct{}

func (commaRepairStrategy) Name() string { return "comma-repair" }

func (commaRepairStrategy) Attempt(text string) (map[string]any, error) {
	span := objectSpan.FindString(text)
	if span == "" {
		return nil, ErrNoObject
	}
	return parseObject(trailComma.ReplaceAllString(span, "$1"))
}

// relaxedStrategy tolerates single-quoted strings and Python-style literals
// in the repaired span; the result must still be an object.
type relaxedStrategy struct{}

func (relaxedStrategy) Name() string { return "relaxed-literal" }

func (relaxedStrategy) Attempt(text string) (map[string]any, error) {
	span := objectSpan.FindString(text)
	if span == "" {
		return nil, ErrNoObject
	}
	repaired := trailComma.ReplaceAllString(span, "$1")

	var value any
	if err := json.Unmarshal([]byte(relaxedNormalize(repaired)), &value); err != nil {
		return nil, err
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, ErrNotAnObject
	}
	return obj, nil
}

// relaxedNormalize rewrites literal-style syntax into strict JSON: single
// quoted strings become double quoted and bare True/False/None become their
// JSON spellings. Contents of double-quoted strings are left untouched.
func relaxedNormalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	i, n := 0, len(s)
	for i < n {
		c := s[i]
		switch {
		case c == '"':
			b.WriteByte('"')
			i++
			for i < n {
				if s[i] == '\\' && i+1 < n {
					b.WriteString(s[i : i+2])
					i += 2
					continue
				}
				if s[i] == '"' {
					break
				}
				b.WriteByte(s[i])
				i++
			}
			b.WriteByte('"')
			i++
		case c == '\'':
			b.WriteByte('"')
			i++
			for i < n {
				if s[i] == '\\' && i+1 < n {
					if s[i+1] == '\'' {
						b.WriteByte('\'')
					} else {
						b.WriteString(s[i : i+2])
					}
					i += 2
					continue
				}
				if s[i] == '\'' {
					break
				}
				if s[i] == '"' {
					b.WriteString(`\"`)
					i++
					continue
				}
				b.WriteByte(s[i])
				i++
			}
			b.WriteByte('"')
			i++
		case isIdentByte(c):
			j := i
			for j < n && isIdentByte(s[j]) {
				j++
			}
			switch s[i:j] {
			case "True":
				b.WriteString("true")
			case "False":
				b.WriteString("false")
			case "None":
				b.WriteString("null")
			default:
				b.WriteString(s[i:j])
			}
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
