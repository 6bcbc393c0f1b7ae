package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DecodeResult is a structured document recovered from raw model output.
type DecodeResult[T any] struct {
	Value    T
	Repaired bool
	keys     map[string]bool
}

// Present reports whether key appeared at the top level of the decoded
// document before any placeholders were added.
func (r DecodeResult[T]) Present(key string) bool {
	return r.keys[key]
}

// DecodeWithRepair extracts a JSON object of type T from raw model output.
// It strips code fences and surrounding prose, keeping the text from the
// first '{' to the last '}'. When the object does not decode, it is cut back
// to the last complete object, every open array and object is closed, the
// placeholders are added for absent top-level keys, and decoding is retried
// once.
func DecodeWithRepair[T any](raw string, placeholders map[string]json.RawMessage) (DecodeResult[T], error) {
	var res DecodeResult[T]

	block := extractJSONBlock(stripCodeFences(raw))
	if block == "" {
		return res, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}
	block = normalizeLeadingDecimalNumbers(stripJSONComments(block))

	keys, err := decodeTopLevel(block)
	if err == nil {
		if err := json.Unmarshal([]byte(block), &res.Value); err != nil {
			return res, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
		res.keys = keys
		return res, nil
	}

	repaired, ok := closeTruncated(block, err)
	if !ok {
		return res, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(repaired), &doc); err != nil {
		return res, fmt.Errorf("%w: repair failed: %v", ErrInvalidOutput, err)
	}
	res.keys = make(map[string]bool, len(doc))
	for k := range doc {
		res.keys[k] = true
	}
	for k, v := range placeholders {
		if _, exists := doc[k]; !exists {
			doc[k] = v
		}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return res, fmt.Errorf("%w: re-encoding repaired document: %v", ErrInvalidOutput, err)
	}
	if err := json.Unmarshal(data, &res.Value); err != nil {
		return res, fmt.Errorf("%w: repaired document: %v", ErrInvalidOutput, err)
	}
	res.Repaired = true
	return res, nil
}

func decodeTopLevel(s string) (map[string]bool, error) {
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, err
	}
	keys := make(map[string]bool, len(doc))
	for k := range doc {
		keys[k] = true
	}
	return keys, nil
}

// closeTruncated cuts s back to the last '}' outside a string at or before
// the decode error position, then appends the closers for every array and
// object still open at that point.
func closeTruncated(s string, decodeErr error) (string, bool) {
	cut := len(s)
	var syntaxErr *json.SyntaxError
	if errors.As(decodeErr, &syntaxErr) && syntaxErr.Offset > 0 && int(syntaxErr.Offset) < cut {
		cut = int(syntaxErr.Offset)
	}
	s = s[:cut]

	last := -1
	scanJSON(s, func(i int, c byte) bool {
		if c == '}' {
			last = i
		}
		return true
	})
	if last < 0 {
		return "", false
	}
	s = s[:last+1]

	var stack []byte
	balanced := true
	scanJSON(s, func(_ int, c byte) bool {
		switch c {
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 || (c == '}') != (stack[len(stack)-1] == '{') {
				balanced = false
				return false
			}
			stack = stack[:len(stack)-1]
		}
		return true
	})
	if !balanced {
		return "", false
	}

	var b strings.Builder
	b.Grow(len(s) + len(stack))
	b.WriteString(s)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String(), true
}

// scanJSON calls fn for every byte of s that is outside a string literal,
// stopping early when fn returns false.
func scanJSON(s string, fn func(i int, c byte) bool) {
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			continue
		}
		if !fn(i, c) {
			return
		}
	}
}

// stripCodeFences drops every markdown fence line (```json, ```).
func stripCodeFences(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for line := range strings.Lines(s) {
		if !strings.HasPrefix(strings.TrimSpace(line), "```") {
			b.WriteString(line)
		}
	}
	return b.String()
}

// extractJSONBlock returns the text from the first '{' to the last '}'.
// Output cut off at the token limit often has no closing brace at all, or
// ends with one that closes an inner object. With no closing brace the tail
// is kept from the first '{' to the end, so the repair step still sees the
// open containers instead of the reply being treated as having no JSON.
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}
	end := strings.LastIndexByte(s, '}')
	if end < start {
		return s[start:]
	}
	return s[start : end+1]
}

// rewriteJSON copies s, handing each byte outside string literals to fn.
// fn writes whatever should be kept and returns how many bytes of s[i:] it
// consumed, at least one. String literals are copied unchanged.
func rewriteJSON(s string, fn func(b *strings.Builder, s string, i int) int) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	inString, escaped := false, false
	for i := 0; i < len(s); {
		c := s[i]
		if inString || c == '"' {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = !inString
			}
			i++
			continue
		}
		i += max(fn(&b, s, i), 1)
	}
	return b.String()
}

// stripJSONComments removes // and /* */ comments outside string values.
// Models sometimes emit them despite instructions not to.
func stripJSONComments(s string) string {
	return rewriteJSON(s, func(b *strings.Builder, s string, i int) int {
		rest := s[i:]
		switch {
		case strings.HasPrefix(rest, "//"):
			if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
				return nl
			}
			return len(rest)
		case strings.HasPrefix(rest, "/*"):
			if end := strings.Index(rest[2:], "*/"); end >= 0 {
				return end + 4
			}
			return len(rest)
		}
		b.WriteByte(rest[0])
		return 1
	})
}

// normalizeLeadingDecimalNumbers rewrites numeric literals such as ".8" or
// "-.3" into "0.8" and "-0.3" outside string values.
func normalizeLeadingDecimalNumbers(s string) string {
	return rewriteJSON(s, func(b *strings.Builder, s string, i int) int {
		c := s[i]
		if c == '.' && i+1 < len(s) && isDigit(s[i+1]) && isNumericBoundary(prevNonSpace(s, i-1)) {
			b.WriteByte('0')
		}
		b.WriteByte(c)
		return 1
	})
}

func prevNonSpace(s string, i int) byte {
	for ; i >= 0; i-- {
		if s[i] != ' ' && s[i] != '\n' && s[i] != '\r' && s[i] != '\t' {
			return s[i]
		}
	}
	return 0
}

func isNumericBoundary(c byte) bool {
	switch c {
	case 0, ':', ',', '[', '{', '-':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
