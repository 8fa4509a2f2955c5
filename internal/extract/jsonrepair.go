package extract

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrUnrepairable is returned when no JSON value can be recovered from the
// model output.
var ErrUnrepairable = errors.New("text contains no repairable JSON value")

// RepairJSON applies a best-effort, deterministic transform that fixes the
// common syntactic defects of model-emitted JSON: surrounding code fences and
// prose, trailing commas, and unbalanced brackets or braces. It is pure: the
// same input always yields the same output, and no I/O is performed.
//
// The returned text is guaranteed to parse as a JSON value; if repair cannot
// get there, ErrUnrepairable is returned and the caller must fail rather
// than guess.
func RepairJSON(text string) (string, error) {
	candidate := stripFences(text)
	candidate = trimToJSONValue(candidate)
	if candidate == "" {
		return "", ErrUnrepairable
	}

	// balance first so a comma left dangling at a truncation point becomes a
	// trailing comma the next pass can drop
	candidate = balanceBrackets(candidate)
	candidate = removeTrailingCommas(candidate)

	if !json.Valid([]byte(candidate)) {
		return "", ErrUnrepairable
	}
	return candidate, nil
}

// stripFences removes markdown code fences (``` or ```json) around the text.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		// drop the language tag line
		text = text[idx+1:]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// trimToJSONValue cuts leading and trailing prose around the outermost
// object or array. The end of the value is found by tracking bracket depth
// with string awareness; if the depth never returns to zero the text was
// truncated mid-value and is kept whole for balanceBrackets to finish.
func trimToJSONValue(text string) string {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}
	text = text[start:]

	depth := 0
	inString := false
	escaped := false
	for i, r := range text {
		if inString {
			if escaped {
				escaped = false
			} else if r == '\\' {
				escaped = true
			} else if r == '"' {
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return text
}

// removeTrailingCommas drops commas that directly precede a closing brace or
// bracket, outside of strings.
func removeTrailingCommas(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inString := false
	escaped := false
	pendingComma := false
	var pendingWS strings.Builder

	for _, r := range text {
		if inString {
			b.WriteRune(r)
			if escaped {
				escaped = false
			} else if r == '\\' {
				escaped = true
			} else if r == '"' {
				inString = false
			}
			continue
		}

		switch {
		case r == '"':
			flushPending(&b, &pendingComma, &pendingWS)
			inString = true
			b.WriteRune(r)
		case r == ',':
			flushPending(&b, &pendingComma, &pendingWS)
			pendingComma = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if pendingComma {
				pendingWS.WriteRune(r)
			} else {
				b.WriteRune(r)
			}
		case r == '}' || r == ']':
			// the pending comma was trailing, drop it but keep whitespace
			if pendingComma {
				b.WriteString(pendingWS.String())
				pendingComma = false
				pendingWS.Reset()
			}
			b.WriteRune(r)
		default:
			flushPending(&b, &pendingComma, &pendingWS)
			b.WriteRune(r)
		}
	}
	flushPending(&b, &pendingComma, &pendingWS)
	return b.String()
}

func flushPending(b *strings.Builder, pendingComma *bool, pendingWS *strings.Builder) {
	if *pendingComma {
		b.WriteRune(',')
		b.WriteString(pendingWS.String())
		*pendingComma = false
		pendingWS.Reset()
	}
}

// balanceBrackets appends the closers needed to balance unclosed objects and
// arrays, and closes a string the model left open. Extra closers with no
// matching opener are dropped.
func balanceBrackets(text string) string {
	var stack []rune
	var b strings.Builder
	b.Grow(len(text) + 8)

	inString := false
	escaped := false

	for _, r := range text {
		if inString {
			b.WriteRune(r)
			if escaped {
				escaped = false
			} else if r == '\\' {
				escaped = true
			} else if r == '"' {
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			inString = true
			b.WriteRune(r)
		case '{', '[':
			stack = append(stack, r)
			b.WriteRune(r)
		case '}':
			if len(stack) > 0 && stack[len(stack)-1] == '{' {
				stack = stack[:len(stack)-1]
				b.WriteRune(r)
			}
		case ']':
			if len(stack) > 0 && stack[len(stack)-1] == '[' {
				stack = stack[:len(stack)-1]
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}

	if inString {
		b.WriteRune('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteRune('}')
		} else {
			b.WriteRune(']')
		}
	}
	return b.String()
}
