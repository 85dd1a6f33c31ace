// Package sanitize coerces untrusted client input into plain scalar values
// before it is persisted. Labels and placeholders are reduced to plain text;
// boolean flags are decoded from the encodings browsers actually send.
package sanitize

import (
	"encoding/json"
	"html"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// Text strips markup and control characters from raw and normalizes
// whitespace runs to single spaces. No length cap is applied here.
func Text(raw string) string {
	// Replace non-whitespace control characters up front; the HTML parser
	// inside the policy would otherwise turn NUL into U+FFFD.
	pre := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, raw)

	// Sanitize, then decode entities so stored values stay plain text
	// ("T&C" must not become "T&amp;C"). Decoding can expose markup that
	// arrived entity-encoded ("&lt;script&gt;"), so repeat until the value
	// stops changing; each pass strips one level of encoding.
	cleaned := pre
	for i := 0; i < 8; i++ {
		next := html.UnescapeString(policy().Sanitize(cleaned))
		if next == cleaned {
			break
		}
		cleaned = next
	}

	var b strings.Builder
	b.Grow(len(cleaned))
	lastSpace := false
	for _, r := range cleaned {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(b.String())
}

// Key lowercases raw and strips everything outside [a-z0-9_-], the same
// normalization applied to field ids before the allowlist check.
func Key(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Truthy decodes a JSON-encoded flag in the encodings clients send:
// booleans, numbers, and the strings "1"/"true"/"yes"/"on". Missing or
// unrecognized values are false.
func Truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "true", "yes", "on":
			return true
		}
	}
	return false
}

// Float decodes a JSON-encoded amount in the encodings clients send:
// numbers and numeric strings ("12.50"). Missing or unparseable values
// are 0.
func Float(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return 0
}
