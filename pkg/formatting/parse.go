package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Parsing errors for structured content extraction.
var (
	// ErrNoJSONFound is returned when the content contains nothing that
	// resembles a JSON object.
	ErrNoJSONFound = errors.New("no JSON object found in response")
	// ErrParseFailed is returned when a JSON-like fragment was located but
	// could not be unmarshaled.
	ErrParseFailed = errors.New("failed to parse response")
)

var (
	jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")
	jsonBraceRegex = regexp.MustCompile(`(?s)\{.*\}`)
)

// Parse extracts and unmarshals a JSON object from free-form generated text.
// It tries the whole content first, then a markdown code fence, then the
// first brace-delimited fragment. Generation collaborators routinely wrap
// JSON in commentary, so the fragment search is part of the contract, not a
// convenience. Returns ErrNoJSONFound when no fragment resembles JSON and
// ErrParseFailed when a fragment exists but cannot be unmarshaled.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	if matches := jsonBlockRegex.FindStringSubmatch(content); len(matches) >= 2 {
		cleaned := strings.TrimSpace(matches[1])
		if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
			return result, nil
		}
	}

	fragment := jsonBraceRegex.FindString(content)
	if fragment == "" {
		return result, fmt.Errorf("%w: %s", ErrNoJSONFound, summarize(content))
	}

	if err := json.Unmarshal([]byte(fragment), &result); err != nil {
		return result, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	return result, nil
}

// Truncate returns at most n bytes of s, used to bound prompt content
// previews. The cut backs up to a rune boundary so the result is always
// valid UTF-8.
func Truncate(s string, n int) string {
	if n < 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func summarize(content string) string {
	const maxLen = 120
	if len(content) > maxLen {
		return content[:maxLen] + "..."
	}
	return content
}
