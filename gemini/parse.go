package gemini

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pageproof/pageproof"
)

// Pre-compiled regex patterns for JSON extraction from model responses.
var (
	// arrayBlockPattern matches JSON arrays inside markdown code blocks.
	arrayBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\[.*\\])\\s*```")
	// arrayPattern matches any JSON array (greedy fallback).
	arrayPattern = regexp.MustCompile(`(?s)\[[\s\S]*\]`)
	// trailingCommaPattern matches trailing commas before ] or }.
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ParseCorrections decodes the model's response into corrections. The JSON
// response type usually yields a bare array, but models still wrap output
// in markdown fences or prose now and then, so extraction is tolerant.
func ParseCorrections(content string) ([]pageproof.Correction, error) {
	raw := ExtractJSONArray(content)
	if raw == "" {
		return nil, pageproof.Errorf(pageproof.ECORRECTION, "no JSON array in model response")
	}

	var corrections []pageproof.Correction
	if err := json.Unmarshal([]byte(raw), &corrections); err != nil {
		return nil, pageproof.Errorf(pageproof.ECORRECTION, "malformed corrections: %v", err)
	}
	return corrections, nil
}

// ExtractJSONArray extracts a JSON array from a model response string.
// It handles markdown code blocks, JavaScript-style comments, and trailing
// commas.
func ExtractJSONArray(content string) string {
	// Try markdown code block first
	if matches := arrayBlockPattern.FindStringSubmatch(content); len(matches) > 1 {
		return cleanJSON(matches[1])
	}
	// Fallback to raw array
	if match := arrayPattern.FindString(content); match != "" {
		return cleanJSON(match)
	}
	return ""
}

// cleanJSON removes JavaScript-style comments and trailing commas.
// Models commonly produce these invalid JSON artifacts.
func cleanJSON(raw string) string {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, stripLineComment(line))
	}
	result := strings.Join(cleaned, "\n")

	return trailingCommaPattern.ReplaceAllString(result, "$1")
}

// stripLineComment removes a // comment from a JSON line, respecting string
// values so URLs like "http://example.com" survive.
func stripLineComment(line string) string {
	if !strings.Contains(line, "//") {
		return line
	}

	inString := false
	escaped := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if !inString && ch == '/' && i+1 < len(line) && line[i+1] == '/' {
			return strings.TrimRight(line[:i], " \t")
		}
	}
	return line
}
