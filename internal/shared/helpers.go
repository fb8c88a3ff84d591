// Package shared provides small text helpers used across the adapters and
// the app layer.
package shared

import "strings"

// SplitLines splits content into lines without their terminators. A
// trailing newline does not produce an empty final line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// LineEnding reports the line terminator used by content, defaulting to
// "\n".
func LineEnding(content string) string {
	if idx := strings.Index(content, "\n"); idx > 0 && content[idx-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// UniqueStrings returns values without duplicates, keeping first
// occurrences in order.
func UniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
