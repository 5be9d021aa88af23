package parse

import (
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/molview/internal/molecule"
)

// splitLines splits on '\n' and strips a trailing '\r' from each line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// parseFloat returns NaN for anything that is not a number.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseInt reads the leading optionally signed integer of s and yields 0
// when there is none. Trailing garbage is ignored.
func parseInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return v
}

func field(tokens []string, i int) string {
	if i < len(tokens) {
		return tokens[i]
	}
	return ""
}

// fixedWidth returns s[start:start+n] clipped to the line length.
func fixedWidth(s string, start, n int) string {
	if start >= len(s) {
		return ""
	}
	end := start + n
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}

func missingLine(line int, what string) error {
	return &molecule.ParseError{Line: line, Wrapped: wrapf(molecule.ErrMalformedStructure, "missing %s", what)}
}
