// Package snapshot normalizes the untrusted business-data snapshots the
// dashboard sends with each request. Every function here is total: malformed
// input produces defaulted values, never an error, so downstream components
// always operate on fully-shaped records.
package snapshot

import (
	"math"
	"strconv"
	"strings"
)

func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asArray(v any) []any {
	if a, ok := v.([]any); ok {
		return a
	}
	return nil
}

// toNumber coerces permissively: numbers pass through, strings are parsed
// including a bare leading numeric prefix ("12abc" -> 12).
func toNumber(v any, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fallback
		}
		return n
	case int:
		return float64(n)
	case string:
		s := strings.TrimSpace(n)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		if f, ok := parseLeadingFloat(s); ok {
			return f
		}
	}
	return fallback
}

// parseLeadingFloat parses the longest numeric prefix of s.
func parseLeadingFloat(s string) (float64, bool) {
	end := 0
	seenDigit := false
	seenDot := false
	for i, r := range s {
		switch {
		case r == '+' || r == '-':
			if i != 0 {
				goto done
			}
		case r == '.':
			if seenDot {
				goto done
			}
			seenDot = true
		case r >= '0' && r <= '9':
			seenDigit = true
		default:
			goto done
		}
		end = i + 1
	}
done:
	if !seenDigit {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimRight(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func toInteger(v any, fallback int) int {
	f := toNumber(v, math.NaN())
	if math.IsNaN(f) {
		return fallback
	}
	return int(math.Trunc(f))
}

func nonNegative(v any) int {
	n := toInteger(v, 0)
	if n < 0 {
		return 0
	}
	return n
}

// toMoney coerces to a currency amount rounded to two decimals.
func toMoney(v any) float64 {
	return math.Round(toNumber(v, 0)*100) / 100
}

// cleanString trims v when it is a string, substituting fallback for
// anything absent, non-string or blank.
func cleanString(v any, fallback string) string {
	if s, ok := v.(string); ok {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

// stringList keeps only non-empty trimmed strings, never returning nil.
func stringList(v any) []string {
	out := []string{}
	for _, entry := range asArray(v) {
		if s, ok := entry.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// objectList keeps only object members, dropping scalars and arrays.
func objectList(v any) []map[string]any {
	var out []map[string]any
	for _, entry := range asArray(v) {
		if m, ok := entry.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
