package snapshot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var monthRefPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// CurrentMonthRef returns the current month in YYYY-MM form.
func CurrentMonthRef() string {
	return time.Now().Format("2006-01")
}

// IsValidMonthRef reports whether s is a YYYY-MM reference with month 01-12.
func IsValidMonthRef(s string) bool {
	return monthRefPattern.MatchString(strings.TrimSpace(s))
}

// NormalizeMonthRef returns the trimmed reference when valid, otherwise the
// current month.
func NormalizeMonthRef(s string) string {
	trimmed := strings.TrimSpace(s)
	if monthRefPattern.MatchString(trimmed) {
		return trimmed
	}
	return CurrentMonthRef()
}

var monthsByName = map[string]int{
	"janeiro": 1, "fevereiro": 2, "marco": 3, "abril": 4,
	"maio": 5, "junho": 6, "julho": 7, "agosto": 8,
	"setembro": 9, "outubro": 10, "novembro": 11, "dezembro": 12,
}

var (
	relativeCurrentPattern  = regexp.MustCompile(`\b(mes atual|este mes|nesse mes|neste mes)\b`)
	relativePreviousPattern = regexp.MustCompile(`\b(mes passado|mes anterior)\b`)
	relativeNextPattern     = regexp.MustCompile(`\b(proximo mes|mes que vem)\b`)
	isoMonthPattern         = regexp.MustCompile(`\b((?:19|20)\d{2})-(0[1-9]|1[0-2])\b`)
	slashMonthPattern       = regexp.MustCompile(`\b(0?[1-9]|1[0-2])/((?:19|20)\d{2})\b`)
	namedMonthPattern       = regexp.MustCompile(`\b(janeiro|fevereiro|marco|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)(?: de)?\s+((?:19|20)\d{2})\b`)
)

// ResolveMonthRef extracts a month reference from free pt-BR text, handling
// relative mentions ("mes passado"), ISO and DD/YYYY numeric forms, and
// month names. Falls back to the (normalized) fallback reference.
func ResolveMonthRef(message, fallback string) string {
	base := NormalizeMonthRef(fallback)
	normalized := foldText(message)
	if normalized == "" {
		return base
	}

	if relativeCurrentPattern.MatchString(normalized) {
		return shiftMonthRef(base, 0)
	}
	if relativePreviousPattern.MatchString(normalized) {
		return shiftMonthRef(base, -1)
	}
	if relativeNextPattern.MatchString(normalized) {
		return shiftMonthRef(base, 1)
	}

	if m := isoMonthPattern.FindStringSubmatch(normalized); m != nil {
		if ref, ok := buildMonthRef(m[1], m[2]); ok {
			return ref
		}
	}
	if m := slashMonthPattern.FindStringSubmatch(normalized); m != nil {
		if ref, ok := buildMonthRef(m[2], m[1]); ok {
			return ref
		}
	}
	if m := namedMonthPattern.FindStringSubmatch(normalized); m != nil {
		month := monthsByName[m[1]]
		if ref, ok := buildMonthRef(m[2], strconv.Itoa(month)); ok {
			return ref
		}
	}

	return base
}

func buildMonthRef(yearText, monthText string) (string, bool) {
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return "", false
	}
	month, err := strconv.Atoi(monthText)
	if err != nil || month < 1 || month > 12 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d", year, month), true
}

func shiftMonthRef(ref string, offset int) string {
	year, _ := strconv.Atoi(ref[:4])
	month, _ := strconv.Atoi(ref[5:])
	return time.Date(year, time.Month(month+offset), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// foldText lowercases and strips diacritics so "março" matches "marco".
func foldText(s string) string {
	decomposed := norm.NFD.String(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
