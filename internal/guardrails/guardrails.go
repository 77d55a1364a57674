// Package guardrails screens incoming assistant messages for prompt
// injection attempts. The system prompt already instructs the model to ignore
// such attempts, so matches are flagged for tracing rather than blocked.
package guardrails

import "regexp"

// Base heuristics, English plus the pt-BR phrasings store staff actually see.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+(instructions?|prompts?|rules?|directions?)`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior|above)\s+(instructions?|prompts?|rules?)`),
	regexp.MustCompile(`(?i)forget\s+(all\s+)?(previous|prior|above|your)\s+(instructions?|prompts?|rules?|context)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|my)\s+`),
	regexp.MustCompile(`(?i)new\s+instructions?:\s*`),
	regexp.MustCompile(`(?i)system\s*:\s*you\s+are`),
	regexp.MustCompile(`(?i)\bjailbreak\b`),
	regexp.MustCompile(`(?i)ignore\s+(todas\s+as\s+)?(instrucoes|instruções|regras)\s+(anteriores|acima)`),
	regexp.MustCompile(`(?i)esquec[ae]\s+(todas\s+as\s+)?(instrucoes|instruções|regras)`),
	regexp.MustCompile(`(?i)novas?\s+(instrucoes|instruções|regras)\s*:`),
	regexp.MustCompile(`(?i)voce\s+agora\s+e\s+`),
	regexp.MustCompile(`(?i)revele?\s+(seu|o)\s+(prompt|sistema)`),
	regexp.MustCompile(`(?i)reveal\s+(your|the)\s+(system\s+)?(prompt|instructions?)`),
}

// LooksLikeInjection reports whether the message matches a known prompt
// injection pattern.
func LooksLikeInjection(message string) bool {
	for _, re := range injectionPatterns {
		if re.MatchString(message) {
			return true
		}
	}
	return false
}
