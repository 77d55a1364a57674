package agent

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/sessenta-sabores/assistant-endpoint/internal/snapshot"
	"github.com/sessenta-sabores/assistant-endpoint/pkg/models"
)

// extractJSONCandidate pulls a JSON object out of model output. Models often
// wrap the payload in prose or markdown fences, so after a whole-string parse
// fails it retries on the first-{ to last-} slice.
func extractJSONCandidate(raw string) (map[string]any, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false
	}

	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		if obj, ok := parseObject(trimmed); ok {
			return obj, true
		}
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	return parseObject(trimmed[start : end+1])
}

func parseObject(text string) (map[string]any, bool) {
	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, false
	}
	obj, ok := parsed.(map[string]any)
	return obj, ok
}

const (
	replyWhenUnparseable = "Nao foi possivel gerar resposta estruturada no momento."
	replyWhenMissing     = "Analise concluida com dados locais. Veja os destaques e acoes recomendadas."
)

// repairAssistantPayload validates the model's free-form answer against the
// response contract and substitutes defaults field by field. usedTools always
// comes from the orchestrator's own record of successful tool calls, never
// from the model.
func repairAssistantPayload(rawContent, monthRef string, usedTools []string) (string, models.StructuredAnswer) {
	fallbackHighlights := []string{"Resposta gerada sem estrutura JSON valida do modelo."}
	fallbackActions := []string{"Reformule a pergunta com objetivo mais especifico."}

	root, ok := extractJSONCandidate(rawContent)
	if !ok {
		reply := strings.TrimSpace(rawContent)
		if reply == "" {
			reply = replyWhenUnparseable
		}
		return reply, models.StructuredAnswer{
			Intent:             models.IntentOther,
			MonthRef:           monthRef,
			Highlights:         fallbackHighlights,
			RecommendedActions: fallbackActions,
			UsedTools:          usedTools,
			Confidence:         0.4,
		}
	}

	structured, _ := root["structured"].(map[string]any)

	intent := models.IntentOther
	if s, isString := structured["intent"].(string); isString && models.ValidIntent(s) {
		intent = models.AssistantIntent(s)
	}

	answerMonthRef := monthRef
	if s, isString := structured["monthRef"].(string); isString && snapshot.IsValidMonthRef(s) {
		answerMonthRef = strings.TrimSpace(s)
	}

	reply := replyWhenMissing
	if s, isString := root["reply"].(string); isString && strings.TrimSpace(s) != "" {
		reply = strings.TrimSpace(s)
	}

	return reply, models.StructuredAnswer{
		Intent:             intent,
		MonthRef:           answerMonthRef,
		Highlights:         capList(textList(structured["highlights"], fallbackHighlights), 4),
		RecommendedActions: capList(textList(structured["recommendedActions"], fallbackActions), 5),
		UsedTools:          usedTools,
		Confidence:         normalizeConfidence(structured["confidence"], 0.4),
	}
}

// textList keeps the trimmed non-empty strings of a decoded JSON list,
// falling back when nothing usable remains.
func textList(v any, fallback []string) []string {
	entries, _ := v.([]any)
	var out []string
	for _, entry := range entries {
		if s, ok := entry.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func capList(list []string, limit int) []string {
	if len(list) > limit {
		return list[:limit]
	}
	return list
}

func normalizeConfidence(v any, fallback float64) float64 {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return fallback
		}
		n = parsed
	default:
		return fallback
	}

	switch {
	case math.IsNaN(n):
		return fallback
	case n < 0:
		return 0
	case n > 1:
		return 1
	}
	return n
}
