// Package agent runs the model-facing pipelines: the tool-calling operational
// assistant and the shopping-report generator, both with strict output repair
// so callers always receive the full response contract.
package agent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sessenta-sabores/assistant-endpoint/internal/config"
	"github.com/sessenta-sabores/assistant-endpoint/internal/llm"
	"github.com/sessenta-sabores/assistant-endpoint/internal/snapshot"
	"github.com/sessenta-sabores/assistant-endpoint/internal/tools"
	"github.com/sessenta-sabores/assistant-endpoint/pkg/models"
)

const (
	defaultUserMessage   = "Sem mensagem informada."
	finalizeInstruction  = "Finalize agora. Retorne apenas JSON valido no formato combinado e inclua usedTools coerente."
	contextMessagePrefix = "Contexto local confiavel para ferramentas: "
	fewShotMessagePrefix = "Exemplos few-shot para orientar estilo e uso de ferramentas:\n"
)

// ChatClient is the completion endpoint the agents talk to.
type ChatClient interface {
	ChatCompletion(ctx context.Context, req *llm.ChatRequest) (*llm.AssistantMessage, error)
}

// Assistant answers operational questions using the local business context
// through a bounded tool-calling loop.
type Assistant struct {
	client ChatClient
	cfg    config.ModelConfig
}

// NewAssistant builds the chat assistant on the given completion client.
func NewAssistant(client ChatClient, cfg config.ModelConfig) *Assistant {
	return &Assistant{client: client, cfg: cfg}
}

// ChatInput is one assistant question with its per-request business snapshot.
type ChatInput struct {
	Message  string
	MonthRef string
	Context  any
}

// Run executes the tool-calling loop and returns the repaired response.
// Model-layer errors bubble up so the handler can substitute the fallback.
func (a *Assistant) Run(ctx context.Context, in ChatInput) (*models.AssistantResponse, error) {
	monthRef := snapshot.NormalizeMonthRef(in.MonthRef)
	runtimeCtx := snapshot.NormalizeRuntimeContext(in.Context, monthRef)

	message := strings.TrimSpace(in.Message)
	if message == "" {
		message = defaultUserMessage
	}

	contextJSON, err := json.Marshal(runtimeCtx)
	if err != nil {
		return nil, err
	}

	messages := []llm.Message{{Role: "system", Content: systemPrompt()}}
	if examples := fewShotExamples(); examples != "" {
		messages = append(messages, llm.Message{Role: "system", Content: fewShotMessagePrefix + examples})
	}
	messages = append(messages,
		llm.Message{Role: "system", Content: contextMessagePrefix + string(contextJSON)},
		llm.Message{Role: "user", Content: message},
	)

	usedTools := []string{}
	seenTools := map[string]bool{}
	var finalContent string

	for iteration := 0; iteration < a.cfg.MaxToolIterations; iteration++ {
		reply, err := a.client.ChatCompletion(ctx, &llm.ChatRequest{
			Model:       a.cfg.Model,
			Temperature: a.cfg.Temperature,
			TopP:        a.cfg.TopP,
			MaxTokens:   a.cfg.MaxTokens,
			Messages:    messages,
			Tools:       tools.Definitions(),
			ToolChoice:  "auto",
		})
		if err != nil {
			return nil, err
		}

		if len(reply.ToolCalls) == 0 {
			finalContent = reply.Content
			break
		}

		messages = append(messages, assistantToolCallMessage(reply))
		for _, call := range reply.ToolCalls {
			arguments := call.Function.Arguments
			if arguments == "" {
				arguments = "{}"
			}
			result := tools.Execute(call.Function.Name, arguments, runtimeCtx)
			if result.OK && !seenTools[result.Name] {
				seenTools[result.Name] = true
				usedTools = append(usedTools, result.Name)
			}
			if !result.OK {
				log.Warn().Str("tool", call.Function.Name).Str("error", result.Error).Msg("Tool call failed")
			}

			payload, marshalErr := json.Marshal(result)
			if marshalErr != nil {
				return nil, marshalErr
			}
			messages = append(messages, llm.Message{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    string(payload),
			})
		}
	}

	// Iteration budget exhausted with the model still asking for tools:
	// force a final answer, this time without any tools on offer.
	if finalContent == "" {
		finalMessages := append(messages, llm.Message{Role: "user", Content: finalizeInstruction})
		reply, err := a.client.ChatCompletion(ctx, &llm.ChatRequest{
			Model:       a.cfg.Model,
			Temperature: a.cfg.Temperature,
			TopP:        a.cfg.TopP,
			MaxTokens:   a.cfg.MaxTokens,
			Messages:    finalMessages,
		})
		if err != nil {
			return nil, err
		}
		finalContent = reply.Content
	}

	replyText, structured := repairAssistantPayload(finalContent, monthRef, usedTools)
	return &models.AssistantResponse{
		Reply:       replyText,
		Structured:  structured,
		Provider:    a.cfg.Provider,
		Model:       a.cfg.Model,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// assistantToolCallMessage echoes the model's tool-call turn back into the
// history, normalizing absent fields to the wire defaults.
func assistantToolCallMessage(reply *llm.AssistantMessage) llm.Message {
	calls := make([]llm.ToolCall, 0, len(reply.ToolCalls))
	for _, call := range reply.ToolCalls {
		arguments := call.Function.Arguments
		if arguments == "" {
			arguments = "{}"
		}
		calls = append(calls, llm.ToolCall{
			ID:   call.ID,
			Type: "function",
			Function: llm.FunctionCall{
				Name:      call.Function.Name,
				Arguments: arguments,
			},
		})
	}
	return llm.Message{Role: "assistant", Content: reply.Content, ToolCalls: calls}
}
