// Package tools implements the assistant's fixed set of read-only query
// functions over the runtime context, plus their JSON-schema declarations in
// the chat-completions wire shape.
package tools

import "github.com/sessenta-sabores/assistant-endpoint/internal/llm"

// Tool names, as advertised to the model.
const (
	NameMonthlyOrdersSummary = "get_monthly_orders_summary"
	NameRestockSummary       = "get_restock_summary"
	NameItemsCatalog         = "get_items_catalog"
	NameEstimateMonthlyCost  = "estimate_monthly_cost"
)

func monthRefSchema() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Mes de referencia no formato YYYY-MM.",
		"pattern":     `^\d{4}-(0[1-9]|1[0-2])$`,
	}
}

// Definitions returns the tool declarations sent with every assistant call.
func Definitions() []llm.Tool {
	return []llm.Tool{
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        NameMonthlyOrdersSummary,
				Description: "Retorna um resumo dos pedidos do mes selecionado com totais, status e itens mais relevantes.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"monthRef": monthRefSchema(),
					},
					"required":             []string{"monthRef"},
					"additionalProperties": false,
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        NameRestockSummary,
				Description: "Retorna o resumo de reposicao dos freezers com sabores que precisam compra.",
				Parameters: map[string]any{
					"type":                 "object",
					"properties":           map[string]any{},
					"additionalProperties": false,
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        NameItemsCatalog,
				Description: "Retorna o catalogo de itens ativos com preco unitario para apoiar recomendacoes.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"limit": map[string]any{
							"type":        "integer",
							"description": "Quantidade maxima de itens retornados (1 a 30).",
							"minimum":     1,
							"maximum":     30,
						},
					},
					"additionalProperties": false,
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        NameEstimateMonthlyCost,
				Description: "Estima custo mensal com base em pedidos e preco medio dos itens.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"monthRef": monthRefSchema(),
					},
					"required":             []string{"monthRef"},
					"additionalProperties": false,
				},
			},
		},
	}
}
