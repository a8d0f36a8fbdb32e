package llm

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Veraticus/sol-search/internal/common"
	"github.com/Veraticus/sol-search/internal/model"
)

const isoDatePattern = `^\d{4}-\d{2}-\d{2}$`

// outputSchema describes the JSON object the model must return.
func outputSchema() map[string]any {
	menus := make([]any, 0, len(model.MenuTypes()))
	for _, m := range model.MenuTypes() {
		menus = append(menus, string(m))
	}

	return map[string]any{
		"type":     "object",
		"required": []any{"intent", "entities", "confidence"},
		"properties": map[string]any{
			"intent": map[string]any{
				"type": "string",
				"enum": []any{"transfer", "search", "menu", "unknown"},
			},
			"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"reasoning":  map[string]any{"type": "string"},
			"entities": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"person":   map[string]any{"type": "string", "minLength": 1},
					"amount":   map[string]any{"type": "integer", "minimum": 0},
					"merchant": map[string]any{"type": "string"},
					"transaction_type": map[string]any{
						"type": "string",
						"enum": []any{"deposit", "withdrawal", "all"},
					},
					"menu_type": map[string]any{"type": "string", "enum": menus},
					"date_range": map[string]any{
						"type":     "object",
						"required": []any{"start_date", "end_date"},
						"properties": map[string]any{
							"start_date":  map[string]any{"type": "string", "pattern": isoDatePattern},
							"end_date":    map[string]any{"type": "string", "pattern": isoDatePattern},
							"description": map[string]any{"type": "string"},
							"period_type": map[string]any{
								"type": "string",
								"enum": []any{"month", "week", "recent", "custom"},
							},
						},
					},
				},
			},
		},
	}
}

// Korean labels some models return for transaction_type.
var transactionTypeAliases = map[string]string{
	"입금": "deposit",
	"출금": "withdrawal",
	"전체": "all",
}

// normalizeOutput drops null entity values and maps known aliases before
// validation.
func normalizeOutput(doc map[string]any) {
	entities, ok := doc["entities"].(map[string]any)
	if !ok {
		if doc["entities"] == nil {
			doc["entities"] = map[string]any{}
		}
		return
	}
	for k, v := range entities {
		if v == nil {
			delete(entities, k)
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			delete(entities, k)
		}
	}
	if tt, ok := entities["transaction_type"].(string); ok {
		if alias, found := transactionTypeAliases[tt]; found {
			entities["transaction_type"] = alias
		}
	}
}

// validateOutput checks doc against the output schema.
func validateOutput(doc map[string]any) error {
	schemaLoader := gojsonschema.NewGoLoader(outputSchema())
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: validation error: %w", common.ErrInvalidModelOutput, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", common.ErrInvalidModelOutput, strings.Join(errs, "; "))
	}
	return nil
}
