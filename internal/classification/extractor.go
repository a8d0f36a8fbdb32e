// Package classification provides the deterministic rule-based intent
// classifier and entity extractor.
package classification

import (
	"github.com/Veraticus/sol-search/internal/model"
	"github.com/Veraticus/sol-search/internal/pattern"
)

// Confidence levels assigned by the rule-based path.
const (
	BaseConfidence          = 0.5
	transferBothConfidence  = 0.9
	transferOneConfidence   = 0.7
	merchantConfidence      = 0.8
	searchKeywordConfidence = 0.7
	menuKeywordConfidence   = 0.8
)

// Signals are the raw pattern matches found in one query.
type Signals struct {
	Date             pattern.DateMatch
	Person           string
	Merchant         string
	MenuType         model.MenuType
	TransactionType  model.TransactionType
	Amount           int64
	HasPerson        bool
	HasAmount        bool
	HasMerchant      bool
	HasDate          bool
	HasMenuType      bool
	TransferKeyword  bool
	SearchKeyword    bool
	ExtraMenuKeyword bool
}

type intentRule struct {
	match      func(Signals) bool
	confidence func(Signals) float64
	intent     model.Intent
}

// Intent rules in priority order; the first rule that matches decides.
var intentRules = []intentRule{
	{
		intent: model.IntentTransfer,
		match: func(s Signals) bool {
			return (s.HasPerson && s.HasAmount) || s.TransferKeyword
		},
		confidence: func(s Signals) float64 {
			switch {
			case s.HasPerson && s.HasAmount:
				return transferBothConfidence
			case s.HasPerson || s.HasAmount:
				return transferOneConfidence
			default:
				return BaseConfidence
			}
		},
	},
	{
		intent: model.IntentSearch,
		match: func(s Signals) bool {
			return s.HasMerchant || s.SearchKeyword || (s.HasDate && !s.HasPerson)
		},
		confidence: func(s Signals) float64 {
			switch {
			case s.HasMerchant:
				return merchantConfidence
			case s.SearchKeyword:
				return searchKeywordConfidence
			default:
				return BaseConfidence
			}
		},
	},
	{
		intent: model.IntentMenu,
		match: func(s Signals) bool {
			return s.HasMenuType || s.ExtraMenuKeyword
		},
		confidence: func(s Signals) float64 {
			if s.HasMenuType {
				return menuKeywordConfidence
			}
			return BaseConfidence
		},
	},
}

// Extractor classifies queries using only the pattern library.
// It is safe for concurrent use.
type Extractor struct {
	lib *pattern.Library
}

// NewExtractor creates an extractor over lib. A nil lib uses the default tables.
func NewExtractor(lib *pattern.Library) *Extractor {
	if lib == nil {
		lib = pattern.Default()
	}
	return &Extractor{lib: lib}
}

// Library returns the pattern library the extractor matches with.
func (e *Extractor) Library() *pattern.Library {
	return e.lib
}

// Signals runs every pattern over the normalized query.
func (e *Extractor) Signals(query string) Signals {
	text := pattern.Normalize(query)

	var s Signals
	s.Person, s.HasPerson = e.lib.MatchName(text)
	s.Amount, s.HasAmount = e.lib.MatchAmount(text)
	s.Merchant, s.HasMerchant = e.lib.MatchMerchant(text)
	s.Date, s.HasDate = e.lib.MatchDateExpression(text)
	s.MenuType, s.HasMenuType = e.lib.MatchMenu(text)
	s.TransactionType = e.lib.MatchTransactionType(text)
	s.TransferKeyword = e.lib.HasTransferKeyword(text)
	s.SearchKeyword = e.lib.HasSearchKeyword(text)
	s.ExtraMenuKeyword = e.lib.HasExtraMenuKeyword(text)
	return s
}

// Extract returns the intent, entities and confidence for query.
// It never fails; unmatched input is unknown with base confidence.
func (e *Extractor) Extract(query string) (model.Intent, model.Entities, float64) {
	s := e.Signals(query)

	for _, rule := range intentRules {
		if !rule.match(s) {
			continue
		}
		return rule.intent, entitiesFor(rule.intent, s), clamp(rule.confidence(s))
	}
	return model.IntentUnknown, model.Entities{}, BaseConfidence
}

// Classify wraps Extract in a ClassifiedIntent tagged as the fallback source.
func (e *Extractor) Classify(query string) model.ClassifiedIntent {
	intent, entities, confidence := e.Extract(query)
	return model.ClassifiedIntent{
		Intent:     intent,
		Entities:   entities,
		Confidence: confidence,
		Reasoning:  model.FallbackReasoning,
		Source:     model.SourceFallback,
	}
}

func entitiesFor(intent model.Intent, s Signals) model.Entities {
	var ent model.Entities
	switch intent {
	case model.IntentTransfer:
		ent.Person = s.Person
		if s.HasAmount {
			ent.Amount = model.Int64(s.Amount)
		}
	case model.IntentSearch:
		ent.Merchant = s.Merchant
		ent.Person = s.Person
		if s.HasDate {
			ent.DateExpression = s.Date.Text
		}
		ent.TransactionType = s.TransactionType
		if ent.TransactionType == "" {
			ent.TransactionType = model.TypeAll
		}
	case model.IntentMenu:
		ent.MenuType = s.MenuType
	}
	return ent
}

func clamp(c float64) float64 {
	switch {
	case c > 1:
		return 1
	case c < BaseConfidence:
		return BaseConfidence
	default:
		return c
	}
}
