package dispatch

import (
	"context"
	"fmt"

	"github.com/Veraticus/sol-search/internal/common"
	"github.com/Veraticus/sol-search/internal/model"
)

const (
	unknownMessage = "요청을 이해하지 못했어요. 아래 예시처럼 말씀해 주세요."
	errorMessage   = "죄송해요. 요청을 처리하는 중 문제가 발생했어요. 잠시 후 다시 시도해주세요."
)

// Canned phrasings shown on every help screen.
var cannedExamples = []string{
	"스타벅스 거래내역",
	"지난달 입금내역",
	"환율계산기",
}

var genericSuggestions = []string{"최근 거래내역", "환율계산기", "카드 신청"}

var retrySuggestions = []string{"다시 시도", "최근 거래내역", "송금하기"}

func (d *Dispatcher) handleUnknown(ctx context.Context, c model.ClassifiedIntent, _ string) (model.ResponseEnvelope, error) {
	return d.helpEnvelope(ctx, c, "", unknownMessage)
}

// helpEnvelope is the unsuccessful response listing recent contacts and
// example phrasings.
func (d *Dispatcher) helpEnvelope(ctx context.Context, c model.ClassifiedIntent, redirect, message string) (model.ResponseEnvelope, error) {
	contacts := d.recentContacts(ctx)

	suggestions := contactSuggestions(contacts)
	suggestions = append(suggestions, genericSuggestions...)

	return model.ResponseEnvelope{
		Success:        false,
		ActionType:     model.ActionUnknown,
		RedirectTarget: redirect,
		Confidence:     c.Confidence,
		Message:        message,
		Suggestions:    suggestions,
		ScreenData: model.HelpScreen{
			Contacts: contacts,
			Examples: examplePhrases(contacts),
		},
	}, nil
}

// recentContacts never fails: help screens degrade to canned content.
func (d *Dispatcher) recentContacts(ctx context.Context) []model.Contact {
	contacts, err := d.store.RecentContacts(ctx, d.config.ContactLimit)
	if err != nil {
		common.LogError(d.logger, err, "Failed to load recent contacts", nil)
		return []model.Contact{}
	}
	if contacts == nil {
		return []model.Contact{}
	}
	return contacts
}

func contactSuggestions(contacts []model.Contact) []string {
	out := make([]string, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, fmt.Sprintf("%s에게 송금", c.Name))
	}
	return out
}

func examplePhrases(contacts []model.Contact) []string {
	examples := make([]string, 0, len(cannedExamples)+1)
	if len(contacts) > 0 {
		examples = append(examples, fmt.Sprintf("%s %s 보내줘", contacts[0].Name, shortWon(contacts[0].LastAmount)))
	} else {
		examples = append(examples, "김네모 10만원 보내줘")
	}
	return append(examples, cannedExamples...)
}

// errorEnvelope is the uniform failure response. Only the error text crosses
// the boundary, as a diagnostic.
func errorEnvelope(err error) model.ResponseEnvelope {
	return model.ResponseEnvelope{
		Success:     false,
		ActionType:  model.ActionError,
		Confidence:  0,
		Message:     errorMessage,
		Suggestions: append([]string(nil), retrySuggestions...),
		ScreenData:  model.ErrorScreen{ErrorDetails: err.Error()},
	}
}
