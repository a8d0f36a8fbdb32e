package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/sol-search/internal/common"
	"github.com/Veraticus/sol-search/internal/model"
)

const transferRoute = "/transfer"

var quickAmounts = []int64{10_000, 50_000, 100_000}

func (d *Dispatcher) handleTransfer(ctx context.Context, c model.ClassifiedIntent, _ string) (model.ResponseEnvelope, error) {
	person := c.Entities.Person
	if person == "" {
		return d.helpEnvelope(ctx, c, "",
			"누구에게 보낼지 알려주세요. 예: 김네모에게 10만원 보내줘")
	}

	contact, err := d.store.LatestContactByName(ctx, person)
	if errors.Is(err, common.ErrNotFound) {
		return d.noRecordEnvelope(ctx, c, person)
	}
	if err != nil {
		return model.ResponseEnvelope{}, lookupError("latest contact", err)
	}

	screen := model.TransferScreen{
		RecipientName:    contact.Name,
		RecipientAccount: contact.Account,
		RecipientBank:    contact.Bank,
		LastTransfer: model.LastTransfer{
			Date:   contact.LastDate,
			Memo:   contact.LastMemo,
			Amount: contact.LastAmount,
		},
	}

	env := model.ResponseEnvelope{
		Success:        true,
		ActionType:     model.ActionTransfer,
		RedirectTarget: transferRoute,
		Confidence:     c.Confidence,
	}

	if c.Entities.Amount == nil {
		env.Message = fmt.Sprintf("%s님에게 얼마를 보낼까요? 지난번에는 %s을 보냈어요.",
			contact.Name, formatWon(contact.LastAmount))
		env.Suggestions = append(env.Suggestions, fmt.Sprintf("지난번처럼 %s", formatWon(contact.LastAmount)))
		for _, a := range quickAmounts {
			if a != contact.LastAmount {
				env.Suggestions = append(env.Suggestions, shortWon(a))
			}
		}
		env.ScreenData = screen
		return env, nil
	}

	amount := *c.Entities.Amount
	screen.Amount = model.Int64(amount)

	if msg, exceeded := d.checkLimits(amount); exceeded {
		screen.LimitExceeded = true
		env.Success = false
		env.Message = msg
		env.Suggestions = []string{"금액 다시 입력", "이체 한도 조회"}
		env.ScreenData = screen
		return env, nil
	}

	env.Message = fmt.Sprintf("%s님(%s %s)에게 %s을 보낼까요?",
		contact.Name, contact.Bank, contact.Account, formatWon(amount))
	env.Suggestions = []string{"송금하기", "금액 수정", "메모 추가"}
	env.ScreenData = screen
	return env, nil
}

// checkLimits reports the message for an amount outside the configured bounds.
func (d *Dispatcher) checkLimits(amount int64) (string, bool) {
	if d.config.MinTransferAmount > 0 && amount < d.config.MinTransferAmount {
		return fmt.Sprintf("최소 송금 금액은 %s이에요.", formatWon(d.config.MinTransferAmount)), true
	}
	if d.config.MaxTransferAmount > 0 && amount > d.config.MaxTransferAmount {
		return fmt.Sprintf("1회 송금 한도(%s)를 초과했어요.", formatWon(d.config.MaxTransferAmount)), true
	}
	return "", false
}

func (d *Dispatcher) noRecordEnvelope(ctx context.Context, c model.ClassifiedIntent, person string) (model.ResponseEnvelope, error) {
	contacts := d.recentContacts(ctx)

	suggestions := []string{"계좌번호 직접 입력", "최근 보낸 사람 보기"}
	suggestions = append(suggestions, contactSuggestions(contacts)...)

	return model.ResponseEnvelope{
		Success:        false,
		ActionType:     model.ActionUnknown,
		RedirectTarget: transferRoute,
		Confidence:     c.Confidence,
		Message:        fmt.Sprintf("%s님에게 송금한 기록이 없어요. 계좌번호를 직접 입력해주세요.", person),
		Suggestions:    suggestions,
		ScreenData: model.HelpScreen{
			Contacts: contacts,
			Examples: examplePhrases(contacts),
			Person:   person,
		},
	}, nil
}
