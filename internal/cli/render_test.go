package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/sol-search/internal/model"
	"github.com/Veraticus/sol-search/internal/storage"
)

func TestWon(t *testing.T) {
	tests := []struct {
		want   string
		amount int64
	}{
		{want: "0원", amount: 0},
		{want: "4,500원", amount: 4_500},
		{want: "100,000원", amount: 100_000},
		{want: "-3,000,000원", amount: -3_000_000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Won(tt.amount))
	}
}

func TestRenderEnvelope(t *testing.T) {
	seed := storage.DefaultSeed()

	tests := []struct {
		name     string
		env      model.ResponseEnvelope
		contains []string
	}{
		{
			name: "transfer",
			env: model.ResponseEnvelope{
				Success:        true,
				ActionType:     model.ActionTransfer,
				RedirectTarget: "/transfer",
				Confidence:     0.9,
				Message:        "김네모님에게 100,000원을 보낼까요?",
				Suggestions:    []string{"송금하기", "금액 수정"},
				ScreenData: model.TransferScreen{
					Amount:           model.Int64(100_000),
					RecipientName:    "김네모",
					RecipientAccount: "110-123-456789",
					RecipientBank:    "하나은행",
					LastTransfer:     model.LastTransfer{Date: "2025-08-08", Amount: 100_000, Memo: "용돈"},
				},
			},
			contains: []string{"김네모", "하나은행", "110-123-456789", "용돈", "[송금하기]", "route=/transfer", "confidence=0.90"},
		},
		{
			name: "limit exceeded",
			env: model.ResponseEnvelope{
				ActionType: model.ActionTransfer,
				Message:    "1회 송금 한도(5,000,000원)를 초과했어요.",
				ScreenData: model.TransferScreen{
					Amount:        model.Int64(10_000_000),
					RecipientName: "김네모",
					LimitExceeded: true,
				},
			},
			contains: []string{"한도 초과", "10,000,000원"},
		},
		{
			name: "search",
			env: model.ResponseEnvelope{
				Success:    true,
				ActionType: model.ActionSearch,
				Message:    "스타벅스 거래내역 2건을 찾았어요.",
				ScreenData: model.SearchScreen{
					Transactions: seed[:2],
					Count:        2,
					Summary:      model.SearchSummary{TotalWithdrawal: 104_500, NetAmount: -104_500},
				},
			},
			contains: []string{"거래내역 2건", seed[0].Description, seed[0].DateString(), "104,500원"},
		},
		{
			name: "menu",
			env: model.ResponseEnvelope{
				Success:    true,
				ActionType: model.ActionMenu,
				Message:    "환율계산기로 이동합니다.",
				ScreenData: model.MenuScreen{MenuType: model.MenuExchangeCalculator, Route: "/exchangeCalculator"},
			},
			contains: []string{"/exchangeCalculator"},
		},
		{
			name: "help",
			env: model.ResponseEnvelope{
				ActionType: model.ActionUnknown,
				Message:    "요청을 이해하지 못했어요.",
				ScreenData: model.HelpScreen{
					Contacts: []model.Contact{{Name: "김네모", Bank: "하나은행", LastDate: "2025-08-08"}},
					Examples: []string{"김네모 10만원 보내줘"},
				},
			},
			contains: []string{"이렇게 말해보세요", "김네모 10만원 보내줘", WarningIcon},
		},
		{
			name: "error",
			env: model.ResponseEnvelope{
				ActionType: model.ActionError,
				Message:    "죄송해요.",
				ScreenData: model.ErrorScreen{ErrorDetails: "transaction lookup failed"},
			},
			contains: []string{ErrorIcon, "transaction lookup failed", "action=error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderEnvelope(tt.env)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}
