package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTransactionType_Matches(t *testing.T) {
	tests := []struct {
		filter TransactionType
		record TransactionType
		want   bool
	}{
		{filter: "", record: TypeDeposit, want: true},
		{filter: TypeAll, record: TypeWithdrawal, want: true},
		{filter: TypeDeposit, record: TypeDeposit, want: true},
		{filter: TypeDeposit, record: TypeWithdrawal, want: false},
		{filter: TypeWithdrawal, record: TypeDeposit, want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.filter.Matches(tt.record), "%q matches %q", tt.filter, tt.record)
	}
	assert.False(t, TransactionType("refund").Valid())
}

func TestSortByDateDesc_StableOnTies(t *testing.T) {
	txns := []Transaction{
		{ID: "a", Date: day("2025-07-01")},
		{ID: "b", Date: day("2025-08-01")},
		{ID: "c", Date: day("2025-07-01")},
		{ID: "d", Date: day("2025-08-01")},
	}
	SortByDateDesc(txns)

	ids := make([]string, len(txns))
	for i, txn := range txns {
		ids[i] = txn.ID
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
}

func TestSortByDateTimeDesc(t *testing.T) {
	txns := []Transaction{
		{ID: "lunch", Date: day("2025-07-10"), Time: "12:30"},
		{ID: "older", Date: day("2025-07-09"), Time: "23:00"},
		{ID: "afternoon", Date: day("2025-07-10"), Time: "13:45"},
	}
	SortByDateTimeDesc(txns)
	assert.Equal(t, "afternoon", txns[0].ID)
	assert.Equal(t, "lunch", txns[1].ID)
	assert.Equal(t, "older", txns[2].ID)
}

func TestTransaction_CloneIsDeep(t *testing.T) {
	orig := Transaction{ID: "t", Counterparty: &Counterparty{Name: "김네모"}}
	c := orig.Clone()
	c.Counterparty.Name = "박세모"
	assert.Equal(t, "김네모", orig.Counterparty.Name)
}

func TestTransaction_IsTransferAndContainsName(t *testing.T) {
	transfer := Transaction{
		Type:         TypeWithdrawal,
		Description:  "김네모",
		Counterparty: &Counterparty{Name: "김네모", Bank: "하나은행"},
	}
	payment := Transaction{Type: TypeWithdrawal, Description: "스타벅스 강남점"}

	assert.True(t, transfer.IsTransfer())
	assert.False(t, payment.IsTransfer())
	assert.True(t, transfer.ContainsName("네모"))
	assert.False(t, payment.ContainsName("김네모"))
	assert.False(t, transfer.ContainsName(""))
}

func TestTransaction_MarshalJSON(t *testing.T) {
	txn := Transaction{
		ID:          "txn-1",
		Date:        day("2025-08-09"),
		Time:        "08:30",
		Description: "스타벅스 강남점",
		Type:        TypeWithdrawal,
		Amount:      -4_500,
		Hash:        "secret",
	}
	data, err := json.Marshal(txn)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "2025-08-09", body["date"])
	assert.Equal(t, "withdrawal", body["type"])
	assert.InDelta(t, -4500, body["amount"], 0)
	assert.NotContains(t, body, "Hash")
	assert.NotContains(t, body, "counterparty")
}

func TestGenerateHash(t *testing.T) {
	a := Transaction{ID: "1", Date: day("2025-08-01"), Amount: 100}
	b := a
	assert.Equal(t, a.GenerateHash(), b.GenerateHash())

	b.Amount = 200
	assert.NotEqual(t, a.GenerateHash(), b.GenerateHash())
}

func TestContactsFromTransfers(t *testing.T) {
	txns := []Transaction{
		{Date: day("2025-08-08"), Type: TypeWithdrawal, Amount: -100_000, Memo: "용돈",
			Counterparty: &Counterparty{Name: "김네모", Account: "110-123-456789", Bank: "하나은행"}},
		{Date: day("2025-08-07"), Type: TypeWithdrawal, Amount: -59_000, Description: "무신사"},
		{Date: day("2025-08-05"), Type: TypeWithdrawal, Amount: -30_000,
			Counterparty: &Counterparty{Name: "박세모", Bank: "국민은행"}},
		{Date: day("2025-06-28"), Type: TypeWithdrawal, Amount: -50_000,
			Counterparty: &Counterparty{Name: "김네모", Bank: "하나은행"}},
	}

	contacts := ContactsFromTransfers(txns, 0)
	require.Len(t, contacts, 2)
	assert.Equal(t, Contact{
		Name:       "김네모",
		Account:    "110-123-456789",
		Bank:       "하나은행",
		LastDate:   "2025-08-08",
		LastMemo:   "용돈",
		LastAmount: 100_000,
	}, contacts[0])
	assert.Equal(t, "박세모", contacts[1].Name)

	assert.Len(t, ContactsFromTransfers(txns, 1), 1)
	assert.Empty(t, ContactsFromTransfers(nil, 3))
}
