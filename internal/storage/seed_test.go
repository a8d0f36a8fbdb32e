package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/sol-search/internal/model"
)

func TestDefaultSeed(t *testing.T) {
	txns := DefaultSeed()
	require.Len(t, txns, 20)
	require.NoError(t, validateTransactions(txns))

	for i := 1; i < len(txns); i++ {
		assert.False(t, txns[i].Date.After(txns[i-1].Date), "seed must be newest first at %d", i)
	}

	// The oldest record moves the opening balance; the newest carries the total.
	var total int64
	for _, txn := range txns {
		total += txn.Amount
	}
	assert.Equal(t, OpeningBalance+total, txns[0].BalanceAfter)
	oldest := txns[len(txns)-1]
	assert.Equal(t, OpeningBalance+oldest.Amount, oldest.BalanceAfter)

	for _, txn := range txns {
		assert.False(t, txn.ContainsName("홍길동"), "홍길동 has no transfer history")
	}
}

func TestLoadSeedFile(t *testing.T) {
	txns, err := LoadSeedFile(filepath.Join("testdata", "seed.yaml"))
	require.NoError(t, err)
	require.Len(t, txns, 3)

	byID := make(map[string]model.Transaction, len(txns))
	for _, txn := range txns {
		byID[txn.ID] = txn
	}

	assert.Equal(t, int64(-20_000), byID["s-1"].Amount, "withdrawals are stored negative")
	assert.Equal(t, int64(-30_000), byID["s-3"].Amount)
	assert.Equal(t, int64(2_000_000), byID["s-2"].Amount)

	assert.Equal(t, int64(2_500_000), byID["s-2"].BalanceAfter)
	assert.Equal(t, int64(2_480_000), byID["s-1"].BalanceAfter)
	assert.Equal(t, int64(2_450_000), byID["s-3"].BalanceAfter)

	require.NotNil(t, byID["s-3"].Counterparty)
	assert.Equal(t, "하나은행", byID["s-3"].Counterparty.Bank)
	assert.True(t, byID["s-3"].IsTransfer())
	assert.Equal(t, "2025-08-03", byID["s-3"].DateString())
	assert.NotEmpty(t, byID["s-3"].Hash)

	store, err := NewMemoryStore(txns...)
	require.NoError(t, err)
	contact, err := store.LatestContactByName(context.Background(), "김네모")
	require.NoError(t, err)
	assert.Equal(t, "회비", contact.LastMemo)
}

func TestParseSeedErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name:    "empty list",
			data:    "transactions: []",
			wantErr: ErrEmptySlice,
		},
		{
			name: "unknown type",
			data: `
transactions:
  - {id: x, date: "2025-08-01", description: 이마트, type: refund, amount: 100}
`,
			wantErr: ErrInvalidTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := ParseSeed([]byte(`transactions: [{id: x, date: "08/01/2025", description: a, type: deposit}]`))
	assert.ErrorContains(t, err, "invalid date")

	_, err = ParseSeed([]byte(`transactions: [{id: x, date: "2025-08-01", time: "25:00", description: a, type: deposit}]`))
	assert.ErrorContains(t, err, "invalid time")

	_, err = ParseSeed([]byte("transactions: {"))
	assert.ErrorContains(t, err, "failed to parse seed data")

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read seed file")
}
