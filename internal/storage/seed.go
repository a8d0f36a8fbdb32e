package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/sol-search/internal/model"
	"github.com/Veraticus/sol-search/internal/service"
)

// OpeningBalance is the account balance before the oldest default record.
const OpeningBalance int64 = 1_000_000

// seedRecord is the on-disk shape of a record in a seed file.
type seedRecord struct {
	Counterparty *model.Counterparty `yaml:"counterparty,omitempty"`
	ID           string              `yaml:"id"`
	Date         string              `yaml:"date"`
	Time         string              `yaml:"time"`
	Description  string              `yaml:"description"`
	Category     string              `yaml:"category"`
	Memo         string              `yaml:"memo"`
	Type         string              `yaml:"type"`
	Amount       int64               `yaml:"amount"`
	Balance      *int64              `yaml:"balance,omitempty"`
}

type seedFile struct {
	OpeningBalance *int64       `yaml:"opening_balance,omitempty"`
	Transactions   []seedRecord `yaml:"transactions"`
}

// DefaultSeed returns the demo account history, newest first.
func DefaultSeed() []model.Transaction {
	txns := []model.Transaction{
		payment("txn-001", "2025-08-09", "14:30", "스타벅스 강남점", "카페", 4_500, "아메리카노 2잔"),
		transfer("txn-002", "2025-08-08", "10:15", "김네모", "110-123-456789", "하나은행", 100_000, "용돈"),
		payment("txn-003", "2025-08-07", "19:20", "무신사", "쇼핑", 89_000, "티셔츠 구매"),
		transfer("txn-004", "2025-08-05", "16:45", "박세모", "555-777-888999", "국민은행", 50_000, "생일 축하금"),
		payment("txn-005", "2025-08-04", "16:45", "GS25 역삼점", "편의점", 12_000, "생필품"),
		deposit("txn-006", "2025-08-01", "09:00", "월급", 3_000_000),
		transfer("txn-007", "2025-07-30", "16:45", "김철수", "110-234-567890", "신한은행", 25_000, "점심값"),
		deposit("txn-008", "2025-07-28", "12:00", "용돈", 100_000),
		payment("txn-009", "2025-07-25", "10:30", "스타벅스 역삼점", "카페", 15_000, "케이크"),
		transfer("txn-010", "2025-07-23", "19:20", "이영희", "1002-123-456789", "우리은행", 80_000, "경조사비"),
		deposit("txn-011", "2025-07-20", "08:15", "부모님용돈", 200_000),
		payment("txn-012", "2025-07-18", "17:50", "이마트", "마트", 35_000, "장보기"),
		deposit("txn-013", "2025-07-15", "11:30", "보너스", 500_000),
		transfer("txn-014", "2025-07-11", "09:20", "이동그라미", "987-654-321098", "신한은행", 200_000, "월세"),
		transfer("txn-015", "2025-07-10", "13:45", "박민수", "123-456789-001", "하나은행", 120_000, "모임 회비"),
		payment("txn-016", "2025-07-10", "12:30", "교촌치킨", "음식", 28_000, "점심 배달"),
		transfer("txn-017", "2025-07-09", "14:15", "최삼각", "111-222-333444", "우리은행", 30_000, "용돈"),
		transfer("txn-018", "2025-06-28", "18:00", "김네모", "110-123-456789", "하나은행", 50_000, "회비"),
		deposit("txn-019", "2025-06-25", "09:00", "월급", 3_000_000),
		payment("txn-020", "2025-06-20", "08:40", "스타벅스 강남점", "카페", 6_500, "라떼"),
	}
	model.SortByDateTimeDesc(txns)
	applyBalances(txns, OpeningBalance)
	return txns
}

// LoadSeedFile reads a YAML seed file. Withdrawal amounts may be written
// positive; they are stored negative. Missing balances are derived from the
// opening balance.
func LoadSeedFile(path string) ([]model.Transaction, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // seed path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes YAML seed data.
func ParseSeed(data []byte) ([]model.Transaction, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	if len(file.Transactions) == 0 {
		return nil, fmt.Errorf("%w: seed transactions", ErrEmptySlice)
	}

	txns := make([]model.Transaction, 0, len(file.Transactions))
	explicitBalances := true
	for i, rec := range file.Transactions {
		date, err := time.Parse(model.DateLayout, rec.Date)
		if err != nil {
			return nil, fmt.Errorf("seed record %d: invalid date %q: %w", i, rec.Date, err)
		}
		clock := rec.Time
		if clock != "" {
			if clock, err = normalizeClock(clock); err != nil {
				return nil, fmt.Errorf("seed record %d: invalid time %q: %w", i, rec.Time, err)
			}
		}
		txn := model.Transaction{
			ID:           rec.ID,
			Date:         date,
			Time:         clock,
			Description:  rec.Description,
			Category:     rec.Category,
			Memo:         rec.Memo,
			Type:         model.TransactionType(rec.Type),
			Amount:       rec.Amount,
			Counterparty: rec.Counterparty,
		}
		if txn.Type == model.TypeWithdrawal && txn.Amount > 0 {
			txn.Amount = -txn.Amount
		}
		if rec.Balance != nil {
			txn.BalanceAfter = *rec.Balance
		} else {
			explicitBalances = false
		}
		txn.Hash = txn.GenerateHash()
		txns = append(txns, txn)
	}

	if err := validateTransactions(txns); err != nil {
		return nil, err
	}

	if !explicitBalances {
		opening := OpeningBalance
		if file.OpeningBalance != nil {
			opening = *file.OpeningBalance
		}
		applyBalances(txns, opening)
	}
	return txns, nil
}

// Seed saves txns into an empty store. A store that already holds records is
// left untouched.
func Seed(ctx context.Context, store service.Storage, txns []model.Transaction) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Debug("Store already seeded", "records", n)
		return 0, nil
	}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		return 0, fmt.Errorf("failed to seed store: %w", err)
	}
	slog.Info("Seeded transaction store", "records", len(txns))
	return len(txns), nil
}

// applyBalances fills BalanceAfter walking from the oldest record forward.
// txns may be in any order; the slice order is preserved.
func applyBalances(txns []model.Transaction, opening int64) {
	ordered := make([]model.Transaction, len(txns))
	copy(ordered, txns)
	model.SortByDateTimeDesc(ordered)

	pos := make(map[string]int, len(txns))
	for i, txn := range txns {
		pos[txn.ID] = i
	}

	balance := opening
	for i := len(ordered) - 1; i >= 0; i-- {
		balance += ordered[i].Amount
		txns[pos[ordered[i].ID]].BalanceAfter = balance
	}
}

func mustDate(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func payment(id, date, tm, merchant, category string, amount int64, memo string) model.Transaction {
	return model.Transaction{
		ID:          id,
		Date:        mustDate(date),
		Time:        tm,
		Description: merchant,
		Category:    category,
		Memo:        memo,
		Type:        model.TypeWithdrawal,
		Amount:      -amount,
	}
}

func transfer(id, date, tm, name, account, bank string, amount int64, memo string) model.Transaction {
	return model.Transaction{
		ID:           id,
		Date:         mustDate(date),
		Time:         tm,
		Description:  name,
		Category:     "송금",
		Memo:         memo,
		Type:         model.TypeWithdrawal,
		Amount:       -amount,
		Counterparty: &model.Counterparty{Name: name, Account: account, Bank: bank},
	}
}

func deposit(id, date, tm, description string, amount int64) model.Transaction {
	return model.Transaction{
		ID:          id,
		Date:        mustDate(date),
		Time:        tm,
		Description: description,
		Category:    "입금",
		Type:        model.TypeDeposit,
		Amount:      amount,
	}
}
