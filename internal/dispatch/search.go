package dispatch

import (
	"context"
	"fmt"

	"github.com/Veraticus/sol-search/internal/model"
)

const historyRoute = "/history"

// searchPlan is the single criterion a search runs with.
type searchPlan struct {
	run    func(ctx context.Context) ([]model.Transaction, error)
	filter model.SearchFilter
	label  string
}

func (d *Dispatcher) handleSearch(ctx context.Context, c model.ClassifiedIntent, query string) (model.ResponseEnvelope, error) {
	plan := d.planSearch(c.Entities, query)

	txns, err := plan.run(ctx)
	if err != nil {
		return model.ResponseEnvelope{}, lookupError("search", err)
	}
	if len(txns) > d.config.MaxResults {
		txns = txns[:d.config.MaxResults]
	}
	if txns == nil {
		txns = []model.Transaction{}
	}

	screen := model.SearchScreen{
		Transactions: txns,
		Filter:       plan.filter,
		Summary:      summarize(txns),
		Count:        len(txns),
	}

	env := model.ResponseEnvelope{
		Success:        true,
		ActionType:     model.ActionSearch,
		RedirectTarget: historyRoute,
		Confidence:     c.Confidence,
		ScreenData:     screen,
	}
	if len(txns) == 0 {
		env.Message = fmt.Sprintf("조건에 맞는 %s이 없어요.", plan.label)
		env.Suggestions = []string{"최근 거래내역", "지난달 거래내역", "입금 내역만 보기"}
	} else {
		env.Message = fmt.Sprintf("%s %d건을 찾았어요.", plan.label, len(txns))
		env.Suggestions = searchSuggestions(plan.filter)
	}
	return env, nil
}

// planSearch applies the criteria in priority order: date range, merchant,
// person, transaction type, then the most recent records.
func (d *Dispatcher) planSearch(e model.Entities, query string) searchPlan {
	txType := e.TransactionType
	if txType == "" || txType == model.TypeAll {
		txType = d.extractor.Library().MatchTransactionType(query)
	}

	if dr, ok := d.searchPeriod(e, query); ok {
		start, end, _ := dr.Bounds()
		filter := model.SearchFilter{
			StartDate:       dr.StartDate,
			EndDate:         dr.EndDate,
			PeriodType:      dr.PeriodType,
			Description:     dr.Description,
			TransactionType: orAll(txType),
			Limit:           d.config.MaxResults,
		}
		return searchPlan{
			filter: filter,
			label:  periodLabel(dr, txType),
			run: func(ctx context.Context) ([]model.Transaction, error) {
				return d.store.ByDateRange(ctx, start, end, txType)
			},
		}
	}

	if e.Merchant != "" {
		return searchPlan{
			filter: model.SearchFilter{Merchant: e.Merchant, Limit: d.config.MaxResults},
			label:  fmt.Sprintf("%s 거래내역", e.Merchant),
			run: func(ctx context.Context) ([]model.Transaction, error) {
				return d.store.ByMerchant(ctx, e.Merchant)
			},
		}
	}

	if e.Person != "" {
		return searchPlan{
			filter: model.SearchFilter{Person: e.Person, TransactionType: model.TypeWithdrawal, Limit: d.config.MaxResults},
			label:  fmt.Sprintf("%s님에게 보낸 내역", e.Person),
			run: func(ctx context.Context) ([]model.Transaction, error) {
				return d.store.ByRecipient(ctx, e.Person)
			},
		}
	}

	if txType == model.TypeDeposit || txType == model.TypeWithdrawal {
		return searchPlan{
			filter: model.SearchFilter{TransactionType: txType, Limit: d.config.MaxResults},
			label:  typeLabel(txType),
			run: func(ctx context.Context) ([]model.Transaction, error) {
				return d.store.ByType(ctx, txType)
			},
		}
	}

	return searchPlan{
		filter: model.SearchFilter{TransactionType: model.TypeAll, Limit: d.config.RecentLimit},
		label:  "최근 거래내역",
		run: func(ctx context.Context) ([]model.Transaction, error) {
			return d.store.Recent(ctx, d.config.RecentLimit)
		},
	}
}

// searchPeriod returns the date range to search. A model range that fails
// to parse is re-derived with the rule-based period heuristic from the raw
// date expression, then from the query itself.
func (d *Dispatcher) searchPeriod(e model.Entities, query string) (model.DateRange, bool) {
	candidates := []string{e.DateExpression}
	if e.DateRange != nil {
		_, _, err := e.DateRange.Bounds()
		if err == nil {
			return *e.DateRange, true
		}
		d.logger.Warn("Invalid date range, retrying with rule-based period",
			"start_date", e.DateRange.StartDate,
			"end_date", e.DateRange.EndDate,
			"error", err)
		candidates = append(candidates, query)
	}

	anchor := d.Anchor()
	for _, expr := range candidates {
		if expr == "" {
			continue
		}
		if dr, err := d.extractor.ResolvePeriod(expr, anchor); err == nil {
			return dr, true
		}
	}
	return model.DateRange{}, false
}

func summarize(txns []model.Transaction) model.SearchSummary {
	var s model.SearchSummary
	for _, txn := range txns {
		if txn.Amount >= 0 {
			s.TotalDeposit += txn.Amount
		} else {
			s.TotalWithdrawal -= txn.Amount
		}
	}
	s.NetAmount = s.TotalDeposit - s.TotalWithdrawal
	return s
}

func searchSuggestions(f model.SearchFilter) []string {
	switch {
	case f.TransactionType == model.TypeDeposit:
		return []string{"출금 내역만 보기", "전체 거래내역", "지난달 입금내역"}
	case f.TransactionType == model.TypeWithdrawal && f.Person == "":
		return []string{"입금 내역만 보기", "전체 거래내역", "지난달 출금내역"}
	case f.Merchant != "":
		return []string{"이번달 " + f.Merchant + " 내역", "지난달 거래내역", "출금 내역만 보기"}
	case f.Person != "":
		return []string{f.Person + "에게 송금", "최근 거래내역", "출금 내역만 보기"}
	default:
		return []string{"입금 내역만 보기", "출금 내역만 보기", "지난달 거래내역"}
	}
}

func periodLabel(dr model.DateRange, t model.TransactionType) string {
	desc := dr.Description
	if desc == "" {
		desc = fmt.Sprintf("%s ~ %s", dr.StartDate, dr.EndDate)
	}
	return fmt.Sprintf("%s %s", desc, typeLabel(t))
}

func typeLabel(t model.TransactionType) string {
	switch t {
	case model.TypeDeposit:
		return "입금내역"
	case model.TypeWithdrawal:
		return "출금내역"
	default:
		return "거래내역"
	}
}

func orAll(t model.TransactionType) model.TransactionType {
	if t == "" {
		return model.TypeAll
	}
	return t
}
