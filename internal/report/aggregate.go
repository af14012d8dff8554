// Package report aggregates persisted transactions into period summaries
// and exports them as CSV and XLSX reports. Money totals are summed with
// decimal arithmetic, never binary floats.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/spendlens/card-spend-tracker/internal/models"
)

// Period selects the aggregation bucket size.
type Period string

const (
	Monthly   Period = "M"
	Quarterly Period = "Q"
)

// PeriodRow is one aggregated spend bucket.
type PeriodRow struct {
	Period          string
	CardNumber      string
	CardHolderName  string
	Category        string
	SubCategory     string
	TransactionType string
	TotalAmount     decimal.Decimal
	Count           int
}

// BillRow is one month of per-card totals, with reward balances merged in
// when a matching summary exists.
type BillRow struct {
	Month          string
	CardNumber     string
	CardHolderName string
	TotalDebit     decimal.Decimal
	TotalCredit    decimal.Decimal
	Count          int
	OpeningBalance *int
	ClosingBalance *int
}

// dateLayouts covers the date shapes the bank parsers emit. Ambiguous
// numeric dates are day-first, matching the source statements.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02 Jan 06",
	"02 Jan 2006",
	"2 January, 2006",
	"02 January, 2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// periodKey buckets a date: "2025-08" for monthly, "2025-Q3" for quarterly.
func periodKey(t time.Time, period Period) string {
	if period == Quarterly {
		quarter := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("%04d-Q%d", t.Year(), quarter)
	}
	return t.Format("2006-01")
}

func orUncategorized(s string) string {
	if s == "" {
		return "Uncategorized"
	}
	return s
}

// AggregateByPeriod groups transactions by (period, card, holder, category,
// subCategory, type) and totals them. Transactions whose dates cannot be
// parsed are dropped with a warning, the same way the load step treats
// them.
func AggregateByPeriod(log zerolog.Logger, transactions []models.Transaction, period Period) []PeriodRow {
	type key struct {
		period, cardNumber, holder, category, subCategory, txType string
	}

	buckets := map[key]*PeriodRow{}
	dropped := 0
	for _, tx := range transactions {
		t, ok := parseDate(tx.Date)
		if !ok {
			dropped++
			continue
		}
		k := key{
			period:      periodKey(t, period),
			cardNumber:  tx.CardNumber,
			holder:      tx.CardHolderName,
			category:    orUncategorized(tx.Category),
			subCategory: orUncategorized(tx.SubCategory),
			txType:      strings.ToUpper(tx.TransactionType),
		}
		row, ok := buckets[k]
		if !ok {
			row = &PeriodRow{
				Period:          k.period,
				CardNumber:      k.cardNumber,
				CardHolderName:  k.holder,
				Category:        k.category,
				SubCategory:     k.subCategory,
				TransactionType: k.txType,
			}
			buckets[k] = row
		}
		row.TotalAmount = row.TotalAmount.Add(decimal.NewFromFloat(tx.Amount))
		row.Count++
	}
	if dropped > 0 {
		log.Warn().Int("count", dropped).Msg("transactions with unparseable dates dropped from aggregation")
	}

	rows := make([]PeriodRow, 0, len(buckets))
	for _, row := range buckets {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.CardNumber != b.CardNumber {
			return a.CardNumber < b.CardNumber
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.SubCategory != b.SubCategory {
			return a.SubCategory < b.SubCategory
		}
		return a.TransactionType < b.TransactionType
	})
	return rows
}

// BillSummary totals debit and credit per (month, card, holder) and merges
// opening/closing reward balances from summaries matching on (month,
// cardNumber).
func BillSummary(log zerolog.Logger, transactions []models.Transaction, summaries []models.RewardSummary) []BillRow {
	type key struct {
		month, cardNumber, holder string
	}

	buckets := map[key]*BillRow{}
	for _, tx := range transactions {
		t, ok := parseDate(tx.Date)
		if !ok {
			continue
		}
		k := key{month: t.Format("2006-01"), cardNumber: tx.CardNumber, holder: tx.CardHolderName}
		row, ok := buckets[k]
		if !ok {
			row = &BillRow{Month: k.month, CardNumber: k.cardNumber, CardHolderName: k.holder}
			buckets[k] = row
		}
		amount := decimal.NewFromFloat(tx.Amount)
		switch strings.ToUpper(tx.TransactionType) {
		case models.TypeDebit:
			row.TotalDebit = row.TotalDebit.Add(amount)
		case models.TypeCredit:
			row.TotalCredit = row.TotalCredit.Add(amount)
		}
		row.Count++
	}

	// Reward balances join on the statement month and card number.
	for _, summary := range summaries {
		t, ok := parseDate(summary.StatementDate)
		if !ok {
			log.Debug().Str("statementDate", summary.StatementDate).
				Msg("reward summary date not parseable, skipping bill merge")
			continue
		}
		month := t.Format("2006-01")
		for _, row := range buckets {
			if row.Month == month && row.CardNumber == summary.CardNumber {
				row.OpeningBalance = summary.OpeningBalance
				row.ClosingBalance = summary.ClosingBalance
			}
		}
	}

	rows := make([]BillRow, 0, len(buckets))
	for _, row := range buckets {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.CardNumber != b.CardNumber {
			return a.CardNumber < b.CardNumber
		}
		return a.CardHolderName < b.CardHolderName
	})
	return rows
}
