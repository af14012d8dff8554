package report

import (
	"os"
	"testing"

	"github.com/spendlens/card-spend-tracker/internal/logger"
	"github.com/spendlens/card-spend-tracker/internal/models"
)

func testTransactions() []models.Transaction {
	return []models.Transaction{
		{
			Date: "2025-08-12", Amount: 326.00, TransactionType: models.TypeDebit,
			CardNumber: "XX51", CardHolderName: "RAHUL SHARMA",
			Category: "Groceries", SubCategory: "Quick Commerce",
		},
		{
			Date: "2025-08-20", Amount: 174.00, TransactionType: models.TypeDebit,
			CardNumber: "XX51", CardHolderName: "RAHUL SHARMA",
			Category: "Groceries", SubCategory: "Quick Commerce",
		},
		{
			Date: "2025-08-13", Amount: 1000.00, TransactionType: models.TypeCredit,
			CardNumber: "XX51", CardHolderName: "RAHUL SHARMA",
			Category: "Payments", SubCategory: "Bill Payment",
		},
		{
			Date: "2025-11-02", Amount: 50.00, TransactionType: models.TypeDebit,
			CardNumber: "XX51", CardHolderName: "RAHUL SHARMA",
			Category: "Groceries", SubCategory: "Quick Commerce",
		},
		{
			Date: "not a date", Amount: 10.00, TransactionType: models.TypeDebit,
			CardNumber: "XX51", CardHolderName: "RAHUL SHARMA",
		},
	}
}

func TestAggregateByPeriodMonthly(t *testing.T) {
	log := logger.NewWithWriter(os.Stderr)
	rows := AggregateByPeriod(log, testTransactions(), Monthly)

	// 2025-08 groceries, 2025-08 payments, 2025-11 groceries; the
	// unparseable date is dropped.
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}

	row := rows[0]
	if row.Period != "2025-08" {
		t.Errorf("row[0].Period: got %q, want %q", row.Period, "2025-08")
	}
	if row.Category != "Groceries" {
		t.Errorf("row[0].Category: got %q, want %q", row.Category, "Groceries")
	}
	if row.TotalAmount.StringFixed(2) != "500.00" {
		t.Errorf("row[0].TotalAmount: got %s, want 500.00", row.TotalAmount.StringFixed(2))
	}
	if row.Count != 2 {
		t.Errorf("row[0].Count: got %d, want 2", row.Count)
	}

	if rows[1].Category != "Payments" || rows[1].TotalAmount.StringFixed(2) != "1000.00" {
		t.Errorf("row[1]: got %s %s", rows[1].Category, rows[1].TotalAmount.StringFixed(2))
	}
	if rows[2].Period != "2025-11" {
		t.Errorf("row[2].Period: got %q, want %q", rows[2].Period, "2025-11")
	}
}

func TestAggregateByPeriodQuarterly(t *testing.T) {
	log := logger.NewWithWriter(os.Stderr)
	rows := AggregateByPeriod(log, testTransactions(), Quarterly)

	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}
	if rows[0].Period != "2025-Q3" {
		t.Errorf("row[0].Period: got %q, want %q", rows[0].Period, "2025-Q3")
	}
	if rows[2].Period != "2025-Q4" {
		t.Errorf("row[2].Period: got %q, want %q", rows[2].Period, "2025-Q4")
	}
}

func TestAggregateEmptyCategory(t *testing.T) {
	log := logger.NewWithWriter(os.Stderr)
	rows := AggregateByPeriod(log, []models.Transaction{
		{Date: "2025-08-12", Amount: 10, TransactionType: models.TypeDebit},
	}, Monthly)

	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}
	if rows[0].Category != "Uncategorized" {
		t.Errorf("Category: got %q, want %q", rows[0].Category, "Uncategorized")
	}
}

func TestBillSummary(t *testing.T) {
	log := logger.NewWithWriter(os.Stderr)

	summaries := []models.RewardSummary{
		{
			StatementDate:  "2025-08-12",
			CardNumber:     "XX51",
			OpeningBalance: models.Int(3500),
			ClosingBalance: models.Int(3900),
		},
	}

	rows := BillSummary(log, testTransactions(), summaries)
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}

	row := rows[0]
	if row.Month != "2025-08" {
		t.Errorf("row[0].Month: got %q, want %q", row.Month, "2025-08")
	}
	if row.TotalDebit.StringFixed(2) != "500.00" {
		t.Errorf("row[0].TotalDebit: got %s, want 500.00", row.TotalDebit.StringFixed(2))
	}
	if row.TotalCredit.StringFixed(2) != "1000.00" {
		t.Errorf("row[0].TotalCredit: got %s, want 1000.00", row.TotalCredit.StringFixed(2))
	}
	if row.Count != 3 {
		t.Errorf("row[0].Count: got %d, want 3", row.Count)
	}
	if row.OpeningBalance == nil || *row.OpeningBalance != 3500 {
		t.Errorf("row[0].OpeningBalance: got %v, want 3500", row.OpeningBalance)
	}
	if row.ClosingBalance == nil || *row.ClosingBalance != 3900 {
		t.Errorf("row[0].ClosingBalance: got %v, want 3900", row.ClosingBalance)
	}

	// November has no matching reward summary.
	if rows[1].OpeningBalance != nil {
		t.Errorf("row[1].OpeningBalance: got %d, want nil", *rows[1].OpeningBalance)
	}
}

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"2025-08-12", true},
		{"12/08/2025", true},
		{"12-08-2025", true},
		{"12 Aug 25", true},
		{"12 Aug 2025", true},
		{"12 August, 2025", true},
		{"12 Jul 25 to 11 Aug 25", false},
		{"", false},
	}

	for _, tt := range tests {
		if _, ok := parseDate(tt.input); ok != tt.ok {
			t.Errorf("parseDate(%q): got %v, want %v", tt.input, ok, tt.ok)
		}
	}
}
