package categorize

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/spendlens/card-spend-tracker/internal/logger"
	"github.com/spendlens/card-spend-tracker/internal/models"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func testCategorizer(t *testing.T, categories, rules string) *Categorizer {
	t.Helper()
	dir := t.TempDir()
	if categories != "" {
		writeConfig(t, dir, CategoriesFile, categories)
	}
	if rules != "" {
		writeConfig(t, dir, RulesFile, rules)
	}
	log := logger.NewWithWriter(os.Stderr)
	return Load(log, dir, "")
}

func TestCategorizeLongestMerchantWins(t *testing.T) {
	c := testCategorizer(t, `{
		"Amazon": {"category": "Shopping", "subCategory": "Online"},
		"Amazon Pay": {"category": "Payments", "subCategory": "Wallet"}
	}`, "")

	transactions := []models.Transaction{
		{Description: "AMAZON PAY INDIA BANGALORE", TransactionType: models.TypeDebit},
		{Description: "AMAZON RETAIL MUMBAI", TransactionType: models.TypeDebit},
	}
	c.Categorize(transactions)

	if transactions[0].Category != "Payments" || transactions[0].SubCategory != "Wallet" {
		t.Errorf("txn[0]: got %s/%s, want Payments/Wallet",
			transactions[0].Category, transactions[0].SubCategory)
	}
	if transactions[1].Category != "Shopping" || transactions[1].SubCategory != "Online" {
		t.Errorf("txn[1]: got %s/%s, want Shopping/Online",
			transactions[1].Category, transactions[1].SubCategory)
	}
}

func TestCategorizeRulesInOrder(t *testing.T) {
	c := testCategorizer(t, "", `{
		"swiggy.*instamart": {"category": "Groceries", "subCategory": "Quick Commerce"},
		"swiggy": {"category": "Food", "subCategory": "Delivery"}
	}`)

	transactions := []models.Transaction{
		{Description: "UPI-Swiggy Instamart", TransactionType: models.TypeDebit},
		{Description: "SWIGGY BANGALORE", TransactionType: models.TypeDebit},
	}
	c.Categorize(transactions)

	if transactions[0].Category != "Groceries" {
		t.Errorf("txn[0].Category: got %q, want %q", transactions[0].Category, "Groceries")
	}
	if transactions[1].Category != "Food" {
		t.Errorf("txn[1].Category: got %q, want %q", transactions[1].Category, "Food")
	}
}

func TestCategorizeTypeSpecificRule(t *testing.T) {
	c := testCategorizer(t, "", `{
		"payment received": {
			"CREDIT": {"category": "Payments", "subCategory": "Bill Payment"}
		},
		"payment": {"category": "Transfers", "subCategory": "General"}
	}`)

	transactions := []models.Transaction{
		{Description: "BBPS Payment received", TransactionType: models.TypeCredit},
		// A debit does not match the CREDIT-only rule; the later generic
		// rule picks it up.
		{Description: "BBPS Payment received", TransactionType: models.TypeDebit},
	}
	c.Categorize(transactions)

	if transactions[0].Category != "Payments" {
		t.Errorf("credit: got %q, want %q", transactions[0].Category, "Payments")
	}
	if transactions[1].Category != "Transfers" {
		t.Errorf("debit: got %q, want %q", transactions[1].Category, "Transfers")
	}
}

func TestCategorizeTypeMismatchFallsThrough(t *testing.T) {
	c := testCategorizer(t, "", `{
		"payment received": {
			"CREDIT": {"category": "Payments", "subCategory": "Bill Payment"}
		}
	}`)

	transactions := []models.Transaction{
		// The only rule is CREDIT-scoped; a debit gets no category at all.
		{Description: "BBPS Payment received", TransactionType: models.TypeDebit},
	}
	c.Categorize(transactions)

	if transactions[0].Category != "Uncategorized" {
		t.Errorf("Category: got %q, want %q", transactions[0].Category, "Uncategorized")
	}
	if transactions[0].SubCategory != "Needs Review" {
		t.Errorf("SubCategory: got %q, want %q", transactions[0].SubCategory, "Needs Review")
	}
}

func TestCategorizeFallback(t *testing.T) {
	c := testCategorizer(t, "", "")

	transactions := []models.Transaction{
		{Description: "SOMETHING NOBODY KNOWS", TransactionType: models.TypeDebit},
	}
	c.Categorize(transactions)

	if transactions[0].Category != "Uncategorized" {
		t.Errorf("Category: got %q, want %q", transactions[0].Category, "Uncategorized")
	}
	if transactions[0].SubCategory != "Needs Review" {
		t.Errorf("SubCategory: got %q, want %q", transactions[0].SubCategory, "Needs Review")
	}
}

func TestCategorizeMerchantBeatsRule(t *testing.T) {
	c := testCategorizer(t, `{
		"Myntra": {"category": "Shopping", "subCategory": "Fashion"}
	}`, `{
		"myntra": {"category": "Wrong", "subCategory": "Wrong"}
	}`)

	transactions := []models.Transaction{
		{Description: "MYNTRA DESIGNS", TransactionType: models.TypeDebit},
	}
	c.Categorize(transactions)

	if transactions[0].Category != "Shopping" {
		t.Errorf("Category: got %q, want %q", transactions[0].Category, "Shopping")
	}
}

func TestCategorizeInvalidPatternSkipped(t *testing.T) {
	c := testCategorizer(t, "", `{
		"[invalid": {"category": "Broken", "subCategory": "Broken"},
		"valid": {"category": "Good", "subCategory": "Good"}
	}`)

	transactions := []models.Transaction{
		{Description: "a valid line", TransactionType: models.TypeDebit},
	}
	c.Categorize(transactions)

	if transactions[0].Category != "Good" {
		t.Errorf("Category: got %q, want %q", transactions[0].Category, "Good")
	}
}

func TestUncategorizedAuditLog(t *testing.T) {
	dir := t.TempDir()
	auditPath := filepath.Join(dir, "logs", "uncategorized.csv")
	log := logger.NewWithWriter(os.Stderr)
	c := Load(log, dir, auditPath)

	c.Categorize([]models.Transaction{
		{Date: "2025-08-12", Description: "MYSTERY MERCHANT", Amount: 100, TransactionType: models.TypeDebit},
	})

	f, err := os.Open(auditPath)
	if err != nil {
		t.Fatalf("audit log not written: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read audit log: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("audit rows: got %d, want 2 (header + 1)", len(records))
	}
	if records[1][1] != "MYSTERY MERCHANT" {
		t.Errorf("audit description: got %q, want %q", records[1][1], "MYSTERY MERCHANT")
	}
}
