package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/spendlens/card-spend-tracker/internal/models"
)

// WriteCSV writes a table to <dir>/<name>.csv and returns the path.
func WriteCSV(dir, name string, header []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(dir, name+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return path, nil
}

// WriteXLSX writes the same table to <dir>/<name>.xlsx and returns the
// path.
func WriteXLSX(dir, name string, header []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(dir, name+".xlsx")

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := writeSheetRow(f, sheet, 1, header); err != nil {
		return "", err
	}
	for i, row := range rows {
		if err := writeSheetRow(f, sheet, i+2, row); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save %q: %w", path, err)
	}
	return path, nil
}

func writeSheetRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write sheet row %d: %w", rowNum, err)
	}
	return nil
}

// WriteReport writes a table in both formats.
func WriteReport(dir, name string, header []string, rows [][]string) error {
	if _, err := WriteCSV(dir, name, header, rows); err != nil {
		return err
	}
	if _, err := WriteXLSX(dir, name, header, rows); err != nil {
		return err
	}
	return nil
}

// PeriodTable flattens period aggregation rows for export.
func PeriodTable(rows []PeriodRow) ([]string, [][]string) {
	header := []string{
		"period", "cardNumber", "cardHolderName", "category",
		"subCategory", "transactionType", "totalAmount", "transactionCount",
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Period, r.CardNumber, r.CardHolderName, r.Category,
			r.SubCategory, r.TransactionType,
			r.TotalAmount.StringFixed(2), strconv.Itoa(r.Count),
		})
	}
	return header, records
}

// BillTable flattens bill summary rows for export.
func BillTable(rows []BillRow) ([]string, [][]string) {
	header := []string{
		"month", "cardNumber", "cardHolderName",
		"totalDebit", "totalCredit", "totalTx",
		"openingBalance", "closingBalance",
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Month, r.CardNumber, r.CardHolderName,
			r.TotalDebit.StringFixed(2), r.TotalCredit.StringFixed(2),
			strconv.Itoa(r.Count),
			formatOptionalInt(r.OpeningBalance), formatOptionalInt(r.ClosingBalance),
		})
	}
	return header, records
}

// TransactionTable flattens parsed transactions for the CSV snapshot
// written after each run.
func TransactionTable(transactions []models.Transaction) ([]string, [][]string) {
	header := []string{
		"date", "description", "merchant", "amount", "currency",
		"transactionType", "rewardPoints", "cardNumber", "cardHolderName",
		"sourceBank", "statementDate", "category", "subCategory",
		"parserUsed", "importId",
	}
	records := make([][]string, 0, len(transactions))
	for _, tx := range transactions {
		records = append(records, []string{
			tx.Date, tx.Description, tx.Merchant,
			strconv.FormatFloat(tx.Amount, 'f', 2, 64), tx.Currency,
			tx.TransactionType, formatOptionalInt(tx.RewardPoints),
			tx.CardNumber, tx.CardHolderName,
			string(tx.SourceBank), tx.StatementDate,
			tx.Category, tx.SubCategory, tx.ParserUsed, tx.ImportID,
		})
	}
	return header, records
}

// RewardSummaryTable flattens reward summaries for the CSV snapshot.
func RewardSummaryTable(summaries []models.RewardSummary) ([]string, [][]string) {
	header := []string{
		"statementDate", "cardNumber", "cardHolderName",
		"openingBalance", "earned", "redeemed", "adjustedLapsed",
		"closingBalance", "parserUsed", "importId",
	}
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.StatementDate, s.CardNumber, s.CardHolderName,
			formatOptionalInt(s.OpeningBalance), formatOptionalInt(s.Earned),
			formatOptionalInt(s.Redeemed), formatOptionalInt(s.AdjustedLapsed),
			formatOptionalInt(s.ClosingBalance), s.ParserUsed, s.ImportID,
		})
	}
	return header, records
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
