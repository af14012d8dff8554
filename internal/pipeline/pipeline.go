// Package pipeline sequences a full statement run: extract page text,
// dispatch to a bank parser, normalize amounts, categorize, persist,
// reconcile reward balances, then aggregate and export reports.
package pipeline

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spendlens/card-spend-tracker/internal/categorize"
	"github.com/spendlens/card-spend-tracker/internal/credentials"
	"github.com/spendlens/card-spend-tracker/internal/extractor"
	"github.com/spendlens/card-spend-tracker/internal/models"
	"github.com/spendlens/card-spend-tracker/internal/parser"
	"github.com/spendlens/card-spend-tracker/internal/report"
	"github.com/spendlens/card-spend-tracker/internal/rewards"
	"github.com/spendlens/card-spend-tracker/internal/storage"
)

// Runner holds the collaborators of a statement run. Each ParseFile call
// is independent; the Runner itself carries no per-file state, so distinct
// files may be processed concurrently by the calling layer.
type Runner struct {
	Store       *storage.Store
	Categorizer *categorize.Categorizer
	Credentials credentials.Store
	DataDir     string // parsed snapshots and reports land under here
	WarningsLog string // reward validation warnings CSV
	Log         zerolog.Logger
}

// Result summarizes one statement run.
type Result struct {
	Bank            models.Bank
	Transactions    int // parsed from the statement
	InsertedTx      int // actually inserted (after dedup)
	RewardSummaries int
	InsertedRewards int
	RewardWarnings  int
}

// ParseFile runs the whole pipeline for one statement. Only a source that
// cannot be opened at all fails the run; everything smaller downgrades and
// continues.
func (r *Runner) ParseFile(filePath string) (Result, error) {
	baseName := filepath.Base(filePath)
	bank := parser.DetectBank(filePath)
	res := Result{Bank: bank}

	if bank == models.BankUnknown {
		r.Log.Warn().Str("file", baseName).Msg("no bank recognized in file name, using generic parser")
	} else {
		r.Log.Info().Str("file", baseName).Str("bank", string(bank)).Msg("parsing statement")
	}

	password := r.Credentials.Password(bank, "")
	pages, err := extractor.ExtractLines(r.Log, filePath, password)
	if err != nil {
		return res, fmt.Errorf("cannot read %s: %w", baseName, err)
	}
	lines := extractor.Flatten(pages)

	p := parser.ForFile(filePath)
	transactions, rewardSummaries, err := p.Parse(lines)
	if err != nil {
		return res, fmt.Errorf("parsing %s failed: %w", baseName, err)
	}
	res.Transactions = len(transactions)
	res.RewardSummaries = len(rewardSummaries)

	normalizeTransactions(r.Log, transactions, baseName)
	transactions = r.Categorizer.Categorize(transactions)

	if len(transactions) > 0 {
		inserted, err := r.Store.InsertTransactions(transactions)
		if err != nil {
			return res, fmt.Errorf("persisting transactions: %w", err)
		}
		res.InsertedTx = inserted

		header, rows := report.TransactionTable(transactions)
		if _, err := report.WriteCSV(filepath.Join(r.DataDir, "parsed"), "transactions", header, rows); err != nil {
			r.Log.Error().Err(err).Msg("failed to export parsed transactions")
		}
	} else {
		r.Log.Warn().Str("file", baseName).Msg("no transactions found")
	}

	if len(rewardSummaries) > 0 {
		issues, err := rewards.ValidateAndLog(r.Log, rewardSummaries, r.WarningsLog, true)
		if err != nil {
			r.Log.Error().Err(err).Msg("failed to write reward validation warnings")
		}
		res.RewardWarnings = len(issues)

		inserted, err := r.Store.InsertRewardSummaries(rewardSummaries)
		if err != nil {
			return res, fmt.Errorf("persisting reward summaries: %w", err)
		}
		res.InsertedRewards = inserted

		header, rows := report.RewardSummaryTable(rewardSummaries)
		if _, err := report.WriteCSV(filepath.Join(r.DataDir, "parsed"), "rewardSummaries", header, rows); err != nil {
			r.Log.Error().Err(err).Msg("failed to export reward summaries")
		}
	} else {
		r.Log.Warn().Str("file", baseName).Msg("no reward summaries found")
	}

	if err := r.exportReports(rewardSummaries); err != nil {
		return res, err
	}
	return res, nil
}

// exportReports reloads everything persisted so far and rebuilds the
// monthly, quarterly and bill summary reports.
func (r *Runner) exportReports(rewardSummaries []models.RewardSummary) error {
	loaded, err := r.Store.LoadTransactions()
	if err != nil {
		return fmt.Errorf("loading transactions for aggregation: %w", err)
	}

	reportsDir := filepath.Join(r.DataDir, "reports")
	monthly := report.AggregateByPeriod(r.Log, loaded, report.Monthly)
	quarterly := report.AggregateByPeriod(r.Log, loaded, report.Quarterly)
	bill := report.BillSummary(r.Log, loaded, rewardSummaries)

	header, rows := report.PeriodTable(monthly)
	if err := report.WriteReport(reportsDir, "monthly_aggregation", header, rows); err != nil {
		return fmt.Errorf("exporting monthly aggregation: %w", err)
	}
	header, rows = report.PeriodTable(quarterly)
	if err := report.WriteReport(reportsDir, "quarterly_aggregation", header, rows); err != nil {
		return fmt.Errorf("exporting quarterly aggregation: %w", err)
	}
	header, rows = report.BillTable(bill)
	if err := report.WriteReport(reportsDir, "bill_summary", header, rows); err != nil {
		return fmt.Errorf("exporting bill summary: %w", err)
	}

	r.Log.Info().Str("dir", reportsDir).Msg("reports exported")
	return nil
}

// normalizeTransactions is the post-parse cleanup pass: amounts rounded to
// two decimals (coercion failures already downgraded to 0 upstream), and
// transactions without a card number get the bank-scoped fallback derived
// from the file name.
func normalizeTransactions(log zerolog.Logger, transactions []models.Transaction, baseName string) {
	fallback := cardNumberFallback(baseName)
	for i := range transactions {
		tx := &transactions[i]
		if tx.CardNumber == "" {
			tx.CardNumber = fallback
		}
		if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
			log.Warn().Str("description", tx.Description).Msg("invalid amount downgraded to 0")
			tx.Amount = 0
			continue
		}
		tx.Amount = math.Round(tx.Amount*100) / 100
	}
}

// cardNumberFallback derives "<BANKPREFIX>-UNKNOWN" from the uppercased
// base name, taking everything before the first underscore.
func cardNumberFallback(baseName string) string {
	prefix := strings.ToUpper(baseName)
	if idx := strings.Index(prefix, "_"); idx >= 0 {
		prefix = prefix[:idx]
	}
	return prefix + "-UNKNOWN"
}
