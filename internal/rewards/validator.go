// Package rewards validates reward summaries against the reconciliation
// identity: openingBalance + earned - redeemed - adjustedLapsed must equal
// closingBalance. Violations are recorded, never corrected.
package rewards

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spendlens/card-spend-tracker/internal/models"
)

// Issue pairs a rejected summary with the reason it failed validation.
type Issue struct {
	Summary models.RewardSummary
	Message string
}

// Validate checks a single reward summary. It returns (true, "") when the
// balances reconcile; otherwise false and a message that either lists the
// missing fields or spells out the mismatch with all four inputs.
func Validate(summary models.RewardSummary) (bool, string) {
	var missing []string
	if summary.OpeningBalance == nil {
		missing = append(missing, "openingBalance")
	}
	if summary.Earned == nil {
		missing = append(missing, "earned")
	}
	if summary.Redeemed == nil {
		missing = append(missing, "redeemed")
	}
	if summary.AdjustedLapsed == nil {
		missing = append(missing, "adjustedLapsed")
	}
	if summary.ClosingBalance == nil {
		missing = append(missing, "closingBalance")
	}
	if len(missing) > 0 {
		return false, fmt.Sprintf("incomplete_fields: %s", strings.Join(missing, ","))
	}

	opening := *summary.OpeningBalance
	earned := *summary.Earned
	redeemed := *summary.Redeemed
	adjusted := *summary.AdjustedLapsed
	closing := *summary.ClosingBalance

	expected := opening + earned - redeemed - adjusted
	if expected == closing {
		return true, ""
	}
	return false, fmt.Sprintf(
		"mismatch: expected_closing=%d, actual_closing=%d [opening=%d, earned=%d, redeemed=%d, adjusted=%d]",
		expected, closing, opening, earned, redeemed, adjusted,
	)
}

var warningsHeader = []string{
	"statementDate", "cardNumber", "cardHolderName",
	"openingBalance", "earned", "redeemed", "adjustedLapsed",
	"closingBalance", "issue",
}

// ValidateAndLog validates every summary and appends each failure as a row
// to the warnings CSV at logPath (overwrite truncates the file first; the
// header row is written whenever the file starts empty). It returns the
// rejected summaries so callers can decide whether to surface a warning
// count. Validation issues never block persistence of the summaries.
func ValidateAndLog(log zerolog.Logger, summaries []models.RewardSummary, logPath string, overwrite bool) ([]Issue, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(logPath, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open warnings log %q: %w", logPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if fi, err := f.Stat(); err == nil && fi.Size() == 0 {
		w.Write(warningsHeader)
	}

	var issues []Issue
	for _, summary := range summaries {
		valid, message := Validate(summary)
		if valid {
			continue
		}
		issues = append(issues, Issue{Summary: summary, Message: message})
		w.Write([]string{
			summary.StatementDate,
			summary.CardNumber,
			summary.CardHolderName,
			formatPoints(summary.OpeningBalance),
			formatPoints(summary.Earned),
			formatPoints(summary.Redeemed),
			formatPoints(summary.AdjustedLapsed),
			formatPoints(summary.ClosingBalance),
			message,
		})
		log.Warn().
			Str("statementDate", summary.StatementDate).
			Str("cardHolder", summary.CardHolderName).
			Msg(message)
	}

	return issues, nil
}

func formatPoints(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}
