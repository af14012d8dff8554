package parser

import (
	"path/filepath"
	"strings"

	"github.com/spendlens/card-spend-tracker/internal/models"
)

// Parser is the per-bank extraction strategy. Parse receives the full
// ordered line list of a statement (all pages, page order preserved) and
// returns the transactions and reward summaries it found. Parsers are
// lenient: lines matching no known role are skipped, malformed sub-tokens
// downgrade to zero/absent, and only an unusable input as a whole is an
// error. Parsers hold no shared mutable state; each Parse call is
// independent and safe to run concurrently across files.
type Parser interface {
	Parse(lines []string) ([]models.Transaction, []models.RewardSummary, error)
	BankName() models.Bank
}

// bankOrder fixes dispatch priority when a file name happens to contain
// more than one bank token.
var bankOrder = []models.Bank{
	models.BankHDFC,
	models.BankSBI,
	models.BankICICI,
	models.BankAU,
}

// DetectBank returns the bank whose identifier appears as a substring of
// the uppercased base file name, or BankUnknown when none matches.
func DetectBank(filePath string) models.Bank {
	baseName := strings.ToUpper(filepath.Base(filePath))
	for _, bank := range bankOrder {
		if strings.Contains(baseName, string(bank)) {
			return bank
		}
	}
	return models.BankUnknown
}

// ForFile selects the parser for a statement file based on its name.
// Unrecognized names fall back to the generic parser, which emits
// transactions only and always an empty reward list.
func ForFile(filePath string) Parser {
	switch DetectBank(filePath) {
	case models.BankHDFC:
		return &HDFCParser{}
	case models.BankSBI:
		return &SBIParser{FileName: filepath.Base(filePath)}
	case models.BankICICI:
		return &ICICIParser{}
	case models.BankAU:
		return &AUParser{}
	default:
		return &GenericParser{}
	}
}
