package parser

import (
	"regexp"
	"strings"

	"github.com/spendlens/card-spend-tracker/internal/models"
)

// GenericParser is the fallback for statements from unrecognized banks.
// It applies one simple "dd-mm-yyyy description amount" pattern per line,
// with no reward summaries, no cardholder and no card number.
type GenericParser struct{}

func (p *GenericParser) BankName() models.Bank {
	return models.BankUnknown
}

var genericTxnPattern = regexp.MustCompile(`^(\d{2}-\d{2}-\d{4})\s+(.+)\s+(-?\d+\.\d{2})`)

func (p *GenericParser) Parse(lines []string) ([]models.Transaction, []models.RewardSummary, error) {
	var transactions []models.Transaction

	for _, raw := range lines {
		line := normalizeLine(raw)
		if line == "" {
			continue
		}

		m := genericTxnPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		description := strings.TrimSpace(m[2])
		merchant := ""
		if fields := strings.Fields(description); len(fields) > 0 {
			merchant = fields[0]
		}
		amount, err := ParseAmount(m[3])
		if err != nil {
			amount = 0
		}
		// The generic pattern carries sign instead of a D/C column.
		transactionType := models.TypeDebit
		if amount < 0 {
			transactionType = models.TypeCredit
			amount = -amount
		}

		transactions = append(transactions, models.Transaction{
			Date:            m[1],
			Description:     description,
			Merchant:        merchant,
			Amount:          amount,
			Currency:        "INR",
			TransactionType: transactionType,
			SourceBank:      models.BankUnknown,
			ParserUsed:      "generic",
		})
	}

	return transactions, nil, nil
}
