package parser

import (
	"regexp"

	"github.com/spendlens/card-spend-tracker/internal/models"
)

// ICICIParser handles ICICI credit card statement text.
//
// ICICI statements are password protected; the pipeline opens them with
// the stored credential, so the parser itself only sees decrypted lines.
// A masked card number like "6528XXXXXXXX1005" sits on its own line and
// becomes the card context for the rows that follow. Transaction rows are
//
//	04/08/2025 11725387534 BBPS Payment received 0 10.00 CR
//
// with columns date, reference, description, merchant code, amount and an
// optional trailing CR marking a credit. ICICI statements carry no reward
// points block, so the reward list is always empty.
type ICICIParser struct{}

func (p *ICICIParser) BankName() models.Bank {
	return models.BankICICI
}

var (
	iciciCardPattern = regexp.MustCompile(`^\d{4}X{8}\d{4}`)
	iciciTxnPattern  = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(\d+)\s+(.*?)\s+(\d+)\s+([\d,]+\.\d{2})(?:\s+(CR))?`)
)

func (p *ICICIParser) Parse(lines []string) ([]models.Transaction, []models.RewardSummary, error) {
	var transactions []models.Transaction

	var currentCardNumber string

	for _, raw := range lines {
		line := normalizeLine(raw)
		if line == "" {
			continue
		}

		if iciciCardPattern.MatchString(line) {
			currentCardNumber = line
			continue
		}

		m := iciciTxnPattern.FindStringSubmatch(line)
		if m == nil || currentCardNumber == "" {
			continue
		}

		amount, err := ParseAmount(m[5])
		if err != nil {
			amount = 0
		}
		transactionType := models.TypeDebit
		if m[6] == "CR" {
			transactionType = models.TypeCredit
		}

		transactions = append(transactions, models.Transaction{
			Date:            m[1],
			Description:     m[3],
			Amount:          amount,
			Currency:        "INR",
			TransactionType: transactionType,
			CardNumber:      currentCardNumber,
			SourceBank:      models.BankICICI,
			ParserUsed:      "icici",
		})
	}

	// No reward summary concept for this bank.
	return transactions, nil, nil
}
