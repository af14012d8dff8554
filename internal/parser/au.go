package parser

import (
	"strings"

	"github.com/spendlens/card-spend-tracker/internal/models"
)

// AUParser handles AU Small Finance Bank credit card statement text.
//
// Layout assumptions, from observed statements:
//   - the cardholder name follows the "Hello, " greeting on its own line;
//   - card number and a crude statement-date fallback are pulled by token
//     position from the "Statement for your credit card ending with (XXXX)"
//     line (a known best-effort heuristic, fragile to wording changes);
//   - once "Your Transactions" has been seen, transactions arrive in fixed
//     3-line groups: description, then index + rupee amount, then date +
//     Dr/Cr flag + an optional reward-points token ending in "RP".
//
// The reward summary lives in a labeled block parsed by parseAURewards.
type AUParser struct{}

func (p *AUParser) BankName() models.Bank {
	return models.BankAU
}

const (
	auCardLinePrefix = "Statement for your credit card ending with"
	auGreetingPrefix = "Hello, "
	auTxnStartMarker = "Your Transactions"
	auRewardsMarker  = "Reward Points you have earned this month"
	auRewardsEndFuel = "Fuel Surcharge"
	auRewardsEndFoot = "Page "
)

// auPartial accumulates one 3-line transaction group.
type auPartial struct {
	description string
	amount      float64
	haveDesc    bool
}

func (p *AUParser) Parse(lines []string) ([]models.Transaction, []models.RewardSummary, error) {
	var transactions []models.Transaction
	var rewardSummaries []models.RewardSummary

	var cardHolder, cardNumber, statementDate string
	inTxn := false
	var current auPartial

	for _, raw := range lines {
		line := normalizeLine(raw)
		if line == "" {
			continue
		}

		// Card and statement metadata.
		if strings.HasPrefix(line, auCardLinePrefix) {
			parts := strings.Fields(line)
			if len(parts) > 6 {
				cardNumber = strings.Trim(parts[6], "()")
			}
			if len(parts) >= 3 {
				// Crude fallback: the date parts trail the line.
				statementDate = strings.Join(parts[len(parts)-3:], " ")
			}
			continue
		}
		if strings.HasPrefix(line, auGreetingPrefix) {
			cardHolder = strings.TrimSpace(strings.TrimPrefix(line, "Hello,"))
			continue
		}

		if strings.HasPrefix(line, auTxnStartMarker) {
			inTxn = true
			continue
		}

		if !inTxn {
			continue
		}

		// Line 1 of a group: the description.
		if !current.haveDesc {
			current.description = line
			current.haveDesc = true
			continue
		}

		// Line 2: index + amount, e.g. "19 ₹4,000.00".
		if strings.Contains(line, "₹") {
			parts := strings.Fields(line)
			if len(parts) > 1 {
				amount, err := ParseAmount(parts[1])
				if err != nil {
					amount = 0
				}
				current.amount = amount
			}
			continue
		}

		// Line 3: date + Dr/Cr + optional reward points; emits the record.
		if strings.Contains(line, "Dr") || strings.Contains(line, "Cr") {
			parts := strings.Fields(line)
			if len(parts) < 2 {
				continue
			}

			transactionType := models.TypeCredit
			for _, part := range parts {
				if part == "Dr" {
					transactionType = models.TypeDebit
					break
				}
			}

			var rewardPoints *int
			for _, part := range parts {
				if strings.HasSuffix(part, "RP") {
					rewardPoints = ParseIntSafe(strings.TrimSuffix(part, "RP"))
					break
				}
			}

			transactions = append(transactions, models.Transaction{
				Date:            strings.Join(parts[0:2], " "),
				Description:     current.description,
				Amount:          current.amount,
				Currency:        "INR",
				TransactionType: transactionType,
				RewardPoints:    rewardPoints,
				CardNumber:      cardNumber,
				CardHolderName:  cardHolder,
				SourceBank:      models.BankAU,
				StatementDate:   statementDate,
				ParserUsed:      "au",
			})
			current = auPartial{}
			continue
		}
	}

	if summary, ok := parseAURewards(lines, statementDate, cardNumber, cardHolder); ok {
		rewardSummaries = append(rewardSummaries, summary)
	}

	return transactions, rewardSummaries, nil
}

// parseAURewards scans the labeled reward block between the rewards marker
// and the first terminating marker (the fuel surcharge section or a page
// footer). "Earned +" and "Bonus Points" are summed into the final earned
// figure. A summary is only emitted when a closing balance was found.
func parseAURewards(lines []string, statementDate, cardNumber, cardHolder string) (models.RewardSummary, bool) {
	summary := models.RewardSummary{
		StatementDate:  statementDate,
		CardNumber:     cardNumber,
		CardHolderName: cardHolder,
		ParserUsed:     "au",
	}

	inSection := false
	earned := 0
	bonus := 0
	haveEarned := false

	for _, raw := range lines {
		line := normalizeLine(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, auRewardsMarker) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if strings.HasPrefix(line, auRewardsEndFuel) || strings.HasPrefix(line, auRewardsEndFoot) {
			break
		}

		switch {
		case strings.HasPrefix(line, "Opening balance"):
			summary.OpeningBalance = firstInt(line)
		case strings.HasPrefix(line, "Earned +"):
			if v := firstInt(line); v != nil {
				earned = *v
				haveEarned = true
			}
		case strings.HasPrefix(line, "Bonus Points"):
			if v := firstInt(line); v != nil {
				bonus = *v
				haveEarned = true
			}
		case strings.HasPrefix(line, "Lapsed"):
			summary.AdjustedLapsed = firstInt(line)
		case strings.HasPrefix(line, "Redeemed"):
			summary.Redeemed = firstInt(line)
		case strings.HasPrefix(line, "Total reward points"):
			summary.ClosingBalance = firstInt(line)
		}
	}

	if haveEarned {
		summary.Earned = models.Int(earned + bonus)
	}

	if summary.ClosingBalance == nil {
		return models.RewardSummary{}, false
	}
	return summary, true
}
