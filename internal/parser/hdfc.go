package parser

import (
	"regexp"
	"strings"

	"github.com/spendlens/card-spend-tracker/internal/models"
)

// HDFCParser handles HDFC credit card statement text.
//
// HDFC statements interleave primary and add-on cardholder names with the
// transaction table. The primary holder is printed in ALL CAPS and the
// first such line wins for the whole document; add-on holders appear in
// Title Case and become the current holder for subsequent transactions.
// Section headers that would otherwise pass the name heuristics are
// excluded by a fixed list.
//
// The reward summary is assembled from two separate line shapes: a
// "Points Earned" line carrying the closing balance, and a later 4-number
// line carrying opening, earned, redeemed and adjusted in that order.
type HDFCParser struct{}

func (p *HDFCParser) BankName() models.Bank {
	return models.BankHDFC
}

// Headers and locations that must not be mistaken for cardholder names.
var hdfcExcludeHeaders = map[string]struct{}{
	"DOMESTIC TRANSACTIONS":      {},
	"INTERNATIONAL TRANSACTIONS": {},
	"REWARD POINTS":              {},
	"STATEMENT":                  {},
	"PAYMENT DUE":                {},
	"CREDIT SUMMARY":             {},
	"POINTS EARNED":              {},
	"TOTAL CREDIT LIMIT":         {},
	"IMPORTANT INFORMATION":      {},
	"DETAILS":                    {},
	"NEW DELHI":                  {},
}

var (
	hdfcStmtDatePattern = regexp.MustCompile(`(Statement|Billing) Date\s+(\d{1,2}\s\w+,\s\d{4})`)
	hdfcTxnPattern      = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4}).*?C\s([\d,]+\.\d{2})`)
	hdfcRewardInline    = regexp.MustCompile(`\+\s*(\d+)\s*C\s`)
	hdfcRewardBlock     = regexp.MustCompile(`^\d{1,3}(,\d{3})*\s+\d{1,3}(,\d{3})*\s+\d{1,3}(,\d{3})*\s+\d{1,3}(,\d{3})*$`)
)

// looksLikeCardholder decides whether a line is a cardholder name rather
// than a section header: no digits, slashes, colons or pipes, not in the
// exclusion list, and at most four words in ALL CAPS or Title Case.
func looksLikeCardholder(line string) bool {
	clean := strings.TrimSpace(line)
	if _, excluded := hdfcExcludeHeaders[strings.ToUpper(clean)]; excluded {
		return false
	}
	if strings.ContainsAny(clean, "/:|") {
		return false
	}
	if strings.ContainsAny(clean, "0123456789") {
		return false
	}
	words := len(strings.Fields(clean))
	if isAllCaps(clean) && words <= 4 && words > 0 {
		return true
	}
	if isTitleCase(clean) && words <= 4 {
		return true
	}
	return false
}

func (p *HDFCParser) Parse(lines []string) ([]models.Transaction, []models.RewardSummary, error) {
	var transactions []models.Transaction
	var rewardSummaries []models.RewardSummary

	var currentCardHolder, primaryCardHolder, statementDate string
	var opening, earned, redeemed, adjusted, closing *int

	for _, raw := range lines {
		line := normalizeLine(raw)
		if line == "" {
			continue
		}

		if m := hdfcStmtDatePattern.FindStringSubmatch(line); m != nil {
			statementDate = m[2]
		}

		if looksLikeCardholder(line) {
			if isAllCaps(line) && primaryCardHolder == "" {
				// First ALL CAPS name is the primary holder.
				primaryCardHolder = line
			}
			currentCardHolder = line
		}

		if m := hdfcTxnPattern.FindStringSubmatch(line); m != nil {
			amount, err := ParseAmount(m[2])
			if err != nil {
				amount = 0
			}

			transactionType := models.TypeDebit
			var rewardPoints *int
			if rp := hdfcRewardInline.FindStringSubmatch(line); rp != nil {
				rewardPoints = ParseIntSafe(rp[1])
			}
			if strings.Contains(line, "+ C") {
				transactionType = models.TypeCredit
			}

			description := line
			if idx := strings.Index(line, "|"); idx >= 0 {
				parts := strings.Split(line, "|")
				if len(parts) > 1 {
					description = strings.TrimSpace(parts[1])
				}
			}

			transactions = append(transactions, models.Transaction{
				Date:            m[1],
				Description:     description,
				Amount:          amount,
				Currency:        "INR",
				TransactionType: transactionType,
				RewardPoints:    rewardPoints,
				CardHolderName:  currentCardHolder,
				SourceBank:      models.BankHDFC,
				StatementDate:   statementDate,
				ParserUsed:      "hdfc",
			})
		}

		if strings.Contains(line, "Points Earned") {
			// Closing balance leads this line.
			if fields := strings.Fields(line); len(fields) > 0 {
				if v := ParseIntSafe(fields[0]); v != nil {
					closing = v
				}
			}
		} else if hdfcRewardBlock.MatchString(line) {
			// Opening, earned, redeemed and adjusted in one 4-number line.
			fields := strings.Fields(line)
			if len(fields) == 4 {
				o, e, r, a := ParseIntSafe(fields[0]), ParseIntSafe(fields[1]), ParseIntSafe(fields[2]), ParseIntSafe(fields[3])
				if o != nil && e != nil && r != nil && a != nil {
					opening, earned, redeemed, adjusted = o, e, r, a
				}
			}
		}
	}

	if primaryCardHolder == "" {
		primaryCardHolder = "PRIMARY CARDHOLDER"
	}

	// Only emit the summary once every field has been resolved.
	if opening != nil && earned != nil && redeemed != nil && adjusted != nil && closing != nil {
		rewardSummaries = append(rewardSummaries, models.RewardSummary{
			StatementDate:  statementDate,
			CardHolderName: primaryCardHolder,
			OpeningBalance: opening,
			Earned:         earned,
			Redeemed:       redeemed,
			AdjustedLapsed: adjusted,
			ClosingBalance: closing,
			ParserUsed:     "hdfc",
		})
	}

	return transactions, rewardSummaries, nil
}
