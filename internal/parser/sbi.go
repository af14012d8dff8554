package parser

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spendlens/card-spend-tracker/internal/models"
)

// SBIParser handles SBI credit card statement text.
//
// Layout assumptions, from observed statements:
//   - the cardholder name precedes the literal " Credit Card Number";
//   - the masked card number looks like "XXXX XXXX XXXX XX51";
//   - the statement period follows "for Statement Period:";
//   - the transaction table starts after the "Date Transaction Details
//     Amount" header and each row is "12 Aug 25 <description> 326.00 D";
//   - the reward summary is a single line of five integers.
//
// Two independent reward extraction paths exist and both are kept: the
// in-scan 5-number line reads opening, earned, redeemed, CLOSING, LAPSED
// in that order, while the helper scan reads opening, earned, redeemed,
// ADJUSTED, CLOSING with a "NONE" sentinel allowed for closing. The orders
// genuinely differ between the two statement variants they target.
type SBIParser struct {
	// FileName is the statement's base name; combined with the statement
	// period it yields the deterministic import identifier.
	FileName string
}

func (p *SBIParser) BankName() models.Bank {
	return models.BankSBI
}

var (
	sbiCardNumberPattern = regexp.MustCompile(`^X{4}\sX{4}\sX{4}\sXX\d{2}`)
	sbiStmtPeriodPattern = regexp.MustCompile(`for Statement Period:\s*(.+)`)
	sbiRewardLinePattern = regexp.MustCompile(`^(\d+\s*){5}$`)
	sbiTxnPattern        = regexp.MustCompile(`^(\d{2}\s\w{3}\s\d{2})\s+(.*?)\s+([\d,]+\.\d{2})\s+([DC])$`)
)

const sbiTxnHeader = "Date Transaction Details Amount"

// importID derives the statement's deterministic import identifier from
// the source file name and the statement period.
func (p *SBIParser) importID(statementDate string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s", p.FileName, statementDate)))
	return hex.EncodeToString(sum[:])
}

func (p *SBIParser) Parse(lines []string) ([]models.Transaction, []models.RewardSummary, error) {
	var transactions []models.Transaction
	var rewardSummaries []models.RewardSummary

	var primaryCardHolder, cardNumber, statementDate string
	var opening, earned, redeemed, lapsed, closing *int
	insideTransactions := false

	for _, raw := range lines {
		line := normalizeLine(raw)
		if line == "" {
			continue
		}

		if strings.Contains(line, "Credit Card Number") && primaryCardHolder == "" {
			primaryCardHolder = strings.TrimSpace(strings.SplitN(line, " Credit Card Number", 2)[0])
		}

		if sbiCardNumberPattern.MatchString(line) && cardNumber == "" {
			cardNumber = line
		}

		if m := sbiStmtPeriodPattern.FindStringSubmatch(line); m != nil && statementDate == "" {
			statementDate = strings.TrimSpace(m[1])
		}

		// Reward summary: five integers on one line, order
		// opening, earned, redeemed, closing, lapsed.
		if sbiRewardLinePattern.MatchString(strings.ReplaceAll(line, ",", "")) {
			fields := strings.Fields(line)
			if len(fields) == 5 {
				o, e, r := ParseIntSafe(fields[0]), ParseIntSafe(fields[1]), ParseIntSafe(fields[2])
				c, l := ParseIntSafe(fields[3]), ParseIntSafe(fields[4])
				if o != nil && e != nil && r != nil && c != nil && l != nil {
					opening, earned, redeemed, closing, lapsed = o, e, r, c, l
				}
			}
		}

		if strings.HasPrefix(line, sbiTxnHeader) {
			insideTransactions = true
			continue
		}

		if insideTransactions {
			if m := sbiTxnPattern.FindStringSubmatch(line); m != nil {
				date := m[1]
				// "12 Aug 25" normalizes to ISO-8601; the raw string is
				// kept when it does not parse.
				if t, err := time.Parse("02 Jan 06", date); err == nil {
					date = t.Format("2006-01-02")
				}

				amount, err := ParseAmount(m[3])
				if err != nil {
					amount = 0
				}
				transactionType := models.TypeDebit
				if m[4] == "C" {
					transactionType = models.TypeCredit
				}

				transactions = append(transactions, models.Transaction{
					Date:            date,
					Description:     strings.TrimSpace(m[2]),
					Amount:          amount,
					Currency:        "INR",
					TransactionType: transactionType,
					CardNumber:      cardNumber,
					CardHolderName:  primaryCardHolder,
					SourceBank:      models.BankSBI,
					StatementDate:   statementDate,
					ParserUsed:      "sbi",
					ImportID:        p.importID(statementDate),
				})
			}
		}
	}

	// Helper path first: its rows reach storage ahead of the in-scan one.
	rewardSummaries = append(rewardSummaries, parseSBIRewards(lines, statementDate, cardNumber, primaryCardHolder)...)

	if opening != nil {
		rewardSummaries = append(rewardSummaries, models.RewardSummary{
			StatementDate:  statementDate,
			CardNumber:     cardNumber,
			CardHolderName: primaryCardHolder,
			OpeningBalance: opening,
			Earned:         earned,
			Redeemed:       redeemed,
			AdjustedLapsed: lapsed,
			ClosingBalance: closing,
			ParserUsed:     "sbi",
			ImportID:       p.importID(statementDate),
		})
	}

	return transactions, rewardSummaries, nil
}

// parseSBIRewards is the second reward extraction path: a line of exactly
// five whitespace-separated tokens, the first four plain integers and the
// fifth either an integer or the "NONE" sentinel (meaning a zero closing
// balance). Field order here is opening, earned, redeemed, adjusted,
// closing. Each match carries its own random import identifier; only the
// first matching line counts, there is normally one summary per statement.
func parseSBIRewards(lines []string, statementPeriod, cardNumber, cardHolderName string) []models.RewardSummary {
	var rewardSummaries []models.RewardSummary

	for _, line := range lines {
		tokens := strings.Fields(strings.TrimSpace(line))
		if len(tokens) != 5 || !isDigitToken(tokens[0]) || !isDigitToken(tokens[1]) {
			continue
		}

		opening, earned, redeemed, adjusted := ParseIntSafe(tokens[0]), ParseIntSafe(tokens[1]), ParseIntSafe(tokens[2]), ParseIntSafe(tokens[3])
		var closing *int
		if isNoneToken(tokens[4]) {
			closing = models.Int(0)
		} else {
			closing = ParseIntSafe(tokens[4])
		}
		if opening == nil || earned == nil || redeemed == nil || adjusted == nil || closing == nil {
			continue
		}

		// The statement period reads "12 Aug 25 to 11 Sep 25"; the
		// summary is dated by the period's end.
		statementDate := statementPeriod
		if idx := strings.LastIndex(statementPeriod, "to"); idx >= 0 {
			statementDate = strings.TrimSpace(statementPeriod[idx+len("to"):])
		}

		rewardSummaries = append(rewardSummaries, models.RewardSummary{
			StatementDate:  statementDate,
			CardNumber:     cardNumber,
			CardHolderName: cardHolderName,
			OpeningBalance: opening,
			Earned:         earned,
			Redeemed:       redeemed,
			AdjustedLapsed: adjusted,
			ClosingBalance: closing,
			ParserUsed:     "sbi",
			ImportID:       uuid.NewString(),
		})
		break
	}

	return rewardSummaries
}
