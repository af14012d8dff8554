package models

// Transaction type values used across parsers, categorization and storage.
const (
	TypeDebit  = "DEBIT"
	TypeCredit = "CREDIT"
)

// Bank identifies a supported statement issuer.
type Bank string

const (
	BankHDFC    Bank = "HDFC"
	BankSBI     Bank = "SBI"
	BankICICI   Bank = "ICICI"
	BankAU      Bank = "AU"
	BankUnknown Bank = "Unknown"
)

// Transaction represents a single normalized purchase/payment line from a
// credit card statement.
type Transaction struct {
	Date            string  `json:"date"`
	Description     string  `json:"description"`
	Merchant        string  `json:"merchant,omitempty"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	TransactionType string  `json:"transactionType"` // DEBIT or CREDIT
	RewardPoints    *int    `json:"rewardPoints,omitempty"`
	CardNumber      string  `json:"cardNumber,omitempty"` // bank-native masking preserved
	CardHolderName  string  `json:"cardHolderName,omitempty"`
	SourceBank      Bank    `json:"sourceBank"`
	StatementDate   string  `json:"statementDate,omitempty"` // period string as extracted
	Category        string  `json:"category,omitempty"`
	SubCategory     string  `json:"subCategory,omitempty"`
	ParserUsed      string  `json:"parserUsed"`
	ImportID        string  `json:"importId,omitempty"`
}

// RewardSummary is a per-statement reconciliation record of loyalty-point
// balances. Numeric fields stay nil until the parser resolves them, so the
// validator can tell an absent value apart from a zero balance.
type RewardSummary struct {
	StatementDate  string `json:"statementDate,omitempty"`
	CardNumber     string `json:"cardNumber,omitempty"`
	CardHolderName string `json:"cardHolderName,omitempty"`
	OpeningBalance *int   `json:"openingBalance"`
	Earned         *int   `json:"earned"`
	Redeemed       *int   `json:"redeemed"`
	AdjustedLapsed *int   `json:"adjustedLapsed"`
	ClosingBalance *int   `json:"closingBalance"`
	ParserUsed     string `json:"parserUsed"`
	ImportID       string `json:"importId,omitempty"`
}

// Int returns a pointer to v. Convenience for the optional point fields.
func Int(v int) *int {
	return &v
}
