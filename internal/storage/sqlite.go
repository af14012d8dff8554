// Package storage persists normalized transactions and reward summaries in
// a local SQLite database. Inserts are idempotent: duplicates on the dedup
// keys are silently ignored, so re-parsing the same statement never double
// counts.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/spendlens/card-spend-tracker/internal/models"
)

// A transaction is unique per (date, description, amount, transactionType,
// cardHolderName); a reward summary per (statementDate, cardNumber).
const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT,
	description TEXT,
	merchant TEXT,
	amount REAL,
	currency TEXT,
	transactionType TEXT,
	rewardPoints INTEGER,
	cardNumber TEXT,
	cardHolderName TEXT,
	sourceBank TEXT,
	statementDate TEXT,
	category TEXT,
	subCategory TEXT,
	parserUsed TEXT,
	importId TEXT,
	UNIQUE (date, description, amount, transactionType, cardHolderName)
);

CREATE TABLE IF NOT EXISTS rewardPointsSummary (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	statementDate TEXT,
	cardNumber TEXT,
	cardHolderName TEXT,
	openingBalance INTEGER,
	earned INTEGER,
	redeemed INTEGER,
	adjustedLapsed INTEGER,
	closingBalance INTEGER,
	parserUsed TEXT,
	importId TEXT,
	UNIQUE (statementDate, cardNumber)
);
`

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertTransactions inserts the batch and returns how many rows were
// actually added; duplicates on the dedup key are dropped silently.
func (s *Store) InsertTransactions(transactions []models.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}

	stmt, err := s.db.Prepare(`
		INSERT OR IGNORE INTO transactions (
			date, description, merchant, amount, currency,
			transactionType, rewardPoints, cardNumber, cardHolderName,
			sourceBank, statementDate, category, subCategory,
			parserUsed, importId
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare transaction insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, tx := range transactions {
		res, err := stmt.Exec(
			tx.Date, tx.Description, tx.Merchant, tx.Amount, tx.Currency,
			tx.TransactionType, tx.RewardPoints, tx.CardNumber, tx.CardHolderName,
			string(tx.SourceBank), tx.StatementDate, tx.Category, tx.SubCategory,
			tx.ParserUsed, tx.ImportID,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert transaction: %w", err)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}
	return inserted, nil
}

// InsertRewardSummaries inserts the batch and returns how many rows were
// actually added; duplicates per (statementDate, cardNumber) are dropped.
func (s *Store) InsertRewardSummaries(summaries []models.RewardSummary) (int, error) {
	if len(summaries) == 0 {
		return 0, nil
	}

	stmt, err := s.db.Prepare(`
		INSERT OR IGNORE INTO rewardPointsSummary (
			statementDate, cardNumber, cardHolderName,
			openingBalance, earned, redeemed, adjustedLapsed,
			closingBalance, parserUsed, importId
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare reward insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, summary := range summaries {
		res, err := stmt.Exec(
			summary.StatementDate, summary.CardNumber, summary.CardHolderName,
			summary.OpeningBalance, summary.Earned, summary.Redeemed,
			summary.AdjustedLapsed, summary.ClosingBalance,
			summary.ParserUsed, summary.ImportID,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert reward summary: %w", err)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}
	return inserted, nil
}

// LoadTransactions returns every persisted transaction for aggregation.
func (s *Store) LoadTransactions() ([]models.Transaction, error) {
	rows, err := s.db.Query(`
		SELECT date, description, merchant, amount, currency,
			transactionType, rewardPoints, cardNumber, cardHolderName,
			sourceBank, statementDate, category, subCategory,
			parserUsed, importId
		FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var sourceBank string
		var rewardPoints sql.NullInt64
		if err := rows.Scan(
			&tx.Date, &tx.Description, &tx.Merchant, &tx.Amount, &tx.Currency,
			&tx.TransactionType, &rewardPoints, &tx.CardNumber, &tx.CardHolderName,
			&sourceBank, &tx.StatementDate, &tx.Category, &tx.SubCategory,
			&tx.ParserUsed, &tx.ImportID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if rewardPoints.Valid {
			tx.RewardPoints = models.Int(int(rewardPoints.Int64))
		}
		tx.SourceBank = models.Bank(sourceBank)
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
