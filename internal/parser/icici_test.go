package parser

import (
	"testing"

	"github.com/spendlens/card-spend-tracker/internal/models"
)

func TestICICIParser_Parse(t *testing.T) {
	p := &ICICIParser{}

	lines := []string{
		"6528XXXXXXXX1005",
		"10/08/2025 11770955856 Myntra 111 5,552.36 CR",
		"04/08/2025 11725387534 BBPS Payment received 0 10.00",
		"some footer text",
	}

	transactions, rewardSummaries, err := p.Parse(lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rewardSummaries) != 0 {
		t.Errorf("rewardSummaries: got %d, want 0", len(rewardSummaries))
	}
	if len(transactions) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(transactions))
	}

	txn := transactions[0]
	if txn.Date != "10/08/2025" {
		t.Errorf("txn[0].Date: got %q, want %q", txn.Date, "10/08/2025")
	}
	if txn.Description != "Myntra" {
		t.Errorf("txn[0].Description: got %q, want %q", txn.Description, "Myntra")
	}
	if txn.Amount != 5552.36 {
		t.Errorf("txn[0].Amount: got %f, want %f", txn.Amount, 5552.36)
	}
	if txn.TransactionType != models.TypeCredit {
		t.Errorf("txn[0].TransactionType: got %q, want %q", txn.TransactionType, models.TypeCredit)
	}
	if txn.CardNumber != "6528XXXXXXXX1005" {
		t.Errorf("txn[0].CardNumber: got %q, want %q", txn.CardNumber, "6528XXXXXXXX1005")
	}

	// No trailing CR means debit.
	txn = transactions[1]
	if txn.TransactionType != models.TypeDebit {
		t.Errorf("txn[1].TransactionType: got %q, want %q", txn.TransactionType, models.TypeDebit)
	}
	if txn.Description != "BBPS Payment received" {
		t.Errorf("txn[1].Description: got %q, want %q", txn.Description, "BBPS Payment received")
	}
	if txn.Amount != 10.00 {
		t.Errorf("txn[1].Amount: got %f, want %f", txn.Amount, 10.00)
	}
}

func TestICICIParser_RequiresCardContext(t *testing.T) {
	p := &ICICIParser{}

	// A transaction row with no preceding masked card line is dropped.
	lines := []string{
		"10/08/2025 11770955856 Myntra 111 5,552.36 CR",
	}

	transactions, _, err := p.Parse(lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transactions) != 0 {
		t.Errorf("transactions: got %d, want 0", len(transactions))
	}
}
