package parser

import (
	"testing"

	"github.com/spendlens/card-spend-tracker/internal/models"
)

func TestDetectBank(t *testing.T) {
	tests := []struct {
		filePath string
		want     models.Bank
	}{
		{"statements/HDFC_Aug2025.pdf", models.BankHDFC},
		{"sbi_statement.pdf", models.BankSBI},
		{"/tmp/icici-july.pdf", models.BankICICI},
		{"AU_card_12.pdf", models.BankAU},
		{"mystery.pdf", models.BankUnknown},
		// Multiple tokens: the fixed priority order wins.
		{"HDFC_SBI_combined.pdf", models.BankHDFC},
		{"sbi_au_mix.pdf", models.BankSBI},
	}

	for _, tt := range tests {
		if got := DetectBank(tt.filePath); got != tt.want {
			t.Errorf("DetectBank(%q): got %q, want %q", tt.filePath, got, tt.want)
		}
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filePath string
		want     models.Bank
	}{
		{"HDFC_Aug2025.pdf", models.BankHDFC},
		{"SBI_Aug2025.pdf", models.BankSBI},
		{"ICICI_Aug2025.pdf", models.BankICICI},
		{"AU_Aug2025.pdf", models.BankAU},
		{"unknown_bank.pdf", models.BankUnknown},
	}

	for _, tt := range tests {
		p := ForFile(tt.filePath)
		if p.BankName() != tt.want {
			t.Errorf("ForFile(%q).BankName(): got %q, want %q", tt.filePath, p.BankName(), tt.want)
		}
	}
}

func TestForFileSBICarriesFileName(t *testing.T) {
	p := ForFile("/statements/SBI_Aug2025.pdf")
	sbi, ok := p.(*SBIParser)
	if !ok {
		t.Fatalf("ForFile: got %T, want *SBIParser", p)
	}
	if sbi.FileName != "SBI_Aug2025.pdf" {
		t.Errorf("FileName: got %q, want %q", sbi.FileName, "SBI_Aug2025.pdf")
	}
}
