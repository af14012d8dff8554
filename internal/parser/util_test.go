package parser

import (
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"1,234.56", 1234.56, false},
		{"₹4,000.00", 4000.00, false},
		{"Rs.250.00", 250.00, false},
		{"326.00 D", 326.00, false},
		{"  99.99  ", 99.99, false},
		{"-15.50", -15.50, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q): expected error, got %f", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q): got %f, want %f", tt.input, got, tt.want)
		}
	}
}

func TestParseIntSafe(t *testing.T) {
	tests := []struct {
		input string
		want  *int
	}{
		{"1234", intPtr(1234)},
		{"1,234", intPtr(1234)},
		{" 42 ", intPtr(42)},
		{"0", intPtr(0)},
		{"", nil},
		{"NONE", nil},
		{"12.5", nil},
		{"abc", nil},
	}

	for _, tt := range tests {
		got := ParseIntSafe(tt.input)
		if (got == nil) != (tt.want == nil) {
			t.Errorf("ParseIntSafe(%q): got %v, want %v", tt.input, got, tt.want)
			continue
		}
		if got != nil && *got != *tt.want {
			t.Errorf("ParseIntSafe(%q): got %d, want %d", tt.input, *got, *tt.want)
		}
	}
}

func TestFirstInt(t *testing.T) {
	tests := []struct {
		input string
		want  *int
	}{
		{"Opening balance 1,250", intPtr(1250)},
		{"Earned + 300 points", intPtr(300)},
		{"no numbers here", nil},
	}

	for _, tt := range tests {
		got := firstInt(tt.input)
		if (got == nil) != (tt.want == nil) {
			t.Errorf("firstInt(%q): got %v, want %v", tt.input, got, tt.want)
			continue
		}
		if got != nil && *got != *tt.want {
			t.Errorf("firstInt(%q): got %d, want %d", tt.input, *got, *tt.want)
		}
	}
}

func TestNormalizeLine(t *testing.T) {
	got := normalizeLine("  UPI\u200B-Swiggy\u00A0Instamart  ")
	want := "UPI-Swiggy Instamart"
	if got != want {
		t.Errorf("normalizeLine: got %q, want %q", got, want)
	}
}

func TestIsAllCapsAndTitleCase(t *testing.T) {
	if !isAllCaps("RAHUL SHARMA") {
		t.Error("isAllCaps(RAHUL SHARMA): got false, want true")
	}
	if isAllCaps("Rahul Sharma") {
		t.Error("isAllCaps(Rahul Sharma): got true, want false")
	}
	if isAllCaps("1234") {
		t.Error("isAllCaps(1234): got true, want false")
	}
	if !isTitleCase("Priya Sharma") {
		t.Error("isTitleCase(Priya Sharma): got false, want true")
	}
	if isTitleCase("priya sharma") {
		t.Error("isTitleCase(priya sharma): got true, want false")
	}
}

func intPtr(v int) *int {
	return &v
}
