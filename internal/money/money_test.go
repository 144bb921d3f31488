package money

import "testing"

func TestParseMinor(t *testing.T) {
	cases := []struct {
		input   string
		want    int64
		wantErr error
	}{
		{"200", 20000, nil},
		{"12.50", 1250, nil},
		{"0.05", 5, nil},
		{"-3.10", -310, nil},
		{" 40 ", 4000, nil},
		{"1.999", 0, ErrTooManyDecimals},
		{"", 0, ErrInvalidAmount},
		{"abc", 0, ErrInvalidAmount},
	}
	for _, tc := range cases {
		got, err := ParseMinor(tc.input)
		if err != tc.wantErr {
			t.Fatalf("ParseMinor(%q): expected error %v, got %v", tc.input, tc.wantErr, err)
		}
		if err == nil && got != tc.want {
			t.Fatalf("ParseMinor(%q): expected %d, got %d", tc.input, tc.want, got)
		}
	}
}

func TestFormatMinor(t *testing.T) {
	if got := FormatMinor(1250); got != "12.50" {
		t.Fatalf("expected 12.50, got %s", got)
	}
	if got := FormatMinor(-310); got != "-3.10" {
		t.Fatalf("expected -3.10, got %s", got)
	}
	if got := FormatMinor(5); got != "0.05" {
		t.Fatalf("expected 0.05, got %s", got)
	}
}

func TestCanonicalFoldsAliases(t *testing.T) {
	if got := Canonical("FC"); got != CDF {
		t.Fatalf("expected FC to fold into CDF, got %s", got)
	}
	if got := Canonical(" usd "); got != USD {
		t.Fatalf("expected USD, got %s", got)
	}
}

func TestValidateRejectsUnknownCurrency(t *testing.T) {
	if _, err := Validate("EUR"); err != ErrUnsupportedCurrency {
		t.Fatalf("expected ErrUnsupportedCurrency, got %v", err)
	}
	code, err := Validate("fc")
	if err != nil || code != CDF {
		t.Fatalf("expected CDF, got %s (%v)", code, err)
	}
}

func TestLabelsIncludeAliases(t *testing.T) {
	labels := Labels(CDF)
	if len(labels) != 2 || labels[0] != CDF {
		t.Fatalf("unexpected CDF labels: %#v", labels)
	}
	found := false
	for _, label := range labels {
		if label == "FC" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected FC among CDF labels: %#v", labels)
	}
	if labels := Labels(USD); len(labels) != 1 {
		t.Fatalf("unexpected USD labels: %#v", labels)
	}
}

func TestSigned(t *testing.T) {
	if got := Signed("Inflow", 500); got != 500 {
		t.Fatalf("expected 500, got %d", got)
	}
	if got := Signed("Outflow", 500); got != -500 {
		t.Fatalf("expected -500, got %d", got)
	}
}
