package enums

import "testing"

func TestExchangeStatusTerminal(t *testing.T) {
	cases := []struct {
		status   ExchangeStatus
		terminal bool
	}{
		{ExchangeStatusPending, false},
		{ExchangeStatusAccepted, false},
		{ExchangeStatusCompleted, true},
		{ExchangeStatusRejected, true},
	}
	for _, tc := range cases {
		if got := tc.status.IsTerminal(); got != tc.terminal {
			t.Fatalf("IsTerminal(%s) = %v, want %v", tc.status, got, tc.terminal)
		}
	}
}

func TestParseExchangeStatus(t *testing.T) {
	if _, err := ParseExchangeStatus("completed"); err != nil {
		t.Fatalf("expected completed to parse: %v", err)
	}
	if _, err := ParseExchangeStatus("done"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestParseProductStatus(t *testing.T) {
	status, err := ParseProductStatus("active")
	if err != nil {
		t.Fatalf("parse active: %v", err)
	}
	if !status.IsValid() {
		t.Fatal("expected active to be valid")
	}
	if _, err := ParseProductStatus("archived"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestParseProductCategoryAndCondition(t *testing.T) {
	if _, err := ParseProductCategory("books"); err != nil {
		t.Fatalf("parse books: %v", err)
	}
	if _, err := ParseProductCategory("weapons"); err == nil {
		t.Fatal("expected unknown category to fail")
	}
	if _, err := ParseProductCondition("like_new"); err != nil {
		t.Fatalf("parse like_new: %v", err)
	}
	if _, err := ParseProductCondition("broken"); err == nil {
		t.Fatal("expected unknown condition to fail")
	}
}
