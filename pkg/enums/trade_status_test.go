package enums

import "testing"

func TestParseTradeStatus(t *testing.T) {
	status, err := ParseTradeStatus("accepted")
	if err != nil {
		t.Fatalf("ParseTradeStatus: %v", err)
	}
	if status != TradeStatusAccepted {
		t.Fatalf("unexpected status: %s", status)
	}

	if _, err := ParseTradeStatus("unknown"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestTradeStatusIsTerminal(t *testing.T) {
	terminal := []TradeStatus{TradeStatusCompleted, TradeStatusDeclined, TradeStatusCancelled}
	for _, status := range terminal {
		if !status.IsTerminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	open := []TradeStatus{TradeStatusPending, TradeStatusAccepted}
	for _, status := range open {
		if status.IsTerminal() {
			t.Fatalf("expected %s to be open", status)
		}
	}
}

func TestMatchKindIsValid(t *testing.T) {
	for _, kind := range validMatchKinds {
		if !kind.IsValid() {
			t.Fatalf("expected %s to be valid", kind)
		}
	}
	if MatchKind("stellar").IsValid() {
		t.Fatal("expected unknown kind to be invalid")
	}
}
