package timex

import (
	"testing"
	"time"
)

func TestIsDefinite(t *testing.T) {
	t.Parallel()
	cases := []struct {
		tx   Timex
		want bool
	}{
		{"2023-02-02", true},
		{"2023-02-02T09", true},
		{"XXXX-02-02", false},
		{"2023-02", false},
		{"2023-W06", false},
		{"2023", false},
		{"(2023-02-02,2023-02-15,P13D)", false},
		{"", false},
	}
	for _, c := range cases {
		if got := c.tx.IsDefinite(); got != c.want {
			t.Errorf("IsDefinite(%q) = %v, want %v", c.tx, got, c.want)
		}
	}
}

func TestSplitRange(t *testing.T) {
	t.Parallel()
	start, end, ok := Timex("(2023-02-02,2023-02-15,P13D)").SplitRange()
	if !ok {
		t.Fatal("expected range split to succeed")
	}
	if start != "2023-02-02" || end != "2023-02-15" {
		t.Errorf("got (%q, %q), want (2023-02-02, 2023-02-15)", start, end)
	}

	if _, _, ok := Timex("2023-02-02").SplitRange(); ok {
		t.Error("plain date should not split as a range")
	}
}

func TestDateRoundTrip(t *testing.T) {
	t.Parallel()
	day := time.Date(2023, time.February, 2, 0, 0, 0, 0, time.UTC)
	tx := FromDate(day)
	if !tx.IsDefinite() {
		t.Fatalf("FromDate produced non-definite timex %q", tx)
	}
	got, err := tx.Date()
	if err != nil {
		t.Fatalf("Date() failed: %v", err)
	}
	if !got.Equal(day) {
		t.Errorf("round trip got %v, want %v", got, day)
	}
}

func TestDateRejectsPartial(t *testing.T) {
	t.Parallel()
	if _, err := Timex("XXXX-02-02").Date(); err == nil {
		t.Error("expected error for placeholder date")
	}
}
