package eventtime

import (
	"testing"
	"time"
)

func TestExtract(t *testing.T) {
	et := time.FixedZone("ET", -5*3600)
	edt := time.FixedZone("EDT", -4*3600)

	tests := []struct {
		name  string
		title string
		want  time.Time
	}{
		{
			"month day year with ET",
			"Boxing: Fury vs Smith Jan 5, 2025 10:00 PM ET",
			time.Date(2025, 1, 5, 22, 0, 0, 0, et),
		},
		{
			"slash date with EST",
			"NFL: Bears @ Lions 1/5/2025 1:00 PM EST",
			time.Date(2025, 1, 5, 13, 0, 0, 0, et),
		},
		{
			"utc with seconds",
			"Darts Final Jan 2, 2025 19:30:00 UTC",
			time.Date(2025, 1, 2, 19, 30, 0, 0, time.UTC),
		},
		{
			"edt offset",
			"MLB: Yankees vs Red Sox Jul 4, 2025 7:05 PM EDT",
			time.Date(2025, 7, 4, 19, 5, 0, 0, edt),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.title)
			if err != nil {
				t.Fatalf("Extract(%q): %v", tt.title, err)
			}
			if got.Unix() != tt.want.Unix() {
				t.Errorf("Extract(%q) = %v (unix %d), want %v (unix %d)",
					tt.title, got, got.Unix(), tt.want, tt.want.Unix())
			}
		})
	}
}

func TestExtract_NoDate(t *testing.T) {
	if _, err := Extract("ESPN HD"); err == nil {
		t.Error("Extract on a plain channel name should fail")
	}
	if _, err := Extract("Morning Show 10:00 AM"); err == nil {
		t.Error("Extract without a date token should fail")
	}
}

func TestExtract_EarliestDateWins(t *testing.T) {
	got, err := Extract("Rematch of 1/1/2025 bout Jan 9, 2025 10:00 PM ET")
	if err != nil {
		t.Fatal(err)
	}
	if got.Month() != time.January || got.Day() != 1 {
		t.Errorf("expected earliest-positioned date to win, got %v", got)
	}
}
