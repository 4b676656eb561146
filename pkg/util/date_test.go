package util

import (
    "testing"
    "time"
)

func TestTruncateDayUsesExchangeZone(t *testing.T) {
    ny := time.FixedZone("EST", -5*3600)
    // 21:00 UTC is 16:00 in New York, same calendar day.
    closeAt := time.Date(2024, 3, 1, 21, 0, 0, 0, time.UTC)
    got := TruncateDay(closeAt, ny)
    want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("got %v want %v", got, want)
    }

    // 03:00 UTC is the previous evening in New York.
    late := time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC)
    if got := TruncateDay(late, ny); !got.Equal(want) {
        t.Fatalf("got %v want %v", got, want)
    }
}

func TestFormatDayZero(t *testing.T) {
    if FormatDay(time.Time{}) != "-" {
        t.Fatalf("expected dash for zero time")
    }
}

func TestSplitList(t *testing.T) {
    got := SplitList(" XLG, RSP,,^GSPC ")
    if len(got) != 3 || got[0] != "XLG" || got[2] != "^GSPC" {
        t.Fatalf("unexpected list %v", got)
    }
}
