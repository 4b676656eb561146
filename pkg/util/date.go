package util

import "time"

// DayLayout is the calendar day format used in reports.
const DayLayout = "2006-01-02"

// TruncateDay maps t to midnight UTC of the calendar day t falls on in loc.
// Daily closes stamped in different exchange zones land on the same key.
func TruncateDay(t time.Time, loc *time.Location) time.Time {
    if loc != nil {
        t = t.In(loc)
    }
    y, m, d := t.Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders t as YYYY-MM-DD, or "-" for the zero time.
func FormatDay(t time.Time) string {
    if t.IsZero() {
        return "-"
    }
    return t.Format(DayLayout)
}
