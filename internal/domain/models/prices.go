package models

import "time"

// Point is a single daily close for one instrument.
type Point struct {
	Time  time.Time
	Close float64
}

// Series is the raw close history of one instrument, ascending by time.
type Series struct {
	Symbol string
	Points []Point
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Points) }

// Row is one synchronized observation across every tracked instrument.
type Row struct {
	Time   time.Time
	Prices map[string]float64
}

// AlignedTable holds rows where every instrument has a valid close.
// Rows are strictly ascending by Time.
type AlignedTable struct {
	Instruments []string
	Rows        []Row
}

// Len returns the number of aligned rows.
func (t *AlignedTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column extracts the close series of one instrument in table order.
func (t *AlignedTable) Column(symbol string) ([]float64, bool) {
	if !t.Has(symbol) {
		return nil, false
	}
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Prices[symbol]
	}
	return out, true
}

// Has reports whether symbol is one of the table's instruments.
func (t *AlignedTable) Has(symbol string) bool {
	if t == nil {
		return false
	}
	for _, s := range t.Instruments {
		if s == symbol {
			return true
		}
	}
	return false
}

// LatestTime returns the timestamp of the last row, or the zero time.
func (t *AlignedTable) LatestTime() time.Time {
	if t.Len() == 0 {
		return time.Time{}
	}
	return t.Rows[len(t.Rows)-1].Time
}
