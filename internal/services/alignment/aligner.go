// Package alignment joins per-instrument close series into one synchronized table.
package alignment

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"MarketRegime/internal/domain/models"
	"MarketRegime/pkg/util"
)

// Stats describes what alignment kept and discarded.
type Stats struct {
	UnionDays   int
	AlignedDays int
}

// Dropped is the number of calendar days missing at least one instrument.
func (s Stats) Dropped() int { return s.UnionDays - s.AlignedDays }

// Align inner-joins series on calendar day. Days where any instrument has no
// valid close are dropped; nothing is forward-filled.
func Align(instruments []string, series map[string]models.Series) (*models.AlignedTable, Stats, error) {
	var st Stats
	if len(instruments) == 0 {
		return nil, st, fmt.Errorf("%w: no instruments requested", models.ErrDataUnavailable)
	}

	byDay := make(map[string]map[time.Time]float64, len(instruments))
	union := make(map[time.Time]struct{})
	for _, sym := range instruments {
		s, ok := series[sym]
		if !ok || s.Len() == 0 {
			return nil, st, &models.DataUnavailableError{Instrument: sym, Err: errors.New("no observations")}
		}
		days := make(map[time.Time]float64, s.Len())
		for _, p := range s.Points {
			if !validPrice(p.Close) {
				continue
			}
			d := util.TruncateDay(p.Time, time.UTC)
			days[d] = p.Close
			union[d] = struct{}{}
		}
		byDay[sym] = days
	}
	st.UnionDays = len(union)

	keep := make([]time.Time, 0, len(union))
	for d := range union {
		if presentInAll(d, instruments, byDay) {
			keep = append(keep, d)
		}
	}
	sort.Slice(keep, func(i, j int) bool { return keep[i].Before(keep[j]) })
	st.AlignedDays = len(keep)

	if len(keep) == 0 {
		return nil, st, fmt.Errorf("%w: %d instruments share no common day out of %d",
			models.ErrEmptyAlignedTable, len(instruments), st.UnionDays)
	}

	table := &models.AlignedTable{
		Instruments: append([]string(nil), instruments...),
		Rows:        make([]models.Row, 0, len(keep)),
	}
	for _, d := range keep {
		prices := make(map[string]float64, len(instruments))
		for _, sym := range instruments {
			prices[sym] = byDay[sym][d]
		}
		table.Rows = append(table.Rows, models.Row{Time: d, Prices: prices})
	}
	return table, st, nil
}

func presentInAll(d time.Time, instruments []string, byDay map[string]map[time.Time]float64) bool {
	for _, sym := range instruments {
		if _, ok := byDay[sym][d]; !ok {
			return false
		}
	}
	return true
}

func validPrice(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
