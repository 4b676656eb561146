package alignment

import (
	"errors"
	"math"
	"testing"
	"time"

	"MarketRegime/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func series(sym string, pts map[int]float64) models.Series {
	s := models.Series{Symbol: sym}
	for d := 1; d <= 31; d++ {
		if v, ok := pts[d]; ok {
			s.Points = append(s.Points, models.Point{Time: day(d), Close: v})
		}
	}
	return s
}

func TestAlign_DropsPartialRows(t *testing.T) {
	in := map[string]models.Series{
		"A": series("A", map[int]float64{2: 10, 3: 11, 4: 12, 5: 13}),
		"B": series("B", map[int]float64{2: 20, 4: 22, 5: 23, 6: 24}),
	}

	table, st, err := Align([]string{"A", "B"}, in)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day(2), day(4), day(5)}, rowTimes(table))
	assert.Equal(t, 22.0, table.Rows[1].Prices["B"])
	assert.Equal(t, 12.0, table.Rows[1].Prices["A"])
	assert.Equal(t, 5, st.UnionDays)
	assert.Equal(t, 2, st.Dropped())
}

func TestAlign_NoForwardFill(t *testing.T) {
	in := map[string]models.Series{
		"A": series("A", map[int]float64{2: 10, 3: 11}),
		"B": series("B", map[int]float64{2: 20}),
	}
	table, _, err := Align([]string{"A", "B"}, in)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestAlign_InvalidPricesCountAsMissing(t *testing.T) {
	in := map[string]models.Series{
		"A": series("A", map[int]float64{2: 10, 3: math.NaN(), 4: 0}),
		"B": series("B", map[int]float64{2: 20, 3: 21, 4: 22}),
	}
	table, _, err := Align([]string{"A", "B"}, in)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(2)}, rowTimes(table))
}

func TestAlign_StrictlyAscending(t *testing.T) {
	s := models.Series{Symbol: "A", Points: []models.Point{
		{Time: day(5), Close: 5}, {Time: day(1), Close: 1}, {Time: day(3), Close: 3},
		{Time: day(3).Add(15 * time.Hour), Close: 3.5},
	}}
	table, _, err := Align([]string{"A"}, map[string]models.Series{"A": s})
	require.NoError(t, err)

	times := rowTimes(table)
	for i := 1; i < len(times); i++ {
		assert.True(t, times[i].After(times[i-1]))
	}
	// same calendar day keeps the last value seen
	assert.Equal(t, 3.5, table.Rows[1].Prices["A"])
}

func TestAlign_EmptyResult(t *testing.T) {
	in := map[string]models.Series{
		"A": series("A", map[int]float64{2: 10}),
		"B": series("B", map[int]float64{3: 20}),
	}
	_, _, err := Align([]string{"A", "B"}, in)
	assert.True(t, errors.Is(err, models.ErrEmptyAlignedTable))
}

func TestAlign_MissingInstrument(t *testing.T) {
	in := map[string]models.Series{"A": series("A", map[int]float64{2: 10})}
	_, _, err := Align([]string{"A", "B"}, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))

	var du *models.DataUnavailableError
	require.True(t, errors.As(err, &du))
	assert.Equal(t, "B", du.Instrument)
}

func rowTimes(t *models.AlignedTable) []time.Time {
	out := make([]time.Time, 0, t.Len())
	for _, r := range t.Rows {
		out = append(out, r.Time)
	}
	return out
}
