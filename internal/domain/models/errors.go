package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means the provider failed or returned nothing usable.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrEmptyAlignedTable means alignment removed every row.
	ErrEmptyAlignedTable = errors.New("aligned table is empty")
	// ErrInsufficientHistory means a rolling window is longer than the available history.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrUnknownInstrument means a role names an instrument that is not in the table.
	ErrUnknownInstrument = errors.New("unknown instrument")
)

// DataUnavailableError carries the instrument whose fetch failed.
type DataUnavailableError struct {
	Instrument string
	Err        error
}

func (e *DataUnavailableError) Error() string {
	if e.Instrument == "" {
		return fmt.Sprintf("data unavailable: %v", e.Err)
	}
	return fmt.Sprintf("data unavailable for %s: %v", e.Instrument, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrDataUnavailable.
func (e *DataUnavailableError) Is(target error) bool { return target == ErrDataUnavailable }

// InsufficientHistoryError names the indicator whose window could not be filled.
type InsufficientHistoryError struct {
	Indicator string
	Required  int
	Available int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history for %s: required %d observations, available %d",
		e.Indicator, e.Required, e.Available)
}

// Is lets errors.Is match ErrInsufficientHistory.
func (e *InsufficientHistoryError) Is(target error) bool { return target == ErrInsufficientHistory }
