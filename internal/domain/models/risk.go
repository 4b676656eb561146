package models

import (
	"fmt"
	"strings"
	"time"
)

// RiskLevel is the ordinal severity of the market regime.
// Values follow the published LEVEL numbering.
type RiskLevel int

const (
	LevelNormal     RiskLevel = 1
	LevelOverheated RiskLevel = 3
	LevelWarning    RiskLevel = 4
	LevelCritical   RiskLevel = 5
)

var levelNames = map[RiskLevel]string{
	LevelNormal:     "NORMAL",
	LevelOverheated: "OVERHEATED",
	LevelWarning:    "WARNING",
	LevelCritical:   "CRITICAL",
}

func (l RiskLevel) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return fmt.Sprintf("RiskLevel(%d)", int(l))
}

// Valid reports whether l is one of the defined levels.
func (l RiskLevel) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (l RiskLevel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid risk level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *RiskLevel) UnmarshalText(b []byte) error {
	v, err := ParseRiskLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ParseRiskLevel parses a level name, case-insensitively.
func ParseRiskLevel(s string) (RiskLevel, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown risk level %q", s)
}

// Report is the structured result of one evaluation run.
type Report struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	AsOf        time.Time         `json:"as_of"`
	Period      string            `json:"period"`
	Roles       InstrumentRoles   `json:"roles"`
	Thresholds  Thresholds        `json:"thresholds"`
	Windows     Windows           `json:"windows"`
	Snapshot    IndicatorSnapshot `json:"snapshot"`
	Flags       TriggerFlags      `json:"flags"`
	Level       RiskLevel         `json:"level"`
	Rule        string            `json:"rule"`
	Headline    string            `json:"headline"`
	Message     string            `json:"message"`
}
