// Package classifier resolves trigger flags into a single risk level.
package classifier

import "MarketRegime/internal/domain/models"

// Rule maps a predicate over the flags to a level and its explanation.
type Rule struct {
	Name     string
	Match    func(models.TriggerFlags) bool
	Level    models.RiskLevel
	Headline string
	Message  string
}

// Result is the outcome of classification.
type Result struct {
	Rule     string
	Level    models.RiskLevel
	Headline string
	Message  string
}

// DefaultRules is the priority table, most severe first.
var DefaultRules = []Rule{
	{
		Name:     "credit_or_funding",
		Match:    func(f models.TriggerFlags) bool { return f.TriggerA || f.TriggerB },
		Level:    models.LevelCritical,
		Headline: "System unwinding",
		Message:  "Credit contraction (A) or liquidity drain (B) in progress. Immediate exit recommended.",
	},
	{
		Name:     "bad_rate_spike",
		Match:    func(f models.TriggerFlags) bool { return f.TriggerC },
		Level:    models.LevelWarning,
		Headline: "Valuation adjustment",
		Message:  "Adverse rate rise (C) in progress. Reduce positions.",
	},
	{
		Name:     "distortion",
		Match:    func(f models.TriggerFlags) bool { return f.DistortionCondition },
		Level:    models.LevelOverheated,
		Headline: "Bubble intact",
		Message:  "Distortion is large but no trigger has fired. Hold and prepare.",
	},
	{
		Name:     "normal",
		Match:    func(models.TriggerFlags) bool { return true },
		Level:    models.LevelNormal,
		Headline: "Trend following",
		Message:  "The system is operating normally.",
	},
}

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	rules []Rule
}

// NewClassifier uses rules when given, DefaultRules otherwise. A table without a
// catch-all gets the default NORMAL rule appended.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	out := make([]Rule, 0, len(rules)+1)
	for _, r := range rules {
		if r.Match != nil {
			out = append(out, r)
		}
	}
	last := DefaultRules[len(DefaultRules)-1]
	if len(out) == 0 || out[len(out)-1].Name != last.Name {
		out = append(out, last)
	}
	return &Classifier{rules: out}
}

// Rules returns a copy of the active table.
func (c *Classifier) Rules() []Rule { return append([]Rule(nil), c.rules...) }

// Classify returns the first matching rule's level and message.
func (c *Classifier) Classify(f models.TriggerFlags) Result {
	for _, r := range c.rules {
		if r.Match(f) {
			return Result{Rule: r.Name, Level: r.Level, Headline: r.Headline, Message: r.Message}
		}
	}
	// unreachable: the table always ends with a catch-all
	last := c.rules[len(c.rules)-1]
	return Result{Rule: last.Name, Level: last.Level, Headline: last.Headline, Message: last.Message}
}

// Classify applies DefaultRules.
func Classify(f models.TriggerFlags) (models.RiskLevel, string) {
	r := defaultClassifier.Classify(f)
	return r.Level, r.Message
}

var defaultClassifier = NewClassifier()
