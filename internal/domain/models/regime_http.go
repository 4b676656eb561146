package models

// RegimeRequest is the query of the regime endpoint. An empty period uses the configured one.
type RegimeRequest struct {
	Refresh bool   `query:"refresh" json:"refresh"`
	Period  string `query:"period" json:"period" validate:"omitempty,oneof=6mo 1y 2y 5y 10y"`
}
