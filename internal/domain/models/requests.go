package models

// Requests for the correlation HTTP endpoints. Defined in domain for
// consistency and reuse.

type CorrelationRequest struct {
	Base  string `query:"base" json:"base" validate:"required"`
	Quote string `query:"quote" json:"quote" validate:"required,nefield=Base"`
	From  string `query:"from" json:"from,omitempty"`
	To    string `query:"to" json:"to,omitempty"`
	Limit int    `query:"limit" json:"limit" default:"5000" validate:"gte=1,lte=100000"`
}

type StreamRequest struct {
	Base  string `query:"base" json:"base" validate:"required"`
	Quote string `query:"quote" json:"quote" validate:"required,nefield=Base"`
}
