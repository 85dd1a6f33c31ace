package models

import "encoding/json"

// CheckoutField is one entry of the saved checkout form configuration.
// Order is zero-based and dense; it always matches the entry's position
// in the saved sequence.
type CheckoutField struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
	Order       int    `json:"order"`
}

// RawCheckoutField is a client-submitted entry before validation. Required
// arrives in whatever encoding the client used ("1"/"0", true, 1), so it is
// kept loose until the service coerces it.
type RawCheckoutField struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	Placeholder string          `json:"placeholder"`
	Required    json.RawMessage `json:"required"`
}
