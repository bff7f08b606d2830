package model

import "time"

// Plan is one pricing tier from GET /payment/plans. Limits use -1 for
// "unlimited" (the backend's convention, mirrored in the built-in fallback
// catalog in the api package).
type Plan struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Price                float64  `json:"price"`
	Currency             string   `json:"currency"`
	Description          string   `json:"description"`
	Features             []string `json:"features"`
	MaxProjects          int      `json:"maxProjects"`
	MaxCommitsPerProject int      `json:"maxCommitsPerProject"`
	MaxFileSizeMB        int      `json:"maxFileSizeMB"`
}

// InitializePaymentRequest is the body of POST /payment/initialize.
// Amount is a string because the payment gateway behind the backend wants
// one, and the backend forwards it untouched.
type InitializePaymentRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Amount    string `json:"amount"`
	Plan      string `json:"plan"`
	UserID    string `json:"userId"`
}

// CheckoutSession is what a successful /payment/initialize returns.
//
// WIRE QUIRK: unlike every other endpoint, these fields come back at the
// TOP LEVEL of the response next to `success`, not nested under `data`.
// The api package decodes this endpoint specially because of it.
type CheckoutSession struct {
	TxRef       string `json:"tx_ref"`
	CheckoutURL string `json:"checkout_url"`
	OrderID     int    `json:"orderId"`
}

// PaymentVerification is the data payload of GET /payment/verify?tx_ref=...
type PaymentVerification struct {
	Order   Order   `json:"order"`
	Payment Payment `json:"payment"`
}

type Order struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Amount float64 `json:"amount"`
	Plan   string  `json:"plan"`
}

type Payment struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Subscription is the data payload of GET /payment/subscription/status.
type Subscription struct {
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expiresAt"`
}
