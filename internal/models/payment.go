package models

// PaymentIntentRequest is the payload for POST /create-payment-intent. Price
// is expressed in the smallest currency unit.
type PaymentIntentRequest struct {
	Price FlexFloat `json:"price"`
}

// PaymentIntentResponse carries the client secret used by the checkout UI.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	IntentID     string `json:"intentId,omitempty"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Provider     string `json:"provider"`
}
