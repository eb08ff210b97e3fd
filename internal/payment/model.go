package payment

// Intent is the subset of a Stripe PaymentIntent the storefront uses.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// ItemRequest is one cart line as sent by the checkout page. Only the id
// and quantity are trusted; the price is looked up.
type ItemRequest struct {
	ID       string `json:"_id"`
	Quantity int    `json:"quantity"`
}

const Currency = "usd"
