package domain

// CartLine is one entry in the cart. PriceCents is the product price at the
// moment the line was created.
type CartLine struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

// SubtotalCents returns price * quantity for the line.
func (l CartLine) SubtotalCents() int64 {
	return l.PriceCents * int64(l.Quantity)
}
