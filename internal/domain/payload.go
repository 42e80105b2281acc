package domain

// Wire shapes exchanged with the remote cart service.

type AddPayload struct {
	Item         ItemRef       `json:"item"`
	Quantity     int           `json:"quantity"`
	Purchase     bool          `json:"purchase"`
	RentalPeriod *RentalPeriod `json:"rentalPeriod,omitempty"`
}

type RemovePayload struct {
	ItemID   ItemRef `json:"itemId"`
	Purchase bool    `json:"purchase"`
}

type UpdatePayload struct {
	ItemID   ItemRef `json:"itemId"`
	Quantity int     `json:"quantity"`
	Purchase bool    `json:"purchase"`
}
