package domain

// Airline and Airport are reference data: created by operators, referenced
// by flights, never part of the booking transaction.

type Airline struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ContactEmail  string `json:"contact_email"`
	ContactNumber string `json:"contact_number"`
}

type Airport struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Country  string `json:"country"`
	IATACode string `json:"iata_code"`
}
