package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	PaymentModeCreditCard PaymentMode = "CreditCard"
	PaymentModeDebitCard  PaymentMode = "DebitCard"
	PaymentModeUPI        PaymentMode = "UPI"
	PaymentModeWallet     PaymentMode = "Wallet"
)

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "Success"
	PaymentStatusFailed  PaymentStatus = "Failed"
	PaymentStatusPending PaymentStatus = "Pending"
)

// Payment records money taken against a booking. Payments are recorded only,
// never reconciled against the booking fare.
type Payment struct {
	ID            int64           `json:"id"`
	BookingID     int64           `json:"booking_id"`
	TransactionID string          `json:"transaction_id"`
	PaymentDate   time.Time       `json:"payment_date"`
	Amount        decimal.Decimal `json:"amount"`
	Mode          PaymentMode     `json:"mode"`
	Status        PaymentStatus   `json:"status"`
}
