package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the type of a transaction
type TransactionType string

const (
	TransactionPayment TransactionType = "payment"
	TransactionRefund  TransactionType = "refund"
	TransactionPayout  TransactionType = "payout"
)

// TransactionStatus represents the status of a transaction
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction represents a payment transaction for a therapist
type Transaction struct {
	ID          uuid.UUID         `json:"id"`
	TherapistID uuid.UUID         `json:"therapist_id"`
	Amount      float64           `json:"amount"`
	Type        TransactionType   `json:"transaction_type"`
	Status      TransactionStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}
