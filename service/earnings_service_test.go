package service

import (
	"math"
	"testing"

	"carebridge-backend/models"
)

func payment(amount float64, status models.TransactionStatus) *models.Transaction {
	return &models.Transaction{Amount: amount, Type: models.TransactionPayment, Status: status}
}

func TestSumEarnings(t *testing.T) {
	transactions := []*models.Transaction{
		payment(100, models.TransactionCompleted),
		payment(50, models.TransactionCompleted),
		payment(75, models.TransactionPending),
		payment(20, models.TransactionFailed),
		{Amount: 30, Type: models.TransactionRefund, Status: models.TransactionCompleted},
		{Amount: 200, Type: models.TransactionPayout, Status: models.TransactionCompleted},
	}

	total, pending := SumEarnings(transactions)
	if total != 150 {
		t.Errorf("expected total 150, got %v", total)
	}
	if pending != 75 {
		t.Errorf("expected pending 75, got %v", pending)
	}
}

func TestSumEarningsEmpty(t *testing.T) {
	total, pending := SumEarnings(nil)
	if total != 0 || pending != 0 {
		t.Errorf("expected zeros for no transactions, got %v / %v", total, pending)
	}
}

func TestActiveClientPercentage(t *testing.T) {
	tests := []struct {
		clients int
		want    float64
	}{
		{0, 0},
		{-1, 0},
		{5, 50},
		{15, 75},
	}

	for _, tt := range tests {
		got := ActiveClientPercentage(tt.clients)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ActiveClientPercentage(%d) = %v, want %v", tt.clients, got, tt.want)
		}
	}
}
