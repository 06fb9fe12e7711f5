package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"carebridge-backend/models"
	"carebridge-backend/repository"

	"github.com/google/uuid"
)

// TransactionStore is the subset of the transaction repository used by services
type TransactionStore interface {
	ListByTherapist(ctx context.Context, therapistID uuid.UUID) ([]*models.Transaction, error)
	MonthlyTotals(ctx context.Context, therapistID uuid.UUID, months int) ([]repository.MonthlyTotal, error)
}

// SessionCounter is the subset of the appointment repository used for earnings stats
type SessionCounter interface {
	CountCompletedByTherapist(ctx context.Context, therapistID uuid.UUID) (int, error)
	CountUniqueClients(ctx context.Context, therapistID uuid.UUID) (int, error)
}

// EarningsService aggregates a therapist's transactions into dashboard figures
type EarningsService struct {
	transactions TransactionStore
	sessions     SessionCounter
}

// EarningsServiceOption is a functional option for EarningsService
type EarningsServiceOption func(*EarningsService)

// EarningsWithTransactionStore sets the transaction store
func EarningsWithTransactionStore(s TransactionStore) EarningsServiceOption {
	return func(svc *EarningsService) {
		svc.transactions = s
	}
}

// EarningsWithSessionCounter sets the session counter
func EarningsWithSessionCounter(s SessionCounter) EarningsServiceOption {
	return func(svc *EarningsService) {
		svc.sessions = s
	}
}

// NewEarningsService creates a new earnings service
func NewEarningsService(opts ...EarningsServiceOption) *EarningsService {
	svc := &EarningsService{}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// EarningsSummary represents the earnings dashboard figures
type EarningsSummary struct {
	TotalEarnings     float64                    `json:"total_earnings"`
	PendingEarnings   float64                    `json:"pending_earnings"`
	CompletedSessions int                        `json:"completed_sessions"`
	ActiveClientPct   float64                    `json:"active_client_pct"`
	MonthlyChart      []repository.MonthlyTotal  `json:"monthly_chart"`
	Transactions      []*models.Transaction      `json:"transactions"`
}

// Summary builds a therapist's earnings summary in one aggregation pass. The
// session and client counts degrade to zero on failure; a failed transaction
// query aborts.
func (svc *EarningsService) Summary(ctx context.Context, therapistID uuid.UUID) (*EarningsSummary, error) {
	if svc.transactions == nil {
		return nil, errors.New("transaction store not set")
	}

	transactions, err := svc.transactions.ListByTherapist(ctx, therapistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	summary := &EarningsSummary{Transactions: transactions}
	summary.TotalEarnings, summary.PendingEarnings = SumEarnings(transactions)

	summary.MonthlyChart, err = svc.transactions.MonthlyTotals(ctx, therapistID, 6)
	if err != nil {
		log.Printf("earnings: monthly chart degraded: %v", err)
		summary.MonthlyChart = nil
	}

	if svc.sessions != nil {
		if summary.CompletedSessions, err = svc.sessions.CountCompletedByTherapist(ctx, therapistID); err != nil {
			log.Printf("earnings: session count degraded: %v", err)
			summary.CompletedSessions = 0
		}
		unique, err := svc.sessions.CountUniqueClients(ctx, therapistID)
		if err != nil {
			log.Printf("earnings: client count degraded: %v", err)
			unique = 0
		}
		summary.ActiveClientPct = ActiveClientPercentage(unique)
	}

	return summary, nil
}

// SumEarnings totals completed and pending payment amounts. Refunds, payouts
// and failed transactions are excluded from both figures.
func SumEarnings(transactions []*models.Transaction) (total, pending float64) {
	for _, t := range transactions {
		if t.Type != models.TransactionPayment {
			continue
		}
		switch t.Status {
		case models.TransactionCompleted:
			total += t.Amount
		case models.TransactionPending:
			pending += t.Amount
		}
	}
	return total, pending
}

// ActiveClientPercentage estimates what share of a therapist's capacity is
// filled. The +5 headroom is a placeholder heuristic carried over from the
// product dashboard, not a business rule.
func ActiveClientPercentage(uniqueClients int) float64 {
	if uniqueClients <= 0 {
		return 0
	}
	return float64(uniqueClients) / float64(uniqueClients+5) * 100
}
