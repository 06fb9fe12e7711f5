package repository

import (
	"context"
	"time"

	"carebridge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MonthlyTotal is one month's completed-payment total for the earnings chart
type MonthlyTotal struct {
	Month time.Time `json:"month"`
	Total float64   `json:"total"`
}

// TransactionRepository handles database operations for transactions
type TransactionRepository struct {
	db *pgxpool.Pool
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (therapist_id, amount, transaction_type, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, t.TherapistID, t.Amount, t.Type, t.Status).
		Scan(&t.ID, &t.CreatedAt)

	return err
}

// ListByTherapist retrieves transactions for a therapist, newest first
func (r *TransactionRepository) ListByTherapist(ctx context.Context, therapistID uuid.UUID) ([]*models.Transaction, error) {
	query := `
		SELECT id, therapist_id, amount, transaction_type, status, created_at
		FROM transactions
		WHERE therapist_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, therapistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{}
		err := rows.Scan(&t.ID, &t.TherapistID, &t.Amount, &t.Type, &t.Status, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, rows.Err()
}

// MonthlyTotals returns completed-payment totals grouped by month for the
// trailing window, oldest month first.
func (r *TransactionRepository) MonthlyTotals(ctx context.Context, therapistID uuid.UUID, months int) ([]MonthlyTotal, error) {
	query := `
		SELECT date_trunc('month', created_at) AS month, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE therapist_id = $1
		  AND transaction_type = 'payment'
		  AND status = 'completed'
		  AND created_at >= date_trunc('month', NOW()) - ($2 || ' months')::interval
		GROUP BY month
		ORDER BY month ASC`

	rows, err := r.db.Query(ctx, query, therapistID, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthlyTotal
	for rows.Next() {
		var mt MonthlyTotal
		if err := rows.Scan(&mt.Month, &mt.Total); err != nil {
			return nil, err
		}
		out = append(out, mt)
	}

	return out, rows.Err()
}
