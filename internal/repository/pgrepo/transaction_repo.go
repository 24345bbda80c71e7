package pgrepo

import (
	"context"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/pkg/uow"
)

// TransactionRepository - append-only журнал движения средств. Записи никогда
// не обновляются и не удаляются.
type TransactionRepository struct {
	db uow.DBTX
}

func NewTransactionRepository(db uow.DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, created_at, user_id, type, amount, currency, description`

func (r *TransactionRepository) Create(ctx context.Context, args repoargs.CreateTransaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, type, amount, currency, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + transactionColumns

	transaction, err := r.scanTransaction(r.db.QueryRow(ctx, query,
		args.UserID,
		args.Type,
		args.Amount,
		args.Currency,
		args.Description,
	))
	if err != nil {
		return nil, convertErr(err, "creating %s transaction for user %d", args.Type, args.UserID)
	}
	return transaction, nil
}

func (r *TransactionRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, convertErr(err, "listing transactions of user %d", userID)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		transaction, scanErr := r.scanTransaction(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing transactions of user %d", userID)
		}
		transactions = append(transactions, *transaction)
	}
	return transactions, convertErr(rows.Err(), "listing transactions of user %d", userID)
}

func (r *TransactionRepository) scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var transaction domain.Transaction
	err := row.Scan(
		&transaction.ID,
		&transaction.CreatedAt,
		&transaction.UserID,
		&transaction.Type,
		&transaction.Amount,
		&transaction.Currency,
		&transaction.Description,
	)
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}
