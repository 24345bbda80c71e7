package pgrepo

import (
	"context"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/pkg/uow"
)

type WishlistRepository struct {
	db uow.DBTX
}

func NewWishlistRepository(db uow.DBTX) *WishlistRepository {
	return &WishlistRepository{db: db}
}

func (r *WishlistRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	query := `SELECT id, user_id, product_id FROM wishlist_items WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, convertErr(err, "listing wishlist of user %d", userID)
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		var item domain.WishlistItem
		if scanErr := rows.Scan(&item.ID, &item.UserID, &item.ProductID); scanErr != nil {
			return nil, convertErr(scanErr, "listing wishlist of user %d", userID)
		}
		items = append(items, item)
	}
	return items, convertErr(rows.Err(), "listing wishlist of user %d", userID)
}

func (r *WishlistRepository) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM wishlist_items WHERE user_id = $1 AND product_id = $2)`
	if err := r.db.QueryRow(ctx, query, userID, productID).Scan(&exists); err != nil {
		return false, convertErr(err, "checking wishlist of user %d", userID)
	}
	return exists, nil
}

func (r *WishlistRepository) Add(ctx context.Context, userID, productID int64) error {
	query := `
		INSERT INTO wishlist_items (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`
	if _, err := r.db.Exec(ctx, query, userID, productID); err != nil {
		return convertErr(err, "adding wishlist item for user %d", userID)
	}
	return nil
}

func (r *WishlistRepository) Delete(ctx context.Context, userID, productID int64) error {
	query := `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`
	if _, err := r.db.Exec(ctx, query, userID, productID); err != nil {
		return convertErr(err, "deleting wishlist item for user %d", userID)
	}
	return nil
}
