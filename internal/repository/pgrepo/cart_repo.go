package pgrepo

import (
	"context"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/pkg/uow"
)

type CartRepository struct {
	db uow.DBTX
}

func NewCartRepository(db uow.DBTX) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	query := `SELECT id, user_id, product_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, convertErr(err, "listing cart of user %d", userID)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if scanErr := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity); scanErr != nil {
			return nil, convertErr(scanErr, "listing cart of user %d", userID)
		}
		items = append(items, item)
	}
	return items, convertErr(rows.Err(), "listing cart of user %d", userID)
}

// Upsert добавляет позицию либо увеличивает количество уже существующей.
func (r *CartRepository) Upsert(ctx context.Context, userID, productID int64, quantity int32) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

	if _, err := r.db.Exec(ctx, query, userID, productID, quantity); err != nil {
		return convertErr(err, "upserting cart item for user %d", userID)
	}
	return nil
}

func (r *CartRepository) SetQuantity(ctx context.Context, userID, productID int64, quantity int32) error {
	query := `UPDATE cart_items SET quantity = $3 WHERE user_id = $1 AND product_id = $2`
	tag, err := r.db.Exec(ctx, query, userID, productID, quantity)
	if err != nil {
		return convertErr(err, "setting cart quantity for user %d", userID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "setting cart quantity for user %d", userID)
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, userID, productID int64) error {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`
	if _, err := r.db.Exec(ctx, query, userID, productID); err != nil {
		return convertErr(err, "deleting cart item for user %d", userID)
	}
	return nil
}
