package pgrepo

import (
	"context"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/pkg/uow"
)

type OrderRepository struct {
	db uow.DBTX
}

func NewOrderRepository(db uow.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, created_at, user_id, product_title, product_image, product_category, amount_usd, status`

func (r *OrderRepository) Create(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
	query := `
		INSERT INTO orders (user_id, product_title, product_image, product_category, amount_usd, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + orderColumns

	order, err := r.scanOrder(r.db.QueryRow(ctx, query,
		args.UserID,
		args.ProductTitle,
		args.ProductImage,
		args.ProductCategory,
		args.AmountUSD,
		args.Status,
	))
	if err != nil {
		return nil, convertErr(err, "creating order for user %d", args.UserID)
	}
	return order, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := r.scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, convertErr(err, "finding order by id %d", id)
	}
	return order, nil
}

func (r *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, convertErr(err, "listing orders of user %d", userID)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, scanErr := r.scanOrder(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing orders of user %d", userID)
		}
		orders = append(orders, *order)
	}
	return orders, convertErr(rows.Err(), "listing orders of user %d", userID)
}

// GetAllWithBuyers возвращает все заказы вместе с email покупателя,
// по убыванию id (админская выдача).
func (r *OrderRepository) GetAllWithBuyers(ctx context.Context) ([]repoargs.OrderWithBuyer, error) {
	query := `
		SELECT o.id, o.created_at, o.user_id, o.product_title, o.product_image,
		       o.product_category, o.amount_usd, o.status, u.email
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, convertErr(err, "listing all orders")
	}
	defer rows.Close()

	var result []repoargs.OrderWithBuyer
	for rows.Next() {
		var item repoargs.OrderWithBuyer
		scanErr := rows.Scan(
			&item.Order.ID,
			&item.Order.CreatedAt,
			&item.Order.UserID,
			&item.Order.ProductTitle,
			&item.Order.ProductImage,
			&item.Order.ProductCategory,
			&item.Order.AmountUSD,
			&item.Order.Status,
			&item.BuyerEmail,
		)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing all orders")
		}
		result = append(result, item)
	}
	return result, convertErr(rows.Err(), "listing all orders")
}

// TransitionStatus выполняет охраняемый переход статуса одним условным UPDATE:
// строка меняется только если текущий статус равен from. Ноль затронутых строк
// означает, что заказ отсутствует либо уже не в статусе from - повторная
// доставка Complete-колбэка не пройдет этот фильтр во второй раз.
func (r *OrderRepository) TransitionStatus(
	ctx context.Context,
	orderID int64,
	from, to domain.OrderStatusType,
) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET status = $3
		WHERE id = $1 AND status = $2
		RETURNING ` + orderColumns

	order, err := r.scanOrder(r.db.QueryRow(ctx, query, orderID, from, to))
	if err != nil {
		return nil, convertErr(err, "transitioning order %d to %s", orderID, to)
	}
	return order, nil
}

// Delete применяется только как компенсация для pending-заказа, оставшегося
// без платежной ссылки.
func (r *OrderRepository) Delete(ctx context.Context, orderID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return convertErr(err, "deleting order %d", orderID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "deleting order %d", orderID)
	}
	return nil
}

// GetUserSpending агрегирует количество заказов и сумму трат пользователя.
func (r *OrderRepository) GetUserSpending(ctx context.Context, userID int64) (*repoargs.UserSpending, error) {
	var spending repoargs.UserSpending
	query := `
		SELECT COUNT(*), COALESCE(SUM(amount_usd), 0)
		FROM orders
		WHERE user_id = $1`

	if err := r.db.QueryRow(ctx, query, userID).Scan(&spending.OrdersCount, &spending.TotalSpentUSD); err != nil {
		return nil, convertErr(err, "aggregating spending of user %d", userID)
	}
	return &spending, nil
}

// GetAdminStats собирает счетчики и выручку для админской панели одним запросом.
func (r *OrderRepository) GetAdminStats(ctx context.Context) (*repoargs.AdminStats, error) {
	var stats repoargs.AdminStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM products),
			COUNT(*),
			COALESCE(SUM(amount_usd), 0)
		FROM orders`

	err := r.db.QueryRow(ctx, query).Scan(
		&stats.UsersCount,
		&stats.ProductsCount,
		&stats.OrdersCount,
		&stats.TotalRevenueUSD,
	)
	if err != nil {
		return nil, convertErr(err, "aggregating admin stats")
	}
	return &stats, nil
}

func (r *OrderRepository) scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.CreatedAt,
		&order.UserID,
		&order.ProductTitle,
		&order.ProductImage,
		&order.ProductCategory,
		&order.AmountUSD,
		&order.Status,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
