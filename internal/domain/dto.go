package domain

type OrderStatusType string

const (
	// OrderStatusPending - заказ создан для оплаты через платежный шлюз,
	// деньги еще не двигались.
	OrderStatusPending OrderStatusType = "pending"
	// OrderStatusCompleted - покупка проведена через внутренний кошелек.
	OrderStatusCompleted OrderStatusType = "completed"
	// OrderStatusPaid - оплата подтверждена шлюзом (Complete callback).
	OrderStatusPaid OrderStatusType = "paid"
	// OrderStatusCancelled - шлюз отменил оплату.
	OrderStatusCancelled OrderStatusType = "cancelled"
)

type TransactionType string

const (
	TransactionTopup    TransactionType = "TOPUP"
	TransactionPurchase TransactionType = "PURCHASE"
)

type RoleType string

const (
	RoleUser      RoleType = "user"
	RoleModerator RoleType = "moderator"
	RoleAdmin     RoleType = "admin"
)

func (r RoleType) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

const CurrencyUZS = "UZS"
