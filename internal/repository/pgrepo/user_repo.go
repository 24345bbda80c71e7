package pgrepo

import (
	"context"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/pkg/uow"
	"github.com/shopspring/decimal"
)

type UserRepository struct {
	db uow.DBTX
}

func NewUserRepository(db uow.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, created_at, email, password, role, full_name, phone, balance`

func (r *UserRepository) CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	query := `
		INSERT INTO users (email, password, role)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := r.scanUser(r.db.QueryRow(ctx, query, args.Email, args.Password, args.Role))
	if err != nil {
		return nil, convertErr(err, "creating user %s", args.Email)
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := r.scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, convertErr(err, "finding user by email %s", email)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := r.scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return user, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, convertErr(err, "listing users")
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, scanErr := r.scanUser(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing users")
		}
		users = append(users, *user)
	}
	return users, convertErr(rows.Err(), "listing users")
}

// GetBalance возвращает актуальный баланс прямым запросом. Никакого
// кеширования: два конкурентных чекаута не должны увидеть одно и то же
// устаревшее значение.
func (r *UserRepository) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	query := `SELECT balance FROM users WHERE id = $1`
	if err := r.db.QueryRow(ctx, query, userID).Scan(&balance); err != nil {
		return decimal.Zero, convertErr(err, "getting balance of user %d", userID)
	}
	return balance, nil
}

// AdjustBalance атомарно изменяет баланс на delta одним условным UPDATE.
// Условие balance + delta >= 0 выполняется на стороне базы, поэтому два
// конкурентных списания не могут оба пройти по одному остатку. Отсутствие
// затронутых строк означает либо нехватку средств, либо отсутствие юзера -
// различает вызывающая сторона.
func (r *UserRepository) AdjustBalance(ctx context.Context, userID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var newBalance decimal.Decimal
	query := `
		UPDATE users
		SET balance = balance + $2
		WHERE id = $1 AND balance + $2 >= 0
		RETURNING balance`

	if err := r.db.QueryRow(ctx, query, userID, delta).Scan(&newBalance); err != nil {
		return decimal.Zero, convertErr(err, "adjusting balance of user %d", userID)
	}
	return newBalance, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, args repoargs.UpdateProfile) (*domain.User, error) {
	query := `
		UPDATE users
		SET full_name = COALESCE($2, full_name),
		    phone     = COALESCE($3, phone)
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := r.scanUser(r.db.QueryRow(ctx, query, args.UserID, args.FullName, args.Phone))
	if err != nil {
		return nil, convertErr(err, "updating profile of user %d", args.UserID)
	}
	return user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	query := `UPDATE users SET password = $2 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, userID, hashedPassword)
	if err != nil {
		return convertErr(err, "updating password of user %d", userID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "updating password of user %d", userID)
	}
	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, userID int64, role domain.RoleType) (*domain.User, error) {
	query := `UPDATE users SET role = $2 WHERE id = $1 RETURNING ` + userColumns
	user, err := r.scanUser(r.db.QueryRow(ctx, query, userID, role))
	if err != nil {
		return nil, convertErr(err, "updating role of user %d", userID)
	}
	return user, nil
}

// Delete удаляет пользователя. Финансовая история (orders, transactions)
// защищена внешними ключами ON DELETE RESTRICT: при ее наличии вернется
// domain.ErrRestricted.
func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return convertErr(err, "deleting user %d", userID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "deleting user %d", userID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.FullName,
		&user.Phone,
		&user.Balance,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
