package pgrepo

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/layzzbe/market/internal/domain"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// errNoRowsAffected - внутренний сигнал для Exec-запросов, не нашедших строку.
var errNoRowsAffected = errors.New("no rows affected")

// convertErr преобразует ошибку к стандартному виду для слоя репозитория.
// Особенности:
//   - pgx.ErrNoRows превращается в domain.ErrRecordNotFound;
//   - нарушение уникальности (23505) - в domain.ErrDuplicateKey;
//   - нарушение внешнего ключа (23503) - в domain.ErrRestricted;
//   - все остальное - domain.ErrUnknown с оригинальным сообщением.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, errNoRowsAffected) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	var pgErr *pgconn.PgError
	errType := domain.ErrUnknown

	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			errType = domain.ErrDuplicateKey
		case foreignKeyViolationCode:
			errType = domain.ErrRestricted
		}
	}

	return fmt.Errorf("[repository/%s] %w: %s", msg, errType, err.Error())
}
