package pgrepo

import (
	"context"

	"github.com/layzzbe/market/pkg/uow"
)

// SettingsRepository - key/value хранилище системных настроек
// (учетные данные шлюза, публичные отображаемые параметры).
type SettingsRepository struct {
	db uow.DBTX
}

func NewSettingsRepository(db uow.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	query := `SELECT value FROM system_settings WHERE key = $1`
	if err := r.db.QueryRow(ctx, query, key).Scan(&value); err != nil {
		return "", convertErr(err, "getting setting %s", key)
	}
	return value, nil
}

func (r *SettingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT key, value FROM system_settings`)
	if err != nil {
		return nil, convertErr(err, "listing settings")
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if scanErr := rows.Scan(&key, &value); scanErr != nil {
			return nil, convertErr(scanErr, "listing settings")
		}
		settings[key] = value
	}
	return settings, convertErr(rows.Err(), "listing settings")
}

func (r *SettingsRepository) GetByKeys(ctx context.Context, keys []string) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT key, value FROM system_settings WHERE key = ANY($1)`, keys)
	if err != nil {
		return nil, convertErr(err, "listing settings by keys")
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if scanErr := rows.Scan(&key, &value); scanErr != nil {
			return nil, convertErr(scanErr, "listing settings by keys")
		}
		settings[key] = value
	}
	return settings, convertErr(rows.Err(), "listing settings by keys")
}

func (r *SettingsRepository) Upsert(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO system_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return convertErr(err, "upserting setting %s", key)
	}
	return nil
}
