package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/pkg/uow"
)

// Ключи системных настроек. Учетные данные шлюза и бота живут здесь же,
// но наружу через публичную выдачу никогда не попадают.
const (
	SettingClickServiceID  = "click_service_id"
	SettingClickMerchantID = "click_merchant_id"
	SettingClickSecretKey  = "click_secret_key"

	SettingTelegramBotToken = "telegram_bot_token"
	SettingTelegramAdminID  = "telegram_admin_id"
)

// publicSettingKeys - фиксированный allowlist ключей, отдаваемых без
// авторизации. Все остальное считается приватным по умолчанию.
var publicSettingKeys = []string{
	"site_name",
	"site_description",
	"instagram_link",
	"telegram_channel",
	"youtube_link",
	"maintenance_mode",
	"maintenance_message",
	"usd_rate",
	"rub_rate",
}

type SettingsService struct {
	uow          uow.UOW
	settingsRepo SettingsRepository
}

func NewSettingsService(u uow.UOW) (*SettingsService, error) {
	settingsRepo, err := uow.GetRepositoryAs[SettingsRepository](u, uow.RepositoryName(repoargs.SettingsRepoName))
	if err != nil {
		return nil, err
	}
	return &SettingsService{uow: u, settingsRepo: settingsRepo}, nil
}

// GetAll возвращает все настройки (админская выдача, включая секреты).
func (s *SettingsService) GetAll(ctx context.Context) (map[string]string, error) {
	settings, err := s.settingsRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	return settings, nil
}

// GetPublic возвращает настройки из фиксированного allowlist. Отсутствующие
// ключи просто не попадают в ответ.
func (s *SettingsService) GetPublic(ctx context.Context) (map[string]string, error) {
	settings, err := s.settingsRepo.GetByKeys(ctx, publicSettingKeys)
	if err != nil {
		return nil, fmt.Errorf("listing public settings: %w", err)
	}
	return settings, nil
}

// Update сохраняет пачку настроек одной транзакцией.
func (s *SettingsService) Update(ctx context.Context, values map[string]string) error {
	doErr := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		settingsRepo, repoErr := uow.GetAs[SettingsRepository](tx, uow.RepositoryName(repoargs.SettingsRepoName))
		if repoErr != nil {
			return repoErr
		}
		for key, value := range values {
			if err := settingsRepo.Upsert(ctx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if doErr != nil {
		return fmt.Errorf("updating settings: %w", doErr)
	}
	return nil
}

// TelegramCredentials реализует источник учетных данных для телеграм-уведомлений.
// Отсутствующие ключи возвращаются пустыми строками без ошибки.
func (s *SettingsService) TelegramCredentials(ctx context.Context) (string, string, error) {
	values, err := s.settingsRepo.GetByKeys(ctx, []string{SettingTelegramBotToken, SettingTelegramAdminID})
	if err != nil {
		return "", "", fmt.Errorf("reading telegram credentials: %w", err)
	}
	return values[SettingTelegramBotToken], values[SettingTelegramAdminID], nil
}

// GatewayCredentials читает service id и merchant id платежного шлюза.
// Отсутствие любого из них означает ненастроенный шлюз.
func (s *SettingsService) GatewayCredentials(ctx context.Context) (serviceID, merchantID string, err error) {
	values, getErr := s.settingsRepo.GetByKeys(ctx, []string{SettingClickServiceID, SettingClickMerchantID})
	if getErr != nil {
		return "", "", fmt.Errorf("reading gateway credentials: %w", getErr)
	}
	serviceID = values[SettingClickServiceID]
	merchantID = values[SettingClickMerchantID]
	if serviceID == "" || merchantID == "" {
		return "", "", domain.ErrGatewayNotConfigured
	}
	return serviceID, merchantID, nil
}

// GatewaySecret читает секретный ключ подписи колбэков. Отсутствие ключа -
// не ошибка: проверка подписи в этом случае отклонит любой колбэк.
func (s *SettingsService) GatewaySecret(ctx context.Context) (string, error) {
	secret, err := s.settingsRepo.Get(ctx, SettingClickSecretKey)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading gateway secret: %w", err)
	}
	return secret, nil
}
