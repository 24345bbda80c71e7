package click

import (
	"crypto/md5" //nolint:gosec // MD5 зафиксирован протоколом Click, выбора нет.
	"encoding/hex"
	"fmt"
)

// Sign вычисляет подпись колбэка по формуле шлюза:
// MD5(click_trans_id + service_id + secret_key + merchant_trans_id +
// amount(2 знака) + action + sign_time).
func (c Callback) Sign(secretKey string) string {
	input := fmt.Sprintf("%d%d%s%s%.2f%d%s",
		c.ClickTransID,
		c.ServiceID,
		secretKey,
		c.MerchantTransID,
		c.Amount,
		c.Action,
		c.SignTime,
	)
	sum := md5.Sum([]byte(input)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// VerifySign сравнивает подпись запроса с ожидаемой. Пустой секрет означает,
// что шлюз не сконфигурирован: проверка проваливается (fail closed), а не
// пропускается.
func (c Callback) VerifySign(secretKey string) bool {
	if secretKey == "" {
		return false
	}
	return c.Sign(secretKey) == c.SignString
}
