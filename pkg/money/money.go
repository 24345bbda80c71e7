// Package money содержит примитивы для работы с валютами маркетплейса:
// конвертация USD<->UZS по фиксированному курсу и разбор строковых цен каталога.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Точность представления сумм: UZS не имеет дробной части, USD храним
// с точностью до 4 знаков.
const (
	uzsPlaces int32 = 0
	usdPlaces int32 = 4
)

// Converter выполняет конвертацию по единому курсу, заданному при старте
// процесса. Курс нигде больше не дублируется.
type Converter struct {
	rate decimal.Decimal
}

func NewConverter(usdRate decimal.Decimal) Converter {
	return Converter{rate: usdRate}
}

// UZSFromUSD конвертирует сумму USD в UZS с округлением до целых сумов
// (round half up).
func (c Converter) UZSFromUSD(usd decimal.Decimal) decimal.Decimal {
	return usd.Mul(c.rate).Round(uzsPlaces)
}

// USDFromUZS конвертирует сумму UZS в USD с округлением до 4 знаков.
func (c Converter) USDFromUZS(uzs decimal.Decimal) decimal.Decimal {
	return uzs.Div(c.rate).Round(usdPlaces)
}

// ParsePrice разбирает отображаемую цену каталога вида "$49" или "9.99".
// Некорректная строка трактуется как ноль, а не как ошибка: одна битая цена
// не должна валить весь чекаут.
func ParsePrice(price string) decimal.Decimal {
	cleaned := strings.TrimSpace(strings.ReplaceAll(price, "$", ""))
	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
