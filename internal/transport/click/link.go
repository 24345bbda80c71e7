package click

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

const payBaseURL = "https://my.click.uz/services/pay"

// PaymentLinkArgs - параметры платежной ссылки. OrderID уходит в
// transaction_param и возвращается шлюзом как merchant_trans_id.
type PaymentLinkArgs struct {
	ServiceID  string
	MerchantID string
	AmountUZS  decimal.Decimal
	OrderID    int64
	ReturnURL  string
}

// PaymentLink строит детерминированный URL страницы оплаты Click.
func PaymentLink(args PaymentLinkArgs) string {
	query := url.Values{}
	query.Set("service_id", args.ServiceID)
	query.Set("merchant_id", args.MerchantID)
	query.Set("amount", args.AmountUZS.StringFixed(0))
	query.Set("transaction_param", strconv.FormatInt(args.OrderID, 10))
	query.Set("return_url", args.ReturnURL)

	return payBaseURL + "?" + query.Encode()
}
