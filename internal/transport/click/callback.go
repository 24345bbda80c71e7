// Package click реализует протокол платежного шлюза Click.uz: формат
// prepare/complete колбэка, подпись запроса и построение платежной ссылки.
// Формы, имена полей и коды ошибок зафиксированы документацией шлюза -
// от точного соответствия зависит его retry-логика.
package click

type ActionType int

const (
	ActionPrepare  ActionType = 0
	ActionComplete ActionType = 1
)

// Коды ошибок ответа мерчанта. Шлюз различает их численно: например, на -4
// он прекращает повторные доставки, а на -9 может инициировать возврат.
const (
	CodeSuccess             = 0
	CodeSignatureFailed     = -1
	CodeIncorrectAmount     = -2
	CodeAlreadyPaid         = -4
	CodeOrderNotFound       = -5
	CodeInvalidMerchantID   = -6
	CodeUnknownAction       = -8
	CodeTransactionCanceled = -9
)

// Callback - form-encoded запрос шлюза. merchant_trans_id несет наш order id
// (correlation id, который мы отдали в transaction_param платежной ссылки).
type Callback struct {
	ClickTransID    int64   `binding:"required" form:"click_trans_id"`
	ServiceID       int64   `binding:"required" form:"service_id"`
	ClickPaydocID   int64   `binding:"required" form:"click_paydoc_id"`
	MerchantTransID string  `binding:"required" form:"merchant_trans_id"`
	Amount          float64 `binding:"required" form:"amount"`
	Action          int     `form:"action"` // ноль валиден (Prepare), присутствие поля проверяет хендлер
	Error           int     `form:"error"`
	ErrorNote       string  `form:"error_note"`
	SignTime        string  `binding:"required" form:"sign_time"`
	SignString      string  `binding:"required" form:"sign_string"`
}

// Reply - JSON-ответ мерчанта. ClickTransID и MerchantTransID эхом
// возвращаются без изменений. MerchantPrepareID заполняется на Prepare,
// MerchantConfirmID - на Complete.
type Reply struct {
	ClickTransID      int64  `json:"click_trans_id"`
	MerchantTransID   string `json:"merchant_trans_id"`
	MerchantPrepareID *int64 `json:"merchant_prepare_id,omitempty"`
	MerchantConfirmID *int64 `json:"merchant_confirm_id,omitempty"`
	Error             int    `json:"error"`
	ErrorNote         string `json:"error_note"`
}

func (c Callback) Reply(code int, note string) Reply {
	return Reply{
		ClickTransID:    c.ClickTransID,
		MerchantTransID: c.MerchantTransID,
		Error:           code,
		ErrorNote:       note,
	}
}

func (r Reply) WithPrepareID(id int64) Reply {
	r.MerchantPrepareID = &id
	return r
}

func (r Reply) WithConfirmID(id int64) Reply {
	r.MerchantConfirmID = &id
	return r
}
