package payments

// Ключи маршрутизации событий платежного провайдера
const (
	RoutingCaptured = "payment.captured"
	RoutingFailed   = "payment.failed"
	RoutingRefunded = "payment.refunded"
)

// RoutingKeys ключи, на которые подписывается очередь сервиса
var RoutingKeys = []string{RoutingCaptured, RoutingFailed, RoutingRefunded}

// Event тело сообщения о платеже
type Event struct {
	SessionID int64  `json:"sessionId"`
	PaymentID string `json:"paymentId,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
