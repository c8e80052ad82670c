package scheduling

import "time"

// Доли возврата при отмене
const (
	FullRefund = 1.0
	HalfRefund = 0.5
	NoRefund   = 0.0
)

// CancellationPolicy сопоставляет время до начала сессии и долю возврата.
// Границы включительные: ровно FullRefundHours часов дают полный возврат.
type CancellationPolicy struct {
	FullRefundHours float64
	HalfRefundHours float64
}

// DefaultCancellationPolicy 24 часа и более - полный возврат, от 12 до 24 - половина
func DefaultCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{FullRefundHours: 24, HalfRefundHours: 12}
}

// RefundFraction доля возврата, одно из значений {1.0, 0.5, 0.0}
func (p CancellationPolicy) RefundFraction(hoursUntilSession float64) float64 {
	switch {
	case hoursUntilSession >= p.FullRefundHours:
		return FullRefund
	case hoursUntilSession >= p.HalfRefundHours:
		return HalfRefund
	default:
		return NoRefund
	}
}

// RefundAmount сумма возврата, округленная до центов
func (p CancellationPolicy) RefundAmount(price, hoursUntilSession float64) float64 {
	return RoundMoney(price * p.RefundFraction(hoursUntilSession))
}

// HoursUntil часы от момента at до начала сессии. Отрицательно, если сессия уже началась.
func HoursUntil(startsAt, at time.Time) float64 {
	return startsAt.Sub(at).Hours()
}
