package expire_pending

// ExpireReason причина отмены, которую видят участники
const ExpireReason = "оплата не поступила вовремя"

// Response итог одного прохода
type Response struct {
	Found   int
	Expired int
	Failed  int
}
