package send_reminders

// Response итог одного прохода
type Response struct {
	Found    int // сессий в окне напоминаний
	Reminded int // напоминаний отправлено в этом проходе
}
