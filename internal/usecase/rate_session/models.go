package rate_session

import "github.com/m04kA/SMC-ConsultationService/internal/domain"

// Request оценка завершенной сессии клиентом
type Request struct {
	SessionID int64
	Actor     domain.Actor
	Rating    int    // 1..5
	Review    string // необязательный отзыв
}

// Response оцененная сессия и обновленный рейтинг эксперта
type Response struct {
	Session      *domain.Session
	ExpertRating float64
	ReviewCount  int
}
