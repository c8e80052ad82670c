package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid session status")

	// ErrInvalidRole возвращается, когда история запрошена не как client или expert
	ErrInvalidRole = errors.New("role must be client or expert")
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Request модели

// ListSessionsRequest запрос на получение истории сессий пользователя
type ListSessionsRequest struct {
	Actor  domain.Actor
	UserID int64      // чья история
	As     string     // client или expert: в какой роли пользователь участвовал
	Status *string    // фильтр по статусу (опционально)
	From   *time.Time // начало периода по дате сессии (опционально)
	To     *time.Time // конец периода (опционально)
	Limit  int
	Offset int
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListSessionsRequest) ToDomainFilter() (domain.SessionsFilter, error) {
	filter := domain.SessionsFilter{
		From:   r.From,
		To:     r.To,
		Limit:  r.Limit,
		Offset: r.Offset,
	}

	userID := r.UserID
	switch domain.ActorRole(r.As) {
	case domain.RoleClient:
		filter.ClientID = &userID
	case domain.RoleExpert:
		filter.ExpertID = &userID
	default:
		return filter, ErrInvalidRole
	}

	if r.Status != nil {
		status := domain.SessionStatus(*r.Status)
		if !status.IsValid() {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}

	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return filter, nil
}

// Response модели

// SessionResponse ответ с данными сессии
type SessionResponse struct {
	ID              int64   `json:"id"`
	ClientID        int64   `json:"clientId"`
	ExpertID        int64   `json:"expertId"`
	ScheduledDate   string  `json:"scheduledDate"` // "2026-10-19"
	ScheduledTime   string  `json:"scheduledTime"` // "10:00"
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	StartsAt        string  `json:"startsAt"` // RFC 3339, UTC
	EndsAt          string  `json:"endsAt"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`

	ExpertCommission   float64 `json:"expertCommission"`
	PlatformCommission float64 `json:"platformCommission"`
	UserCreditsUsed    float64 `json:"userCreditsUsed"`

	Rating     *int    `json:"rating,omitempty"`
	Review     *string `json:"review,omitempty"`
	ReviewedAt *string `json:"reviewedAt,omitempty"`

	CancelReason    *string `json:"cancelReason,omitempty"`
	CancelledBy     *int64  `json:"cancelledBy,omitempty"`
	CancelledByRole *string `json:"cancelledByRole,omitempty"`
	CancelledAt     *string `json:"cancelledAt,omitempty"`
	CompletedAt     *string `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionListResponse ответ со списком сессий
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// LedgerEntryResponse запись журнала расчетов
type LedgerEntryResponse struct {
	ID                 int64     `json:"id"`
	Type               string    `json:"type"`
	Amount             float64   `json:"amount"`
	Currency           string    `json:"currency"`
	ExpertCommission   float64   `json:"expertCommission"`
	PlatformCommission float64   `json:"platformCommission"`
	CreditsUsed        float64   `json:"creditsUsed"`
	CreatedAt          time.Time `json:"createdAt"`
}

// LedgerResponse журнал расчетов по сессии
type LedgerResponse struct {
	SessionID int64                 `json:"sessionId"`
	Entries   []LedgerEntryResponse `json:"entries"`
}

// Методы конвертации

// FromDomainSession конвертирует domain модель в DTO
func FromDomainSession(s *domain.Session) *SessionResponse {
	if s == nil {
		return nil
	}

	resp := &SessionResponse{
		ID:                 s.ID,
		ClientID:           s.ClientID,
		ExpertID:           s.ExpertID,
		ScheduledDate:      s.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime:      s.ScheduledTime.String(),
		EndTime:            s.EndTime.String(),
		DurationMinutes:    s.DurationMinutes,
		StartsAt:           s.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:             s.EndsAt.UTC().Format(time.RFC3339),
		Price:              s.Price,
		Currency:           s.Currency,
		Status:             string(s.Status),
		PaymentStatus:      string(s.PaymentStatus),
		ExpertCommission:   s.Metadata.ExpertCommission,
		PlatformCommission: s.Metadata.PlatformCommission,
		UserCreditsUsed:    s.Metadata.UserCreditsUsed,
		Rating:             s.Rating,
		Review:             s.Review,
		ReviewedAt:         formatTime(s.ReviewedAt),
		CancelReason:       s.CancelReason,
		CancelledBy:        s.CancelledBy,
		CancelledAt:        formatTime(s.CancelledAt),
		CompletedAt:        formatTime(s.CompletedAt),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}

	if s.CancelledByRole != nil {
		role := string(*s.CancelledByRole)
		resp.CancelledByRole = &role
	}

	return resp
}

// FromDomainSessionList конвертирует список domain моделей в DTO
func FromDomainSessionList(sessions []*domain.Session) *SessionListResponse {
	resp := &SessionListResponse{
		Sessions: make([]SessionResponse, 0, len(sessions)),
	}

	for _, session := range sessions {
		if sessionResp := FromDomainSession(session); sessionResp != nil {
			resp.Sessions = append(resp.Sessions, *sessionResp)
		}
	}

	return resp
}

// FromDomainLedger конвертирует записи журнала в DTO
func FromDomainLedger(sessionID int64, entries []*domain.LedgerEntry) *LedgerResponse {
	resp := &LedgerResponse{
		SessionID: sessionID,
		Entries:   make([]LedgerEntryResponse, 0, len(entries)),
	}

	for _, e := range entries {
		resp.Entries = append(resp.Entries, LedgerEntryResponse{
			ID:                 e.ID,
			Type:               string(e.Type),
			Amount:             e.Amount,
			Currency:           e.Currency,
			ExpertCommission:   e.ExpertCommission,
			PlatformCommission: e.PlatformCommission,
			CreditsUsed:        e.CreditsUsed,
			CreatedAt:          e.CreatedAt,
		})
	}

	return resp
}

// formatTime конвертирует время в строку ISO 8601
func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
