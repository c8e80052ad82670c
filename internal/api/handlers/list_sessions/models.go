package list_sessions

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
)

// ToServiceRequest собирает запрос сервиса из query параметров.
// as по умолчанию client, from и to в формате YYYY-MM-DD.
func ToServiceRequest(r *http.Request, actor domain.Actor, userID int64) (*models.ListSessionsRequest, error) {
	query := r.URL.Query()

	req := &models.ListSessionsRequest{
		Actor:  actor,
		UserID: userID,
		As:     string(domain.RoleClient),
	}

	if as := query.Get("as"); as != "" {
		req.As = as
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	var err error
	if req.From, err = parseDate(query.Get("from")); err != nil {
		return nil, err
	}
	if req.To, err = parseDate(query.Get("to")); err != nil {
		return nil, err
	}

	if req.Limit, err = handlers.QueryInt(r, "limit", 0); err != nil {
		return nil, err
	}
	if req.Offset, err = handlers.QueryInt(r, "offset", 0); err != nil {
		return nil, err
	}

	return req, nil
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
