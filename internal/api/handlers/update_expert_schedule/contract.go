package update_expert_schedule

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/service/experts/models"
)

type ExpertService interface {
	UpdateSchedule(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
