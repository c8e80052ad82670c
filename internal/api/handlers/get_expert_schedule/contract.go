package get_expert_schedule

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/service/experts/models"
)

type ExpertService interface {
	GetSchedule(ctx context.Context, expertID int64) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
