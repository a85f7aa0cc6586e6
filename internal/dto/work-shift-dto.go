package dto

import (
	"github.com/google/uuid"

	"dorm-portal/internal/entities"
	"dorm-portal/internal/workflow"
)

type CreateWorkShiftDTO struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Days   int       `json:"days" validate:"required,min=1,max=365"`
	Reason string    `json:"reason" validate:"required,max=500"`
}

type AssignRoomWorkShiftDTO struct {
	Room   string `json:"room" validate:"required,room"`
	Days   int    `json:"days" validate:"required,min=1,max=365"`
	Reason string `json:"reason" validate:"required,max=500"`
}

type CompleteWorkShiftDTO struct {
	Days int `json:"days" validate:"required,min=1"`
}

// CompleteWorkShiftResultDTO - итог засчитывания. Archived > 0, если отработки жильца ушли в архив.
type CompleteWorkShiftResultDTO struct {
	Shift    entities.WorkShift `json:"shift"`
	Archived int64              `json:"archived"`
}

type UserWorkShiftsDTO struct {
	UserID uuid.UUID            `json:"user_id"`
	Shifts []entities.WorkShift `json:"shifts"`
	Totals workflow.Totals      `json:"totals"`
}
