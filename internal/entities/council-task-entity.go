package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

type CouncilTask struct {
	ID                  uint64    `json:"id" db:"id"`
	Title               string    `json:"title" db:"title"`
	Description         string    `json:"description" db:"description"`
	AssignedToUsers     []string  `json:"assigned_to_users" db:"assigned_to_users"`
	AssignedToPositions []string  `json:"assigned_to_positions" db:"assigned_to_positions"`
	Status              string    `json:"status" db:"status"`
	Priority            string    `json:"priority" db:"priority"`
	DueDate             null.Time `json:"due_date" db:"due_date"`
	CreatedBy           uuid.UUID `json:"created_by" db:"created_by"`
	CreatedByName       string    `json:"created_by_name" db:"created_by_name"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	CompletedAt         null.Time `json:"completed_at" db:"completed_at"`
}
