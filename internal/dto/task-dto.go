package dto

import "github.com/aarondl/null/v8"

type CreateTaskDTO struct {
	Title               string    `json:"title" validate:"required,max=200"`
	Description         string    `json:"description" validate:"max=2000"`
	AssignedToUsers     []string  `json:"assigned_to_users" validate:"dive,uuid"`
	AssignedToPositions []string  `json:"assigned_to_positions" validate:"dive,position"`
	Priority            string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate             null.Time `json:"due_date"`
}

type UpdateTaskDTO struct {
	Title               *string   `json:"title" validate:"omitempty,max=200"`
	Description         *string   `json:"description" validate:"omitempty,max=2000"`
	AssignedToUsers     []string  `json:"assigned_to_users" validate:"omitempty,dive,uuid"`
	AssignedToPositions []string  `json:"assigned_to_positions" validate:"omitempty,dive,position"`
	Priority            *string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate             null.Time `json:"due_date"`
}

type ChangeTaskStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}
