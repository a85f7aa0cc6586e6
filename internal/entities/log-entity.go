package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// LogEntry - запись журнала действий. UserID пуст для системных заданий.
type LogEntry struct {
	ID             uint64      `json:"id" db:"id"`
	Action         string      `json:"action" db:"action"`
	UserID         null.String `json:"user_id" db:"user_id"`
	UserName       string      `json:"user_name" db:"user_name"`
	Details        string      `json:"details" db:"details"`
	TargetUserID   null.String `json:"target_user_id" db:"target_user_id"`
	TargetUserName null.String `json:"target_user_name" db:"target_user_name"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}
