package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// WorkShift - назначенная отработка. CompletedDays только растёт и не больше Days.
type WorkShift struct {
	ID              uint64      `json:"id" db:"id"`
	UserID          uuid.UUID   `json:"user_id" db:"user_id"`
	UserName        string      `json:"user_name" db:"user_name"`
	Days            int         `json:"days" db:"days"`
	CompletedDays   int         `json:"completed_days" db:"completed_days"`
	Reason          string      `json:"reason" db:"reason"`
	AssignedBy      uuid.UUID   `json:"assigned_by" db:"assigned_by"`
	AssignedByName  string      `json:"assigned_by_name" db:"assigned_by_name"`
	CompletedBy     null.String `json:"completed_by" db:"completed_by"`
	CompletedByName null.String `json:"completed_by_name" db:"completed_by_name"`
	CompletedAt     null.Time   `json:"completed_at" db:"completed_at"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
}

func (w WorkShift) Remaining() int { return w.Days - w.CompletedDays }

func (w WorkShift) IsComplete() bool { return w.CompletedDays >= w.Days }

const (
	ArchiveReasonCompleted = "completed"
	ArchiveReasonDeleted   = "deleted"
)

// ArchivedWorkShift - запись архива с исходными данными отработки.
type ArchivedWorkShift struct {
	WorkShift
	ArchivedAt    time.Time   `json:"archived_at" db:"archived_at"`
	ArchiveReason string      `json:"archive_reason" db:"archive_reason"`
	ArchivedBy    null.String `json:"archived_by" db:"archived_by"`
}
