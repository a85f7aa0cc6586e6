package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

type Announcement struct {
	ID            uint64    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Content       string    `json:"content" db:"content"`
	Priority      string    `json:"priority" db:"priority"`
	Audience      string    `json:"audience" db:"audience"`
	CreatedBy     uuid.UUID `json:"created_by" db:"created_by"`
	CreatedByName string    `json:"created_by_name" db:"created_by_name"`
	Date          time.Time `json:"date" db:"date"`
	ExpiresAt     null.Time `json:"expires_at" db:"expires_at"`
	ArchivedAt    null.Time `json:"archived_at" db:"archived_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
