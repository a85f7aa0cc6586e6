package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

type CleanlinessScore struct {
	Floor       int       `json:"floor" db:"floor"`
	Date        time.Time `json:"date" db:"score_date"`
	Room        string    `json:"room" db:"room"`
	Score       int       `json:"score" db:"score"`
	Inspector   string    `json:"inspector" db:"inspector"`
	InspectorID uuid.UUID `json:"inspector_id" db:"inspector_id"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CleanlinessSettings хранится одной JSONB-строкой. Ключи дат - YYYY-MM-DD.
type CleanlinessSettings struct {
	Rooms                 map[string][]string `json:"rooms"`
	WorkingDays           map[string]bool     `json:"workingDays"`
	ClosedRooms           map[string][]string `json:"closedRooms"`
	ClosedFloors          map[string][]int    `json:"closedFloors"`
	DefaultNonWorkingDays []int               `json:"defaultNonWorkingDays"`
	GeneralCleaningDay    null.Int            `json:"generalCleaningDay"`
}
