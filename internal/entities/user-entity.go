package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Email    string    `json:"email" db:"email"`
	Name     string    `json:"name" db:"name"`
	Password string    `json:"-" db:"password"`

	Role      string   `json:"role" db:"role"`
	Positions []string `json:"positions" db:"positions"`

	// Комната: подтверждённая, запрошенная и флаг подтверждения.
	Room          null.String `json:"room" db:"room"`
	PendingRoom   null.String `json:"pending_room" db:"pending_room"`
	RoomConfirmed bool        `json:"room_confirmed" db:"room_confirmed"`

	// Учёба: текущая группа, группа при регистрации, срок обучения.
	Group        null.String `json:"group" db:"group_name"`
	EntryGroup   null.String `json:"-" db:"entry_group"`
	StudyYears   null.Int    `json:"study_years" db:"study_years"`
	RegisteredAt time.Time   `json:"registered_at" db:"registered_at"`

	IsFrozen bool `json:"is_frozen" db:"is_frozen"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
