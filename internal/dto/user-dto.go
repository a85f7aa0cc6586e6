package dto

import (
	"time"

	"github.com/google/uuid"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/entities"
	"dorm-portal/internal/workflow"
)

type PositionDTO struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type UserPublicDTO struct {
	ID            uuid.UUID     `json:"id"`
	Email         string        `json:"email"`
	Name          string        `json:"name"`
	Role          string        `json:"role"`
	RoleName      string        `json:"role_name"`
	Positions     []PositionDTO `json:"positions"`
	Room          string        `json:"room,omitempty"`
	PendingRoom   string        `json:"pending_room,omitempty"`
	RoomConfirmed bool          `json:"room_confirmed"`
	RoomState     string        `json:"room_state"`
	Group         string        `json:"group,omitempty"`
	StudyYears    int           `json:"study_years,omitempty"`
	IsFrozen      bool          `json:"is_frozen"`
	RegisteredAt  time.Time     `json:"registered_at"`
}

type UpdateProfileDTO struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=150"`
	Group      *string `json:"group" validate:"omitempty,group"`
	StudyYears *int    `json:"study_years" validate:"omitempty,min=1,max=9"`
}

type ChangeRoleDTO struct {
	Role string `json:"role" validate:"required,role"`
}

type SetPositionsDTO struct {
	Positions []string `json:"positions" validate:"dive,position"`
}

type FreezeDTO struct {
	Frozen bool `json:"frozen"`
}

type CourseSweepResultDTO struct {
	Checked  int `json:"checked"`
	Promoted int `json:"promoted"`
	Deleted  int `json:"deleted"`
}

func PositionsToDTO(ps authz.Positions) []PositionDTO {
	out := make([]PositionDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, PositionDTO{Key: p.Key(), Name: p.DisplayName(), Order: p.Order()})
	}
	return out
}

func UserToPublicDTO(u *entities.User) UserPublicDTO {
	role := authz.ParseRole(u.Role)
	state := workflow.StateOf(workflow.RoomAssignment{
		Room:        u.Room.String,
		PendingRoom: u.PendingRoom.String,
		Confirmed:   u.RoomConfirmed,
	})
	return UserPublicDTO{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		RoleName:      role.DisplayName(),
		Positions:     PositionsToDTO(authz.MustParsePositions(u.Positions)),
		Room:          u.Room.String,
		PendingRoom:   u.PendingRoom.String,
		RoomConfirmed: u.RoomConfirmed,
		RoomState:     state.String(),
		Group:         u.Group.String,
		StudyYears:    u.StudyYears.Int,
		IsFrozen:      u.IsFrozen,
		RegisteredAt:  u.RegisteredAt,
	}
}

func UsersToPublicDTO(users []entities.User) []UserPublicDTO {
	out := make([]UserPublicDTO, 0, len(users))
	for i := range users {
		out = append(out, UserToPublicDTO(&users[i]))
	}
	return out
}
