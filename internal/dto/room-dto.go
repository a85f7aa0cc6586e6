package dto

import "github.com/google/uuid"

type RoomRequestDTO struct {
	Room string `json:"room" validate:"required,room"`
}

type PendingRoomDTO struct {
	UserID      uuid.UUID `json:"user_id"`
	UserName    string    `json:"user_name"`
	CurrentRoom string    `json:"current_room,omitempty"`
	PendingRoom string    `json:"pending_room"`
	Floor       int       `json:"floor"`
}

type RoomOccupantsDTO struct {
	Room      string          `json:"room"`
	Occupants []UserPublicDTO `json:"occupants"`
}
