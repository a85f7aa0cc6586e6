package dto

import "github.com/aarondl/null/v8"

type CreateAnnouncementDTO struct {
	Title     string    `json:"title" validate:"required,max=200"`
	Content   string    `json:"content" validate:"required"`
	Priority  string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	Audience  string    `json:"audience" validate:"required,audience"`
	ExpiresAt null.Time `json:"expires_at"`
}

type UpdateAnnouncementDTO struct {
	Title     *string   `json:"title" validate:"omitempty,max=200"`
	Content   *string   `json:"content" validate:"omitempty,min=1"`
	Priority  *string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Audience  *string   `json:"audience" validate:"omitempty,audience"`
	ExpiresAt null.Time `json:"expires_at"`
}
