package dto

type LoginDTO struct {
	Email    string `json:"email" validate:"required,custom_email"`
	Password string `json:"password" validate:"required"`
}

// RegisterDTO - самостоятельная регистрация жильца. Комната уходит на одобрение.
type RegisterDTO struct {
	Email      string `json:"email" validate:"required,custom_email"`
	Password   string `json:"password" validate:"required,password"`
	Name       string `json:"name" validate:"required,min=2,max=150"`
	Room       string `json:"room" validate:"omitempty,room"`
	Group      string `json:"group" validate:"omitempty,group"`
	StudyYears int    `json:"study_years" validate:"omitempty,min=1,max=9"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type AuthResponseDTO struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         UserPublicDTO `json:"user"`
}
