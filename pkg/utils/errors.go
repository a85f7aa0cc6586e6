package utils

import (
	"net/http"

	apperrors "dorm-portal/pkg/errors"
)

// ErrorList - коды ответа для доменных ошибок, которые не обёрнуты в HttpError.
var ErrorList = map[error]int{
	apperrors.ErrNotFound:                http.StatusNotFound,
	apperrors.ErrBadRequest:              http.StatusBadRequest,
	apperrors.ErrConflict:                http.StatusConflict,
	apperrors.ErrForbidden:               http.StatusForbidden,
	apperrors.ErrUserFrozen:              http.StatusForbidden,
	apperrors.ErrTooManyAttempts:         http.StatusTooManyRequests,
	apperrors.ErrUnauthorized:            http.StatusUnauthorized,
	apperrors.ErrInvalidCredentials:      http.StatusUnauthorized,
	apperrors.ErrInvalidToken:            http.StatusUnauthorized,
	apperrors.ErrTokenExpired:            http.StatusUnauthorized,
	apperrors.ErrTokenNotYetValid:        http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:        http.StatusUnauthorized,
	apperrors.ErrTokenIsNotRefresh:       http.StatusUnauthorized,
	apperrors.ErrInvalidSigningMethod:    http.StatusUnauthorized,
	apperrors.ErrEmptyAuthHeader:         http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:       http.StatusUnauthorized,
	apperrors.ErrUserIDNotFoundInContext: http.StatusUnauthorized,
	apperrors.ErrInvalidUserID:           http.StatusBadRequest,
}
