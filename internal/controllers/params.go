package controllers

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "dorm-portal/pkg/errors"
)

func uint64Param(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewBadRequest("Неверный идентификатор", err)
	}
	return id, nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.NewBadRequest("Неверный идентификатор пользователя", err)
	}
	return id, nil
}

func intParam(c echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, apperrors.NewBadRequest("Неверный параметр "+name, err)
	}
	return n, nil
}

// bindAndValidate - Bind и Validate одним вызовом, ошибки уже в формате API.
func bindAndValidate(c echo.Context, payload interface{}) error {
	if err := c.Bind(payload); err != nil {
		return apperrors.NewBadRequest("Неверный формат данных", err)
	}
	return c.Validate(payload)
}
