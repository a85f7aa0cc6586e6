package customvalidator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"dorm-portal/internal/authz"
)

var (
	roomRegex      = regexp.MustCompile(`^[0-9]{1,5}$`)
	floorRoomRegex = regexp.MustCompile(`^[2-5][0-9]{2}$`)
	groupRegex     = regexp.MustCompile(`^(\d{4}|\d-?[А-Яа-яЁёA-Za-z]{2,3})$`)
)

// RegisterCustomValidations регистрирует доменные правила общежития.
func RegisterCustomValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"room":       isRoomNumber,
		"floor_room": isFloorRoom,
		"group":      isStudyGroup,
		"score":      isScore,
		"position":   isPositionKey,
		"role":       isRole,
		"isodate":    isISODate,
		"audience":   isAudience,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func isRoomNumber(fl validator.FieldLevel) bool {
	return roomRegex.MatchString(fl.Field().String())
}

// isFloorRoom - комната жилого этажа 2-5, для таблицы чистоты.
func isFloorRoom(fl validator.FieldLevel) bool {
	return floorRoomRegex.MatchString(fl.Field().String())
}

// isStudyGroup: "2111" или цифра курса и 2-3 буквы ("2МОС", "2-МОС").
func isStudyGroup(fl validator.FieldLevel) bool {
	return groupRegex.MatchString(fl.Field().String())
}

func isScore(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= 2 && n <= 5
}

func isPositionKey(fl validator.FieldLevel) bool {
	_, err := authz.ParsePosition(fl.Field().String())
	return err == nil
}

func isRole(fl validator.FieldLevel) bool {
	return authz.Role(fl.Field().String()).Valid()
}

func isISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func isAudience(fl validator.FieldLevel) bool {
	return authz.ValidAudience(fl.Field().String())
}
