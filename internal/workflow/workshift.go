package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"

	"dorm-portal/internal/entities"
)

var (
	ErrNonPositiveDays  = errors.New("количество дней должно быть больше нуля")
	ErrExceedsRemaining = errors.New("недостаточно оставшихся дней")
	ErrEmptyReason      = errors.New("укажите причину отработки")
)

// MaxShiftDays - верхняя граница одной отработки.
const MaxShiftDays = 365

func ValidateAssignment(days int, reason string) error {
	if days <= 0 || days > MaxShiftDays {
		return ErrNonPositiveDays
	}
	if strings.TrimSpace(reason) == "" {
		return ErrEmptyReason
	}
	return nil
}

// ValidateCompletion: 0 < days <= days - completedDays. Лишнее не обрезается, а отклоняется.
func ValidateCompletion(shift entities.WorkShift, days int) error {
	if days <= 0 {
		return ErrNonPositiveDays
	}
	if remaining := shift.Remaining(); days > remaining {
		return fmt.Errorf("%w: запрошено %d, осталось %d", ErrExceedsRemaining, days, remaining)
	}
	return nil
}

// ApplyCompletion возвращает отработку после засчитывания days дней.
func ApplyCompletion(shift entities.WorkShift, days int, byID uuid.UUID, byName string, at time.Time) (entities.WorkShift, error) {
	if err := ValidateCompletion(shift, days); err != nil {
		return shift, err
	}
	shift.CompletedDays += days
	shift.CompletedBy = null.StringFrom(byID.String())
	shift.CompletedByName = null.StringFrom(byName)
	shift.CompletedAt = null.TimeFrom(at)
	return shift, nil
}

type Totals struct {
	Remaining int `json:"remaining"`
	Completed int `json:"completed"`
}

// SumTotals считает только активные отработки, архив сюда не передают.
func SumTotals(shifts []entities.WorkShift) Totals {
	var t Totals
	for _, s := range shifts {
		t.Remaining += s.Days - s.CompletedDays
		t.Completed += s.CompletedDays
	}
	return t
}

// ShouldArchive - у пользователя не осталось незакрытых отработок.
func ShouldArchive(active []entities.WorkShift) bool {
	if len(active) == 0 {
		return false
	}
	for _, s := range active {
		if !s.IsComplete() {
			return false
		}
	}
	return true
}
