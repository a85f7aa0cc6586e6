package workflow

import (
	"errors"
	"fmt"
	"math"
	"time"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/entities"
)

var (
	ErrInvalidScore      = errors.New("оценка должна быть от 2 до 5")
	ErrOutsideEditWindow = errors.New("оценку за эту дату менять нельзя")
	ErrRoomNotOnFloor    = errors.New("комната не относится к этому этажу")
)

const DefaultRoomsPerFloor = 20

func ValidScore(score int) bool { return score >= 2 && score <= 5 }

// CheckEditWindow: существующую оценку правят только сегодня,
// новую можно поставить за сегодня или вчера. Роль не важна.
func CheckEditWindow(exists bool, date, today time.Time) error {
	date, today = Day(date), Day(today)
	if date.Equal(today) {
		return nil
	}
	if !exists && date.Equal(today.AddDate(0, 0, -1)) {
		return nil
	}
	return ErrOutsideEditWindow
}

// CheckRoomOnFloor - первая цифра комнаты совпадает с этажом.
func CheckRoomOnFloor(room string, floor int) error {
	f, ok := authz.RoomFloor(room)
	if !ok || f != floor {
		return fmt.Errorf("%w: %s, этаж %d", ErrRoomNotOnFloor, room, floor)
	}
	return nil
}

// Average - среднее по рабочим дням с округлением до десятых.
// Дни без оценки не считаются. ok=false, если оценок нет.
func Average(scores []entities.CleanlinessScore, cal Calendar) (avg float64, ok bool) {
	sum, n := 0, 0
	for _, s := range scores {
		if !cal.IsWorkingDay(s.Date) {
			continue
		}
		sum += s.Score
		n++
	}
	if n == 0 {
		return 0, false
	}
	return math.Round(float64(sum)/float64(n)*10) / 10, true
}

// DefaultRooms - {floor}01 … {floor}{count}.
func DefaultRooms(floor, count int) []string {
	if count <= 0 {
		count = DefaultRoomsPerFloor
	}
	rooms := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		rooms = append(rooms, fmt.Sprintf("%d%02d", floor, i))
	}
	return rooms
}

// IsRoomClosed - комната или весь этаж закрыты на эту дату.
func IsRoomClosed(settings entities.CleanlinessSettings, date time.Time, room string) bool {
	key := DateKey(date)
	for _, r := range settings.ClosedRooms[key] {
		if r == room {
			return true
		}
	}
	floor, ok := authz.RoomFloor(room)
	if !ok {
		return false
	}
	for _, f := range settings.ClosedFloors[key] {
		if f == floor {
			return true
		}
	}
	return false
}
