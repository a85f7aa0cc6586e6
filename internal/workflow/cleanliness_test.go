package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dorm-portal/internal/entities"
)

func TestCheckEditWindow(t *testing.T) {
	today := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	twoDaysAgo := today.AddDate(0, 0, -2)

	tests := []struct {
		name    string
		exists  bool
		date    time.Time
		wantErr bool
	}{
		{"новая за сегодня", false, today, false},
		{"правка за сегодня", true, today, false},
		{"новая за вчера", false, yesterday, false},
		{"правка за вчера", true, yesterday, true},
		{"правка позавчерашней", true, twoDaysAgo, true},
		{"новая позавчерашняя", false, twoDaysAgo, true},
		{"завтра", false, today.AddDate(0, 0, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckEditWindow(tt.exists, tt.date, today)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutsideEditWindow)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAverageSkipsNonWorkingDays(t *testing.T) {
	cal := NewCalendar(entities.CleanlinessSettings{}, time.UTC)
	// 2025-03-10 понедельник, 2025-03-11 вторник, 2025-03-14 пятница
	scores := []entities.CleanlinessScore{
		{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Score: 5},
		{Date: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), Score: 3},
		{Date: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), Score: 2},
	}
	avg, ok := Average(scores, cal)
	assert.True(t, ok)
	assert.Equal(t, 4.0, avg)

	_, ok = Average(nil, cal)
	assert.False(t, ok)
}

func TestAverageRoundsToTenth(t *testing.T) {
	cal := NewCalendar(entities.CleanlinessSettings{}, time.UTC)
	scores := []entities.CleanlinessScore{
		{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Score: 5},
		{Date: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), Score: 5},
		{Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), Score: 4},
	}
	avg, _ := Average(scores, cal)
	assert.Equal(t, 4.7, avg)
}

func TestCheckRoomOnFloor(t *testing.T) {
	assert.NoError(t, CheckRoomOnFloor("305", 3))
	assert.ErrorIs(t, CheckRoomOnFloor("405", 3), ErrRoomNotOnFloor)
	assert.ErrorIs(t, CheckRoomOnFloor("", 3), ErrRoomNotOnFloor)
}

func TestDefaultRoomsAndClosures(t *testing.T) {
	rooms := DefaultRooms(3, 0)
	assert.Len(t, rooms, DefaultRoomsPerFloor)
	assert.Equal(t, "301", rooms[0])
	assert.Equal(t, "320", rooms[19])

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	settings := entities.CleanlinessSettings{
		ClosedRooms:  map[string][]string{"2025-03-10": {"214"}},
		ClosedFloors: map[string][]int{"2025-03-10": {5}},
	}
	assert.True(t, IsRoomClosed(settings, day, "214"))
	assert.True(t, IsRoomClosed(settings, day, "507"))
	assert.False(t, IsRoomClosed(settings, day, "215"))
	assert.False(t, IsRoomClosed(settings, day.AddDate(0, 0, 1), "214"))
}
