package dto

import "dorm-portal/internal/entities"

type SetScoreDTO struct {
	Floor int    `json:"floor" validate:"required,min=2,max=5"`
	Date  string `json:"date" validate:"required,isodate"`
	Room  string `json:"room" validate:"required,floor_room"`
	Score int    `json:"score" validate:"required,score"`
}

type DeleteScoreDTO struct {
	Floor int    `json:"floor" validate:"required,min=2,max=5"`
	Date  string `json:"date" validate:"required,isodate"`
	Room  string `json:"room" validate:"required,floor_room"`
}

type GridDayDTO struct {
	Date            string `json:"date"`
	Working         bool   `json:"working"`
	GeneralCleaning bool   `json:"general_cleaning"`
}

type GridCellDTO struct {
	Score     int    `json:"score,omitempty"`
	Inspector string `json:"inspector,omitempty"`
	Closed    bool   `json:"closed,omitempty"`
}

// FloorGridDTO - таблица этажа: строки - комнаты, столбцы - даты.
type FloorGridDTO struct {
	Floor    int                               `json:"floor"`
	Rooms    []string                          `json:"rooms"`
	Days     []GridDayDTO                      `json:"days"`
	Cells    map[string]map[string]GridCellDTO `json:"cells"`
	Averages map[string]*float64               `json:"averages"`
	Closed   bool                              `json:"floor_closed,omitempty"`
}

type RoomAverageDTO struct {
	Room    string   `json:"room"`
	Average *float64 `json:"average"`
	Scores  int      `json:"scores"`
}

type CleanlinessSettingsDTO struct {
	Rooms                 map[string][]string `json:"rooms" validate:"omitempty,dive,dive,floor_room"`
	WorkingDays           map[string]bool     `json:"workingDays" validate:"omitempty,dive,keys,isodate,endkeys"`
	ClosedRooms           map[string][]string `json:"closedRooms" validate:"omitempty,dive,keys,isodate,endkeys,dive,floor_room"`
	ClosedFloors          map[string][]int    `json:"closedFloors" validate:"omitempty,dive,keys,isodate,endkeys,dive,min=2,max=5"`
	DefaultNonWorkingDays []int               `json:"defaultNonWorkingDays" validate:"omitempty,dive,min=1,max=7"`
	GeneralCleaningDay    *int                `json:"generalCleaningDay" validate:"omitempty,min=1,max=7"`
}

func (d CleanlinessSettingsDTO) ToEntity() entities.CleanlinessSettings {
	s := entities.CleanlinessSettings{
		Rooms:                 d.Rooms,
		WorkingDays:           d.WorkingDays,
		ClosedRooms:           d.ClosedRooms,
		ClosedFloors:          d.ClosedFloors,
		DefaultNonWorkingDays: d.DefaultNonWorkingDays,
	}
	if d.GeneralCleaningDay != nil {
		s.GeneralCleaningDay.SetValid(*d.GeneralCleaningDay)
	}
	return s
}
