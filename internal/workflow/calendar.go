package workflow

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"dorm-portal/internal/entities"
)

const DateLayout = "2006-01-02"

// DefaultNonWorkingDays - пятница, суббота, воскресенье (Пн=1 … Вс=7).
var DefaultNonWorkingDays = []int{5, 6, 7}

var isoWeekdays = map[int]rrule.Weekday{
	1: rrule.MO, 2: rrule.TU, 3: rrule.WE, 4: rrule.TH, 5: rrule.FR, 6: rrule.SA, 7: rrule.SU,
}

func DateKey(t time.Time) string { return t.Format(DateLayout) }

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// Day обрезает время до полуночи в том же часовом поясе.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ISOWeekday: понедельник = 1, воскресенье = 7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// Calendar решает, рабочий ли день для проверки чистоты.
// Точечные переопределения важнее правила по дням недели.
type Calendar struct {
	NonWorkingWeekdays  []int
	Overrides           map[string]bool
	GeneralCleaningDay  int
	GeneralCleaningRule string
	Location            *time.Location
}

func NewCalendar(settings entities.CleanlinessSettings, loc *time.Location) Calendar {
	nonWorking := settings.DefaultNonWorkingDays
	if nonWorking == nil {
		nonWorking = DefaultNonWorkingDays
	}
	if loc == nil {
		loc = time.UTC
	}
	cal := Calendar{
		NonWorkingWeekdays: nonWorking,
		Overrides:          settings.WorkingDays,
		Location:           loc,
	}
	if settings.GeneralCleaningDay.Valid {
		cal.GeneralCleaningDay = settings.GeneralCleaningDay.Int
	}
	return cal
}

func (c Calendar) IsWorkingDay(d time.Time) bool {
	if v, ok := c.Overrides[DateKey(d)]; ok {
		return v
	}
	wd := ISOWeekday(d)
	for _, nw := range c.NonWorkingWeekdays {
		if nw == wd {
			return false
		}
	}
	return true
}

func (c Calendar) workingWeekdays() []rrule.Weekday {
	closed := make(map[int]bool, len(c.NonWorkingWeekdays))
	for _, d := range c.NonWorkingWeekdays {
		closed[d] = true
	}
	var out []rrule.Weekday
	for d := 1; d <= 7; d++ {
		if !closed[d] {
			out = append(out, isoWeekdays[d])
		}
	}
	return out
}

// WorkingDays - рабочие дни в [from, to] с учётом переопределений.
func (c Calendar) WorkingDays(from, to time.Time) ([]time.Time, error) {
	from, to = Day(from.In(c.loc())), Day(to.In(c.loc()))
	if to.Before(from) {
		return nil, nil
	}

	set := make(map[string]time.Time)
	if weekdays := c.workingWeekdays(); len(weekdays) > 0 {
		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:      rrule.DAILY,
			Dtstart:   from,
			Until:     to,
			Byweekday: weekdays,
		})
		if err != nil {
			return nil, fmt.Errorf("календарь: %w", err)
		}
		for _, d := range rule.All() {
			set[DateKey(d)] = Day(d)
		}
	}

	for key, working := range c.Overrides {
		d, err := ParseDate(key, c.loc())
		if err != nil || d.Before(from) || d.After(to) {
			continue
		}
		if working {
			set[key] = d
		} else {
			delete(set, key)
		}
	}

	out := make([]time.Time, 0, len(set))
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if v, ok := set[DateKey(d)]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// GeneralCleaningDates - дни генеральной уборки в [from, to]: по RRULE из настроек
// или еженедельно в GeneralCleaningDay.
func (c Calendar) GeneralCleaningDates(from, to time.Time) ([]time.Time, error) {
	from, to = Day(from.In(c.loc())), Day(to.In(c.loc()))

	var rule *rrule.RRule
	var err error
	switch {
	case c.GeneralCleaningRule != "":
		rule, err = rrule.StrToRRule(c.GeneralCleaningRule)
		if err == nil {
			rule.DTStart(from)
		}
	case c.GeneralCleaningDay >= 1 && c.GeneralCleaningDay <= 7:
		rule, err = rrule.NewRRule(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Dtstart:   from,
			Byweekday: []rrule.Weekday{isoWeekdays[c.GeneralCleaningDay]},
		})
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("правило генеральной уборки: %w", err)
	}

	var out []time.Time
	for _, d := range rule.Between(from, to.Add(24*time.Hour-time.Nanosecond), true) {
		out = append(out, Day(d))
	}
	return out, nil
}

// WeekDates - понедельник…воскресенье недели со смещением offset от текущей.
func WeekDates(now time.Time, offset int) []time.Time {
	today := Day(now)
	monday := today.AddDate(0, 0, -(ISOWeekday(today) - 1)+offset*7)
	out := make([]time.Time, 7)
	for i := range out {
		out[i] = monday.AddDate(0, 0, i)
	}
	return out
}

// MonthDates - все дни месяца со смещением offset от текущего.
func MonthDates(now time.Time, offset int) []time.Time {
	first := time.Date(now.Year(), now.Month()+time.Month(offset), 1, 0, 0, 0, 0, now.Location())
	var out []time.Time
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
