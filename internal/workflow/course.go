package workflow

import "time"

type CourseAction int

const (
	CourseKeep CourseAction = iota
	CoursePromote
	CourseDelete
)

func (a CourseAction) String() string {
	switch a {
	case CoursePromote:
		return "promote"
	case CourseDelete:
		return "delete"
	}
	return "keep"
}

type CourseDecision struct {
	Action        CourseAction
	Group         string
	AdjustedYears int
}

// AcademicYearsSince - полных учебных лет с регистрации.
// Курс сменяется 31 августа, до этой даты текущий год не засчитывается.
func AcademicYearsSince(registeredAt, now time.Time) int {
	years := now.Year() - registeredAt.Year()
	afterBoundary := now.Month() > time.August || (now.Month() == time.August && now.Day() >= 31)
	if !afterBoundary {
		years--
	}
	return years
}

// EvaluateCourse решает судьбу студента. group - группа на момент регистрации,
// поэтому повторный вызов в том же учебном году даёт тот же результат.
func EvaluateCourse(group string, studyYears int, registeredAt, now time.Time) CourseDecision {
	if group == "" || studyYears <= 0 || registeredAt.IsZero() {
		return CourseDecision{Action: CourseKeep, Group: group}
	}
	c := group[0]
	if c < '0' || c > '9' {
		return CourseDecision{Action: CourseKeep, Group: group}
	}
	course := int(c - '0')

	years := AcademicYearsSince(registeredAt, now)
	if years >= studyYears {
		return CourseDecision{Action: CourseDelete, AdjustedYears: years}
	}
	if years <= 0 {
		return CourseDecision{Action: CourseKeep, Group: group, AdjustedYears: years}
	}

	next := course + years
	// курс за пределами срока обучения считается выпуском;
	// номер курса - одна цифра в начале группы
	if next > studyYears || next > 9 {
		return CourseDecision{Action: CourseDelete, AdjustedYears: years}
	}
	return CourseDecision{
		Action:        CoursePromote,
		Group:         string(rune('0'+next)) + group[1:],
		AdjustedYears: years,
	}
}

// RebaseEntryGroup - группа на момент регистрации для группы, исправленной вручную.
// Курс сдвигается назад на прошедшие учебные годы, но не ниже первого.
func RebaseEntryGroup(group string, registeredAt, now time.Time) string {
	if group == "" || group[0] < '0' || group[0] > '9' {
		return group
	}
	course := int(group[0]-'0') - AcademicYearsSince(registeredAt, now)
	if course < 1 {
		course = 1
	}
	return string(rune('0'+course)) + group[1:]
}
