package events

import (
	"fmt"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/entities"
	"dorm-portal/pkg/constants"
)

// SystemName - автор записей журнала от фоновых заданий.
const SystemName = "Система"

// Notice - уведомление одному пользователю.
type Notice struct {
	UserID  uuid.UUID
	Type    string
	Title   string
	Message string
}

// Notifier - событие, о котором нужно уведомить пользователей.
type Notifier interface {
	Notices() []Notice
}

// Auditable - событие, которое пишется в журнал.
type Auditable interface {
	LogEntries() []entities.LogEntry
}

func entry(action string, actor *authz.Actor, details string, target *entities.User) entities.LogEntry {
	e := entities.LogEntry{Action: action, UserName: SystemName, Details: details}
	if actor != nil {
		e.UserID = null.StringFrom(actor.ID.String())
		e.UserName = actor.Name
	}
	if target != nil {
		e.TargetUserID = null.StringFrom(target.ID.String())
		e.TargetUserName = null.StringFrom(target.Name)
	}
	return e
}

// ===== Комнаты =====

type RoomRequested struct {
	Actor      authz.Actor
	Room       string
	Superseded string
	FloorHeads []uuid.UUID
}

func (e RoomRequested) Name() string { return "room.requested" }

func (e RoomRequested) LogEntries() []entities.LogEntry {
	details := fmt.Sprintf("Заявка на комнату %s", e.Room)
	if e.Superseded != "" {
		details += fmt.Sprintf(" (заменяет заявку на %s)", e.Superseded)
	}
	return []entities.LogEntry{entry(constants.ActionRoomRequestCreated, &e.Actor, details, nil)}
}

func (e RoomRequested) Notices() []Notice {
	out := make([]Notice, 0, len(e.FloorHeads))
	for _, id := range e.FloorHeads {
		if id == e.Actor.ID {
			continue
		}
		out = append(out, Notice{
			UserID:  id,
			Type:    constants.NotificationRoomRequest,
			Title:   "Новая заявка на комнату",
			Message: fmt.Sprintf("%s просит заселение в комнату %s", e.Actor.Name, e.Room),
		})
	}
	return out
}

type RoomDecided struct {
	Actor    authz.Actor
	User     entities.User
	Room     string
	Approved bool
}

func (e RoomDecided) Name() string { return "room.decided" }

func (e RoomDecided) LogEntries() []entities.LogEntry {
	if e.Approved {
		return []entities.LogEntry{entry(constants.ActionRoomRequestApproved, &e.Actor, "Комната "+e.Room+" подтверждена", &e.User)}
	}
	return []entities.LogEntry{entry(constants.ActionRoomRequestRejected, &e.Actor, "Заявка на комнату "+e.Room+" отклонена", &e.User)}
}

func (e RoomDecided) Notices() []Notice {
	if e.Approved {
		return []Notice{{
			UserID:  e.User.ID,
			Type:    constants.NotificationRoomApproved,
			Title:   "Комната подтверждена",
			Message: fmt.Sprintf("Ваше проживание в комнате %s подтверждено", e.Room),
		}}
	}
	return []Notice{{
		UserID:  e.User.ID,
		Type:    constants.NotificationRoomRejected,
		Title:   "Заявка отклонена",
		Message: fmt.Sprintf("Заявка на комнату %s отклонена", e.Room),
	}}
}

// ===== Отработки =====

func shiftTarget(s entities.WorkShift) *entities.User {
	return &entities.User{ID: s.UserID, Name: s.UserName}
}

type WorkShiftAssigned struct {
	Actor authz.Actor
	Shift entities.WorkShift
}

func (e WorkShiftAssigned) Name() string { return "work_shift.assigned" }

func (e WorkShiftAssigned) LogEntries() []entities.LogEntry {
	details := fmt.Sprintf("Назначено %d дн.: %s", e.Shift.Days, e.Shift.Reason)
	return []entities.LogEntry{entry(constants.ActionWorkShiftAssigned, &e.Actor, details, shiftTarget(e.Shift))}
}

func (e WorkShiftAssigned) Notices() []Notice {
	return []Notice{{
		UserID:  e.Shift.UserID,
		Type:    constants.NotificationWorkShiftAssigned,
		Title:   "Назначена отработка",
		Message: fmt.Sprintf("Вам назначена отработка: %d дн. Причина: %s", e.Shift.Days, e.Shift.Reason),
	}}
}

type WorkShiftCompleted struct {
	Actor    authz.Actor
	Shift    entities.WorkShift
	Days     int
	Archived int64
}

func (e WorkShiftCompleted) Name() string { return "work_shift.completed" }

func (e WorkShiftCompleted) LogEntries() []entities.LogEntry {
	details := fmt.Sprintf("Засчитано %d дн. (%d из %d)", e.Days, e.Shift.CompletedDays, e.Shift.Days)
	out := []entities.LogEntry{entry(constants.ActionWorkShiftCompleted, &e.Actor, details, shiftTarget(e.Shift))}
	if e.Archived > 0 {
		out = append(out, entry(constants.ActionWorkShiftArchived, &e.Actor,
			fmt.Sprintf("В архив перенесено отработок: %d", e.Archived), shiftTarget(e.Shift)))
	}
	return out
}

func (e WorkShiftCompleted) Notices() []Notice {
	msg := fmt.Sprintf("Засчитано %d дн. отработки, осталось %d", e.Days, e.Shift.Remaining())
	if e.Archived > 0 {
		msg = fmt.Sprintf("Засчитано %d дн. Все отработки выполнены", e.Days)
	}
	return []Notice{{
		UserID:  e.Shift.UserID,
		Type:    constants.NotificationWorkShiftCompleted,
		Title:   "Отработка засчитана",
		Message: msg,
	}}
}

type WorkShiftDeleted struct {
	Actor authz.Actor
	Shift entities.WorkShift
}

func (e WorkShiftDeleted) Name() string { return "work_shift.deleted" }

func (e WorkShiftDeleted) LogEntries() []entities.LogEntry {
	details := fmt.Sprintf("Удалена отработка #%d (%d дн., выполнено %d): %s", e.Shift.ID, e.Shift.Days, e.Shift.CompletedDays, e.Shift.Reason)
	return []entities.LogEntry{entry(constants.ActionWorkShiftDeleted, &e.Actor, details, shiftTarget(e.Shift))}
}

func (e WorkShiftDeleted) Notices() []Notice {
	return []Notice{{
		UserID:  e.Shift.UserID,
		Type:    constants.NotificationWorkShiftDeleted,
		Title:   "Отработка снята",
		Message: fmt.Sprintf("Отработка \"%s\" снята", e.Shift.Reason),
	}}
}

// ===== Пользователи =====

type UserRegistered struct {
	User entities.User
}

func (e UserRegistered) Name() string { return "user.registered" }

func (e UserRegistered) LogEntries() []entities.LogEntry {
	actor := authz.ActorFromUser(&e.User)
	return []entities.LogEntry{entry(constants.ActionUserRegistered, &actor, e.User.Email, nil)}
}

type RoleChanged struct {
	Actor   authz.Actor
	Target  entities.User
	OldRole authz.Role
	NewRole authz.Role
}

func (e RoleChanged) Name() string { return "user.role_changed" }

// LogEntries: понижение до участника - снятие роли, остальное - назначение.
func (e RoleChanged) LogEntries() []entities.LogEntry {
	if e.NewRole == authz.RoleMember {
		return []entities.LogEntry{entry(constants.ActionRoleRemoved, &e.Actor, "Снята роль: "+e.OldRole.DisplayName(), &e.Target)}
	}
	return []entities.LogEntry{entry(constants.ActionRoleAssigned, &e.Actor, "Назначена роль: "+e.NewRole.DisplayName(), &e.Target)}
}

type PositionsChanged struct {
	Actor   authz.Actor
	Target  entities.User
	Added   []authz.Position
	Removed []authz.Position
}

func (e PositionsChanged) Name() string { return "user.positions_changed" }

func (e PositionsChanged) LogEntries() []entities.LogEntry {
	out := make([]entities.LogEntry, 0, len(e.Added)+len(e.Removed))
	for _, p := range e.Added {
		out = append(out, entry(constants.ActionPositionAssigned, &e.Actor, p.DisplayName(), &e.Target))
	}
	for _, p := range e.Removed {
		out = append(out, entry(constants.ActionPositionRemoved, &e.Actor, p.DisplayName(), &e.Target))
	}
	return out
}

func (e PositionsChanged) Notices() []Notice {
	if len(e.Added) == 0 {
		return nil
	}
	names := make([]string, 0, len(e.Added))
	for _, p := range e.Added {
		names = append(names, p.DisplayName())
	}
	return []Notice{{
		UserID:  e.Target.ID,
		Type:    constants.NotificationPositionAssigned,
		Title:   "Новая должность",
		Message: "Вы назначены: " + strings.Join(names, ", "),
	}}
}

type UserModerated struct {
	Actor  authz.Actor
	Target entities.User
	Action string
}

func (e UserModerated) Name() string { return "user.moderated" }

func (e UserModerated) LogEntries() []entities.LogEntry {
	return []entities.LogEntry{entry(e.Action, &e.Actor, e.Target.Email, &e.Target)}
}

// CourseSwept - решение ежегодного перевода по одному студенту.
type CourseSwept struct {
	User     entities.User
	OldGroup string
	NewGroup string
	Deleted  bool
}

func (e CourseSwept) Name() string { return "user.course_swept" }

func (e CourseSwept) LogEntries() []entities.LogEntry {
	if e.Deleted {
		return []entities.LogEntry{entry(constants.ActionUserGraduated, nil,
			fmt.Sprintf("Обучение завершено, группа %s", e.OldGroup), &e.User)}
	}
	return []entities.LogEntry{entry(constants.ActionCoursePromoted, nil,
		fmt.Sprintf("Группа %s -> %s", e.OldGroup, e.NewGroup), &e.User)}
}

// ===== Объявления, задачи, чистота =====

// AnnouncementChanged: Actor == nil для автоматической архивации.
type AnnouncementChanged struct {
	Actor        *authz.Actor
	Announcement entities.Announcement
	Action       string
}

func (e AnnouncementChanged) Name() string { return "announcement.changed" }

func (e AnnouncementChanged) LogEntries() []entities.LogEntry {
	details := fmt.Sprintf("#%d %s [%s]", e.Announcement.ID, e.Announcement.Title, e.Announcement.Audience)
	return []entities.LogEntry{entry(e.Action, e.Actor, details, nil)}
}

type TaskChanged struct {
	Actor  authz.Actor
	Task   entities.CouncilTask
	Action string
	Notify []uuid.UUID
}

func (e TaskChanged) Name() string { return "task.changed" }

func (e TaskChanged) LogEntries() []entities.LogEntry {
	details := fmt.Sprintf("#%d %s", e.Task.ID, e.Task.Title)
	if e.Action == constants.ActionTaskStatusChanged {
		details += ": " + e.Task.Status
	}
	return []entities.LogEntry{entry(e.Action, &e.Actor, details, nil)}
}

func (e TaskChanged) Notices() []Notice {
	out := make([]Notice, 0, len(e.Notify))
	for _, id := range e.Notify {
		if id == e.Actor.ID {
			continue
		}
		out = append(out, Notice{
			UserID:  id,
			Type:    constants.NotificationTaskAssigned,
			Title:   "Новая задача совета",
			Message: e.Task.Title,
		})
	}
	return out
}

type CleanlinessChanged struct {
	Actor   authz.Actor
	Action  string
	Details string
}

func (e CleanlinessChanged) Name() string { return "cleanliness.changed" }

func (e CleanlinessChanged) LogEntries() []entities.LogEntry {
	return []entities.LogEntry{entry(e.Action, &e.Actor, e.Details, nil)}
}

// Names - все события, на которые подписываются слушатели журнала и уведомлений.
var Names = []string{
	RoomRequested{}.Name(),
	RoomDecided{}.Name(),
	WorkShiftAssigned{}.Name(),
	WorkShiftCompleted{}.Name(),
	WorkShiftDeleted{}.Name(),
	UserRegistered{}.Name(),
	RoleChanged{}.Name(),
	PositionsChanged{}.Name(),
	UserModerated{}.Name(),
	CourseSwept{}.Name(),
	AnnouncementChanged{}.Name(),
	TaskChanged{}.Name(),
	CleanlinessChanged{}.Name(),
}
