package authz

import (
	"github.com/google/uuid"

	"dorm-portal/internal/entities"
)

// Actor - всё, что нужно политике доступа о пользователе.
type Actor struct {
	ID        uuid.UUID
	Name      string
	Role      Role
	Positions Positions
	Room      string
}

// ActorFromUser: для прав учитывается только подтверждённая комната.
func ActorFromUser(u *entities.User) Actor {
	if u == nil {
		return Actor{Role: RoleUnknown}
	}
	room := ""
	if u.RoomConfirmed {
		room = u.Room.String
	}
	return Actor{
		ID:        u.ID,
		Name:      u.Name,
		Role:      ParseRole(u.Role),
		Positions: MustParsePositions(u.Positions),
		Room:      room,
	}
}

func (a Actor) IsStaff() bool { return IsStaff(a.Role) }

// isCouncilLead - председатель или его заместитель.
func (a Actor) isCouncilLead() bool {
	return a.Positions.Has(KindChairman) || a.Positions.Has(KindViceChairman)
}

// isCouncilManager - руководство совета, включая секретаря.
func (a Actor) isCouncilManager() bool {
	return a.isCouncilLead() || a.Positions.Has(KindSecretary)
}

// RoomFloor - этаж по первой цифре номера комнаты. Жилые этажи 2-5.
func RoomFloor(room string) (int, bool) {
	if room == "" {
		return 0, false
	}
	c := room[0]
	if c < '0' || c > '9' {
		return 0, false
	}
	floor := int(c - '0')
	return floor, ValidFloor(floor)
}

func CanApproveRoom(actor Actor, room string) bool {
	if actor.IsStaff() || actor.isCouncilLead() {
		return true
	}
	floor, ok := RoomFloor(room)
	if !ok {
		return false
	}
	return actor.Positions.HeadsFloor(floor)
}

// CanAssignWorkShift: руководство и модераторов отработками не назначают.
func CanAssignWorkShift(actor, target Actor) bool {
	if target.Role == RoleManager || target.Role == RoleAdmin {
		return false
	}
	if actor.IsStaff() || actor.isCouncilManager() {
		return true
	}
	floor, ok := RoomFloor(target.Room)
	if !ok {
		return false
	}
	return actor.Positions.HeadsFloor(floor)
}

// CanAssignAnyWorkShift - есть ли у актора право назначать хоть кому-то.
func CanAssignAnyWorkShift(actor Actor) bool {
	return actor.IsStaff() || actor.isCouncilManager() || len(actor.Positions.HeadedFloors()) > 0
}

func CanCompleteWorkShift(actor Actor) bool {
	return actor.IsStaff() || actor.isCouncilManager() || actor.Positions.Has(KindHouseholdSector)
}

func CanDeleteWorkShift(actor Actor) bool {
	return actor.IsStaff() || actor.isCouncilManager()
}

func CanEditCleanlinessFloor(actor Actor, floor int) bool {
	if actor.IsStaff() {
		return true
	}
	if !ValidFloor(floor) {
		return false
	}
	return actor.Positions.CleansFloor(floor) || actor.Positions.HeadsFloor(floor)
}

func CanManageCleanlinessSettings(actor Actor) bool {
	return actor.IsStaff()
}

func CanManageTasks(actor Actor) bool {
	return actor.IsStaff() || actor.isCouncilManager()
}

// CanViewTasks - задачи совета видны любому, у кого есть должность.
func CanViewTasks(actor Actor) bool {
	return CanManageTasks(actor) || len(actor.Positions) > 0
}

func CanViewLogs(actor Actor) bool {
	return actor.IsStaff() || actor.isCouncilLead()
}

func CanManageUsers(actor Actor) bool {
	return actor.IsStaff()
}

// CanChangeRole: нельзя трогать равного или старшего и нельзя выдать роль своего уровня.
func CanChangeRole(actor, target Actor, newRole Role) bool {
	if !newRole.Valid() || actor.ID == target.ID {
		return false
	}
	return CanManage(actor.Role, target.Role) && CanManage(actor.Role, newRole)
}

func CanAssignPositions(actor Actor) bool {
	return actor.IsStaff() || actor.Positions.Has(KindChairman)
}

// CanModerateUser - заморозка и удаление.
func CanModerateUser(actor, target Actor) bool {
	if actor.ID == target.ID {
		return false
	}
	return CanManageUsers(actor) && CanManage(actor.Role, target.Role)
}
