package authz

// Gatekeeper сводит проверки к одному вызову Can(actor, permission, target),
// чтобы middleware и сервисы не знали о конкретных функциях.
type Gatekeeper struct{}

func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{}
}

// Can - target зависит от действия: номер комнаты (string), этаж (int)
// или другой пользователь (Actor). Для действий без цели target = nil.
func (g *Gatekeeper) Can(actor Actor, permission string, target interface{}) bool {
	switch permission {
	case RoomsApprove:
		room, ok := target.(string)
		if !ok {
			// без комнаты - только те, кто может одобрять на любом этаже
			return actor.IsStaff() || actor.isCouncilLead() || len(actor.Positions.HeadedFloors()) > 0
		}
		return CanApproveRoom(actor, room)

	case WorkShiftsAssign:
		if t, ok := target.(Actor); ok {
			return CanAssignWorkShift(actor, t)
		}
		return CanAssignAnyWorkShift(actor)
	case WorkShiftsComplete:
		return CanCompleteWorkShift(actor)
	case WorkShiftsDelete:
		return CanDeleteWorkShift(actor)

	case CleanlinessEdit:
		floor, ok := target.(int)
		if !ok {
			return actor.IsStaff()
		}
		return CanEditCleanlinessFloor(actor, floor)
	case CleanlinessSettings:
		return CanManageCleanlinessSettings(actor)

	case AnnouncementsManage:
		return CanManageAnnouncements(actor)

	case TasksManage:
		return CanManageTasks(actor)
	case TasksView:
		return CanViewTasks(actor)

	case LogsView:
		return CanViewLogs(actor)

	case UsersManage, CourseSweepManual:
		return CanManageUsers(actor)
	case UsersModerate:
		if t, ok := target.(Actor); ok {
			return CanModerateUser(actor, t)
		}
		return CanManageUsers(actor)
	case UsersPositions:
		return CanAssignPositions(actor)
	case ReportsExport:
		return actor.IsStaff() || actor.isCouncilManager()
	}

	return false
}
