// internal/authz/permissions.go
package authz

// --- СПИСОК ВСЕХ ДЕЙСТВИЙ, КОТОРЫЕ ПРОВЕРЯЕТ GATEKEEPER ---

const (
	// Комнаты
	RoomsApprove = "rooms:approve"

	// Отработки
	WorkShiftsAssign   = "work_shifts:assign"
	WorkShiftsComplete = "work_shifts:complete"
	WorkShiftsDelete   = "work_shifts:delete"

	// Чистота
	CleanlinessEdit     = "cleanliness:edit"
	CleanlinessSettings = "cleanliness:settings"

	// Объявления
	AnnouncementsManage = "announcements:manage"

	// Совет
	TasksManage = "tasks:manage"
	TasksView   = "tasks:view"

	// Журнал
	LogsView = "logs:view"

	// Пользователи
	UsersManage       = "users:manage"
	UsersModerate     = "users:moderate"
	UsersPositions    = "users:positions"
	ReportsExport     = "reports:export"
	CourseSweepManual = "users:course_sweep"
)
