// pkg/constants/constants.go
package constants

//============== LOG ACTIONS ==============

// Действия журнала. Значения хранятся в БД, менять нельзя.
const (
	ActionRoomRequestCreated  = "room_request_created"
	ActionRoomRequestApproved = "room_request_approved"
	ActionRoomRequestRejected = "room_request_rejected"

	ActionAnnouncementCreated  = "announcement_created"
	ActionAnnouncementUpdated  = "announcement_updated"
	ActionAnnouncementDeleted  = "announcement_deleted"
	ActionAnnouncementArchived = "announcement_archived"

	ActionTaskCreated       = "task_created"
	ActionTaskUpdated       = "task_updated"
	ActionTaskStatusChanged = "task_status_changed"
	ActionTaskDeleted       = "task_deleted"

	ActionRoleAssigned     = "role_assigned"
	ActionRoleRemoved      = "role_removed"
	ActionPositionAssigned = "position_assigned"
	ActionPositionRemoved  = "position_removed"

	ActionWorkShiftAssigned  = "work_shift_assigned"
	ActionWorkShiftCompleted = "work_shift_completed"
	ActionWorkShiftDeleted   = "work_shift_deleted"
	ActionWorkShiftArchived  = "work_shift_archived"

	ActionCleanlinessScoreSet      = "cleanliness_score_set"
	ActionCleanlinessScoreDeleted  = "cleanliness_score_deleted"
	ActionCleanlinessSettingsSaved = "cleanliness_settings_updated"

	ActionUserRegistered = "user_registered"
	ActionUserUpdated    = "user_updated"
	ActionUserFrozen     = "user_frozen"
	ActionUserUnfrozen   = "user_unfrozen"
	ActionUserDeleted    = "user_deleted"
	ActionCoursePromoted = "course_promoted"
	ActionUserGraduated  = "user_graduated"
)

//============== NOTIFICATION TYPES ==============

const (
	NotificationRoomRequest        = "room_request"
	NotificationRoomApproved       = "room_approved"
	NotificationRoomRejected       = "room_rejected"
	NotificationPositionAssigned   = "position_assigned"
	NotificationTaskAssigned       = "task_assigned"
	NotificationWorkShiftAssigned  = "work_shift_assigned"
	NotificationWorkShiftCompleted = "work_shift_completed"
	NotificationWorkShiftDeleted   = "work_shift_deleted"
)

//============== CACHE KEYS ==============

const (
	// Формат: lockout:<email> -> "locked"
	CacheKeyLockout = "lockout:%s"

	// Формат: login_attempts:<email> -> count
	CacheKeyLoginAttempts = "login_attempts:%s"

	// Настройки чистоты целиком, JSON.
	CacheKeyCleanlinessSettings = "cleanliness:settings"

	// Формат: actor:<userID> -> JSON актора для middleware
	CacheKeyActor = "actor:%s"
)

//============== METRIC LABELS ==============

const (
	DeliveryWebsocket = "websocket"
	DeliveryStored    = "stored"
)
