package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/listeners"
	"dorm-portal/internal/repositories"
	"dorm-portal/internal/services"
	"dorm-portal/pkg/config"
	"dorm-portal/pkg/eventbus"
	"dorm-portal/pkg/metrics"
	"dorm-portal/pkg/service"
	"dorm-portal/pkg/websocket"
)

type Loggers struct {
	Main *zap.Logger
	Auth *zap.Logger
	User *zap.Logger
	Dorm *zap.Logger
}

// Services - всё, что нужно роутеру и планировщику.
type Services struct {
	Auth         services.AuthServiceInterface
	User         services.UserServiceInterface
	Room         services.RoomServiceInterface
	WorkShift    services.WorkShiftServiceInterface
	Cleanliness  services.CleanlinessServiceInterface
	Announcement services.AnnouncementServiceInterface
	Task         services.TaskServiceInterface
	Notification services.NotificationServiceInterface
	Log          services.LogServiceInterface
	Report       services.ReportServiceInterface
	Course       services.CourseServiceInterface
	Import       services.ResidentImporterInterface
}

// NewServices собирает репозитории и сервисы и подписывает слушателей на шину.
func NewServices(
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	bus *eventbus.Bus,
	hub *websocket.Hub,
	m *metrics.Metrics,
	gk *authz.Gatekeeper,
	cfg *config.Config,
	loggers *Loggers,
) *Services {
	txManager := repositories.NewTxManager(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn, loggers.User)
	shiftRepo := repositories.NewWorkShiftRepository(dbConn, loggers.Dorm)
	cleanlinessRepo := repositories.NewCleanlinessRepository(dbConn, loggers.Dorm)
	announcementRepo := repositories.NewAnnouncementRepository(dbConn, loggers.Dorm)
	taskRepo := repositories.NewCouncilTaskRepository(dbConn, loggers.Dorm)
	notificationRepo := repositories.NewNotificationRepository(dbConn, loggers.Main)
	logRepo := repositories.NewLogRepository(dbConn, loggers.Main)

	// --- СЕРВИСЫ ---
	cleanliness := services.NewCleanlinessService(cleanlinessRepo, cacheRepo, txManager, bus, m, cfg.Dorm, loggers.Dorm)
	notification := services.NewNotificationService(
		notificationRepo,
		services.NewWebSocketNotificationService(hub, loggers.Main),
		m,
		loggers.Main,
	)
	logService := services.NewLogService(logRepo, loggers.Main)

	svc := &Services{
		Auth:         services.NewAuthService(userRepo, cacheRepo, jwtSvc, bus, m, cfg.Auth, loggers.Auth),
		User:         services.NewUserService(userRepo, cacheRepo, txManager, bus, loggers.User),
		Room:         services.NewRoomService(userRepo, cacheRepo, txManager, bus, m, loggers.Dorm),
		WorkShift:    services.NewWorkShiftService(shiftRepo, userRepo, txManager, bus, m, loggers.Dorm),
		Cleanliness:  cleanliness,
		Announcement: services.NewAnnouncementService(announcementRepo, bus, loggers.Dorm),
		Task:         services.NewTaskService(taskRepo, userRepo, txManager, bus, loggers.Dorm),
		Notification: notification,
		Log:          logService,
		Report:       services.NewReportService(shiftRepo, cleanliness, gk, loggers.Dorm),
		Course:       services.NewCourseService(userRepo, cacheRepo, bus, m, loggers.User),
		Import:       services.NewResidentImporter(userRepo, bus, loggers.User),
	}

	// --- СЛУШАТЕЛИ ---
	listeners.NewNotificationListener(notification, loggers.Main).Register(bus)
	listeners.NewAuditListener(logService, loggers.Main).Register(bus)

	return svc
}
