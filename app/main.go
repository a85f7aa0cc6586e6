package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/routes"
	"dorm-portal/internal/scheduler"
	"dorm-portal/pkg/config"
	"dorm-portal/pkg/database/migrations"
	"dorm-portal/pkg/database/postgresql"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/eventbus"
	applogger "dorm-portal/pkg/logger"
	"dorm-portal/pkg/metrics"
	"dorm-portal/pkg/middleware"
	"dorm-portal/pkg/service"
	"dorm-portal/pkg/utils"
	"dorm-portal/pkg/validation"
	"dorm-portal/pkg/websocket"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer logger.Sync()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("Паника при обработке запроса",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.Frontend.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))
	e.Use(middleware.InjectLogger(logger))

	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("Не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	if err := migrations.Up(ctx, dbConn); err != nil {
		logger.Fatal("Не удалось применить миграции", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("Не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	defer redisClient.Close()

	loggers := &routes.Loggers{
		Main: logger,
		Auth: logger.Named("auth"),
		User: logger.Named("user"),
		Dorm: logger.Named("dorm"),
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger)
	bus := eventbus.New(logger.Named("bus"))
	hub := websocket.NewHub(logger.Named("ws"))
	go hub.Run(ctx)
	m := metrics.New()
	gk := authz.NewGatekeeper()

	svc := routes.NewServices(dbConn, redisClient, jwtSvc, bus, hub, m, gk, cfg, loggers)
	routes.InitRouter(e, svc, jwtSvc, gk, hub, m, cfg, loggers)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(cfg.Dorm.Location(), logger.Named("scheduler"))
		err := sched.Register(cfg.Scheduler, scheduler.Jobs{
			ArchiveAnnouncements: svc.Announcement.ArchiveExpired,
			CourseSweep: func(ctx context.Context) (int, error) {
				res, err := svc.Course.Sweep(ctx)
				if err != nil {
					return 0, err
				}
				return res.Promoted + res.Deleted, nil
			},
		})
		if err != nil {
			logger.Fatal("Ошибка настройки планировщика", zap.Error(err))
		}
		sched.Start()
	}

	go func() {
		logger.Info("Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Останавливаем сервер")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки HTTP сервера", zap.Error(err))
	}
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	// уведомления и журнал пишутся асинхронно
	bus.Wait()
}
