package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/routes"
	"dorm-portal/pkg/config"
	"dorm-portal/pkg/database/postgresql"
	"dorm-portal/pkg/eventbus"
	applogger "dorm-portal/pkg/logger"
	"dorm-portal/pkg/metrics"
	"dorm-portal/pkg/service"
	"dorm-portal/pkg/websocket"
)

// App - зависимости, общие для всех команд dormctl.
type App struct {
	cfg    *config.Config
	db     *pgxpool.Pool
	redis  *redis.Client
	bus    *eventbus.Bus
	logger *zap.Logger
	ctx    context.Context
}

var app *App

func main() {
	rootCmd := &cobra.Command{
		Use:           "dormctl",
		Short:         "Обслуживание портала общежития",
		Long:          "Миграции, начальные данные, импорт жильцов, перевод курсов и выгрузка отчётов без запуска HTTP сервера.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(courseSweepCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}

func initApp(ctx context.Context) error {
	cfg := config.New()
	logger := applogger.NewLogger(config.LogConfig{Level: cfg.Log.Level})

	db, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return err
	}
	app = &App{cfg: cfg, db: db, logger: logger, ctx: ctx}
	return nil
}

// services поднимает сервисный слой так же, как сервер, но без HTTP и планировщика.
// Redis нужен только здесь, миграциям и сидерам он не требуется.
func (a *App) services() (*routes.Services, error) {
	a.redis = redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Address,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err := a.redis.Ping(a.ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis %s: %w", a.cfg.Redis.Address, err)
	}

	a.bus = eventbus.New(a.logger.Named("bus"))
	loggers := &routes.Loggers{Main: a.logger, Auth: a.logger, User: a.logger, Dorm: a.logger}
	jwtSvc := service.NewJWTService(a.cfg.JWT.SecretKey, a.cfg.JWT.AccessTokenTTL, a.cfg.JWT.RefreshTokenTTL, a.logger)

	return routes.NewServices(a.db, a.redis, jwtSvc, a.bus, websocket.NewHub(a.logger), metrics.New(),
		authz.NewGatekeeper(), a.cfg, loggers), nil
}

func (a *App) close() {
	if a == nil {
		return
	}
	if a.bus != nil {
		a.bus.Wait()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	a.db.Close()
	a.logger.Sync()
}
