package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/pkg/database/migrations"
	"dorm-portal/pkg/utils"
	"dorm-portal/seeders"
)

// systemActor - от его имени dormctl выгружает отчёты и пишет журнал.
var systemActor = authz.Actor{ID: uuid.Nil, Name: "dormctl", Role: authz.RoleManager}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Миграции схемы базы",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Применить новые миграции",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrations.Up(app.ctx, app.db)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Откатить последнюю миграцию",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrations.Down(app.ctx, app.db)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Показать состояние миграций",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrations.Status(app.ctx, app.db)
			},
		},
	)
	return cmd
}

func seedCmd() *cobra.Command {
	var demo bool
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Создать менеджера и, по желанию, демо-данные",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("SEED_MANAGER_PASSWORD")
			}
			if err := seeders.SeedManager(app.ctx, app.db, name, email, password, app.logger); err != nil {
				return err
			}
			if demo {
				return seeders.SeedDemo(app.ctx, app.db, app.logger)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "Загрузить совет и жильцов для демонстрации")
	cmd.Flags().StringVar(&name, "manager-name", "Менеджер общежития", "Имя менеджера")
	cmd.Flags().StringVar(&email, "manager-email", "manager@dorm.local", "Email менеджера")
	cmd.Flags().StringVar(&password, "manager-password", "", "Пароль менеджера (или SEED_MANAGER_PASSWORD)")
	return cmd
}

func courseSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "course-sweep",
		Short: "Перевести студентов на следующий курс и удалить выпускников",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.services()
			if err != nil {
				return err
			}
			res, err := svc.Course.Sweep(utils.WithActor(app.ctx, systemActor))
			if err != nil {
				return err
			}
			app.logger.Info("Перевод курсов завершён",
				zap.Int("checked", res.Checked),
				zap.Int("promoted", res.Promoted),
				zap.Int("deleted", res.Deleted),
			)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Выгрузить отчёты в xlsx",
	}

	var shiftsOut string
	shifts := &cobra.Command{
		Use:   "shifts",
		Short: "Сводка отработок по жильцам",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.services()
			if err != nil {
				return err
			}
			return writeFile(shiftsOut, func(f *os.File) error {
				return svc.Report.ExportWorkShifts(utils.WithActor(app.ctx, systemActor), f)
			})
		},
	}
	shifts.Flags().StringVarP(&shiftsOut, "out", "o", "work_shifts.xlsx", "Файл для выгрузки")

	var cleanOut, from, to string
	var floor int
	cleanliness := &cobra.Command{
		Use:   "cleanliness",
		Short: "Таблица чистоты этажа за период",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.services()
			if err != nil {
				return err
			}
			start, end, err := svc.Cleanliness.Period(from, to, 0)
			if err != nil {
				return err
			}
			if cleanOut == "" {
				cleanOut = fmt.Sprintf("cleanliness_floor_%d_%s.xlsx", floor, start.Format(time.DateOnly))
			}
			return writeFile(cleanOut, func(f *os.File) error {
				return svc.Report.ExportCleanliness(utils.WithActor(app.ctx, systemActor), f, floor, start, end)
			})
		},
	}
	cleanliness.Flags().IntVar(&floor, "floor", 2, "Этаж (2-5)")
	cleanliness.Flags().StringVar(&from, "from", "", "Начало периода, YYYY-MM-DD (по умолчанию текущая неделя)")
	cleanliness.Flags().StringVar(&to, "to", "", "Конец периода, YYYY-MM-DD")
	cleanliness.Flags().StringVarP(&cleanOut, "out", "o", "", "Файл для выгрузки")

	cmd.AddCommand(shifts, cleanliness)
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Загрузить данные из xlsx",
	}

	var file, password string
	residents := &cobra.Command{
		Use:   "residents",
		Short: "Завести жильцов из списка заселения",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("IMPORT_DEFAULT_PASSWORD")
			}
			svc, err := app.services()
			if err != nil {
				return err
			}
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := svc.Import.Import(utils.WithActor(app.ctx, systemActor), f, password)
			if err != nil {
				return err
			}
			for _, line := range res.Failed {
				app.logger.Warn("Строка пропущена", zap.String("reason", line))
			}
			return nil
		},
	}
	residents.Flags().StringVarP(&file, "file", "f", "", "Файл xlsx со списком")
	residents.Flags().StringVar(&password, "password", "", "Начальный пароль (или IMPORT_DEFAULT_PASSWORD)")
	_ = residents.MarkFlagRequired("file")

	cmd.AddCommand(residents)
	return cmd
}

// writeFile удаляет недописанный файл, если выгрузка упала.
func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	app.logger.Info("Отчёт сохранён", zap.String("file", path))
	return nil
}
