package seeders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/pkg/utils"
)

// SeedManager создаёт учётную запись менеджера, если пользователя с таким email ещё нет.
func SeedManager(ctx context.Context, db *pgxpool.Pool, name, email, password string, logger *zap.Logger) error {
	if email == "" || password == "" {
		return fmt.Errorf("для менеджера нужны email и пароль")
	}
	created, err := insertUser(ctx, db, DemoUser{Name: name, Email: email, Role: string(authz.RoleManager)}, password)
	if err != nil {
		return fmt.Errorf("создание менеджера: %w", err)
	}
	if created {
		logger.Info("Менеджер создан", zap.String("email", email))
	} else {
		logger.Info("Менеджер уже существует, пропускаем", zap.String("email", email))
	}
	return nil
}

// SeedDemo наполняет базу советом и жильцами. Повторный запуск ничего не дублирует.
func SeedDemo(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	if err := validateDemo(); err != nil {
		return err
	}
	created := 0
	for _, u := range demoUsers {
		ok, err := insertUser(ctx, db, u, demoPassword)
		if err != nil {
			return fmt.Errorf("пользователь %s: %w", u.Email, err)
		}
		if ok {
			created++
		}
	}
	if _, err := db.Exec(ctx,
		`INSERT INTO cleanliness_settings (id, settings) VALUES (1, '{}') ON CONFLICT (id) DO NOTHING`); err != nil {
		return fmt.Errorf("настройки чистоты: %w", err)
	}
	logger.Info("Демо-данные загружены", zap.Int("created", created), zap.Int("total", len(demoUsers)))
	return nil
}

// validateDemo проверяет комнаты и должности до записи в базу.
func validateDemo() error {
	for _, u := range demoUsers {
		if u.Room != "" {
			if _, ok := authz.RoomFloor(u.Room); !ok {
				return fmt.Errorf("неверная комната %q у %s", u.Room, u.Email)
			}
		}
		if _, err := authz.ParsePositions(u.Positions); err != nil {
			return fmt.Errorf("%s: %w", u.Email, err)
		}
		if authz.ParseRole(u.Role) == authz.RoleUnknown {
			return fmt.Errorf("неизвестная роль %q у %s", u.Role, u.Email)
		}
	}
	return nil
}

func insertUser(ctx context.Context, db *pgxpool.Pool, u DemoUser, password string) (bool, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return false, err
	}
	positions := u.Positions
	if positions == nil {
		positions = []string{}
	}

	var room, group, entryGroup interface{}
	var studyYears interface{}
	if u.Room != "" {
		room = u.Room
	}
	if u.Group != "" {
		group, entryGroup = u.Group, u.Group
		studyYears = u.StudyYears
	}

	var id string
	err = db.QueryRow(ctx, `
		INSERT INTO users (email, name, password, role, positions, room, room_confirmed, group_name, entry_group, study_years)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (email) DO NOTHING
		RETURNING id`,
		u.Email, u.Name, hashed, u.Role, positions, room, u.Room != "", group, entryGroup, studyYears,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
