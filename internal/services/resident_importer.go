package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/dto"
	"dorm-portal/internal/entities"
	"dorm-portal/internal/events"
	"dorm-portal/internal/repositories"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/utils"
	"dorm-portal/pkg/validation"
)

// ResidentImportResult - итог загрузки списка заселения.
type ResidentImportResult struct {
	Created  int      `json:"created"`
	Existing int      `json:"existing"`
	Failed   []string `json:"failed"`
}

type ResidentImporterInterface interface {
	Import(ctx context.Context, r io.Reader, password string) (*ResidentImportResult, error)
}

type residentColumns struct {
	name, email, room, group, years int
}

// ResidentImporter заводит жильцов из xlsx-таблицы коменданта.
// Комнаты из таблицы считаются подтверждёнными.
type ResidentImporter struct {
	userRepo  repositories.UserRepositoryInterface
	bus       EventPublisher
	validator *validation.CustomValidator
	logger    *zap.Logger
}

func NewResidentImporter(userRepo repositories.UserRepositoryInterface, bus EventPublisher, logger *zap.Logger) ResidentImporterInterface {
	return &ResidentImporter{userRepo: userRepo, bus: bus, validator: validation.New(), logger: logger}
}

// Import читает первый лист, где нашлась шапка с колонками ФИО и Email.
// Пароль общий для всей партии, жильцы меняют его сами.
func (s *ResidentImporter) Import(ctx context.Context, r io.Reader, password string) (*ResidentImportResult, error) {
	if len(password) < validation.MinPasswordLength {
		return nil, apperrors.NewInvalidInputError("пароль короче %d символов", validation.MinPasswordLength)
	}
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer f.Close()

	rows, header, cols, err := findResidentHeader(f)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Шапка таблицы найдена", zap.Int("row", header+1))

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	res := &ResidentImportResult{}
	for i := header + 1; i < len(rows); i++ {
		row := rows[i]
		line := i + 1

		payload := dto.RegisterDTO{
			Name:     cell(row, cols.name),
			Email:    normalizeEmail(cell(row, cols.email)),
			Room:     cell(row, cols.room),
			Group:    cell(row, cols.group),
			Password: password,
		}
		if payload.Name == "" && payload.Email == "" {
			continue
		}
		if years := cell(row, cols.years); years != "" {
			n, err := strconv.Atoi(years)
			if err != nil {
				res.Failed = append(res.Failed, fmt.Sprintf("строка %d: срок обучения %q", line, years))
				continue
			}
			payload.StudyYears = n
		}
		if err := s.validator.Validate(payload); err != nil {
			res.Failed = append(res.Failed, fmt.Sprintf("строка %d: %v", line, err))
			continue
		}

		user := &entities.User{
			Email:         payload.Email,
			Name:          payload.Name,
			Password:      hash,
			Role:          string(authz.RoleMember),
			Positions:     []string{},
			Room:          null.NewString(payload.Room, payload.Room != ""),
			RoomConfirmed: payload.Room != "",
			Group:         null.NewString(payload.Group, payload.Group != ""),
			EntryGroup:    null.NewString(payload.Group, payload.Group != ""),
			StudyYears:    null.NewInt(payload.StudyYears, payload.StudyYears > 0),
		}
		created, err := s.userRepo.Create(ctx, nil, user)
		if err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				res.Existing++
				continue
			}
			// база недоступна: дальше читать смысла нет
			return res, fmt.Errorf("строка %d: %w", line, err)
		}
		res.Created++
		s.bus.Publish(ctx, events.UserRegistered{User: *created})
	}

	s.logger.Info("Импорт жильцов завершён",
		zap.String("actor", actor.Name),
		zap.Int("created", res.Created),
		zap.Int("existing", res.Existing),
		zap.Int("failed", len(res.Failed)),
	)
	return res, nil
}

func findResidentHeader(f *excelize.File) ([][]string, int, residentColumns, error) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, 0, residentColumns{}, err
		}
		for i, row := range rows {
			cols := residentColumns{name: -1, email: -1, room: -1, group: -1, years: -1}
			for j, title := range row {
				t := strings.ToLower(strings.TrimSpace(title))
				switch {
				case strings.Contains(t, "фио") || strings.Contains(t, "имя"):
					cols.name = j
				case strings.Contains(t, "email") || strings.Contains(t, "почта"):
					cols.email = j
				case strings.Contains(t, "комнат"):
					cols.room = j
				case strings.Contains(t, "групп"):
					cols.group = j
				case strings.Contains(t, "лет") || strings.Contains(t, "срок"):
					cols.years = j
				}
			}
			if cols.name != -1 && cols.email != -1 {
				return rows, i, cols, nil
			}
		}
	}
	return nil, 0, residentColumns{}, apperrors.NewInvalidInputError("не найдена шапка таблицы: нужны колонки ФИО и Email")
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
