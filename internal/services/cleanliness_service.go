package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/dto"
	"dorm-portal/internal/entities"
	"dorm-portal/internal/events"
	"dorm-portal/internal/repositories"
	"dorm-portal/internal/workflow"
	"dorm-portal/pkg/config"
	"dorm-portal/pkg/constants"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/metrics"
)

// maxGridDays ограничивает период таблицы чистоты.
const maxGridDays = 62

type CleanlinessServiceInterface interface {
	SetScore(ctx context.Context, payload dto.SetScoreDTO) (*entities.CleanlinessScore, error)
	DeleteScore(ctx context.Context, payload dto.DeleteScoreDTO) error
	FloorGrid(ctx context.Context, floor int, from, to time.Time) (*dto.FloorGridDTO, error)
	FloorAverages(ctx context.Context, floor int, from, to time.Time) ([]dto.RoomAverageDTO, error)
	RoomAverage(ctx context.Context, room string, from, to time.Time) (*dto.RoomAverageDTO, error)
	GetSettings(ctx context.Context) (*entities.CleanlinessSettings, error)
	SaveSettings(ctx context.Context, payload dto.CleanlinessSettingsDTO) (*entities.CleanlinessSettings, error)
	Period(from, to string, weekOffset int) (time.Time, time.Time, error)
}

type CleanlinessService struct {
	repo      repositories.CleanlinessRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	txManager repositories.TxManagerInterface
	bus       EventPublisher
	metrics   *metrics.Metrics
	dorm      config.DormConfig
	loc       *time.Location
	now       Clock
	logger    *zap.Logger
}

func NewCleanlinessService(
	repo repositories.CleanlinessRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus EventPublisher,
	m *metrics.Metrics,
	dorm config.DormConfig,
	logger *zap.Logger,
) *CleanlinessService {
	return &CleanlinessService{
		repo:      repo,
		cacheRepo: cacheRepo,
		txManager: txManager,
		bus:       bus,
		metrics:   m,
		dorm:      dorm,
		loc:       dorm.Location(),
		now:       time.Now,
		logger:    logger,
	}
}

func (s *CleanlinessService) today() time.Time {
	return workflow.Day(s.now().In(s.loc))
}

// GetSettings читает настройки из Redis, при промахе - из БД с записью в кеш.
// Недоступный Redis не ломает чтение.
func (s *CleanlinessService) GetSettings(ctx context.Context) (*entities.CleanlinessSettings, error) {
	raw, err := s.cacheRepo.Get(ctx, constants.CacheKeyCleanlinessSettings)
	if err == nil {
		var settings entities.CleanlinessSettings
		if jsonErr := json.Unmarshal([]byte(raw), &settings); jsonErr == nil {
			return &settings, nil
		}
	} else if !errors.Is(err, repositories.ErrCacheMiss) {
		s.logger.Warn("Кеш настроек чистоты недоступен", zap.Error(err))
	}

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(settings); err == nil {
		if err := s.cacheRepo.Set(ctx, constants.CacheKeyCleanlinessSettings, string(data), s.dorm.SettingsCacheTTL); err != nil {
			s.logger.Warn("Не удалось закешировать настройки чистоты", zap.Error(err))
		}
	}
	return settings, nil
}

func (s *CleanlinessService) SaveSettings(ctx context.Context, payload dto.CleanlinessSettingsDTO) (*entities.CleanlinessSettings, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageCleanlinessSettings(actor) {
		return nil, forbidden("Настройки чистоты меняет только персонал")
	}
	settings := payload.ToEntity()
	for key, rooms := range settings.Rooms {
		floor, err := strconv.Atoi(key)
		if err != nil || !s.hasFloor(floor) {
			return nil, apperrors.NewBadRequest("Неизвестный этаж в списке комнат: "+key, apperrors.ErrBadRequest)
		}
		for _, room := range rooms {
			if err := workflow.CheckRoomOnFloor(room, floor); err != nil {
				return nil, domainError(err)
			}
		}
	}

	if err := s.repo.SaveSettings(ctx, &settings); err != nil {
		return nil, err
	}
	if err := s.cacheRepo.Del(ctx, constants.CacheKeyCleanlinessSettings); err != nil {
		s.logger.Warn("Не удалось сбросить кеш настроек чистоты", zap.Error(err))
	}

	s.logger.Info("Настройки чистоты сохранены", zap.String("actorID", actor.ID.String()))
	s.bus.Publish(ctx, events.CleanlinessChanged{
		Actor:   actor,
		Action:  constants.ActionCleanlinessSettingsSaved,
		Details: "Обновлены настройки проверки чистоты",
	})
	return &settings, nil
}

func (s *CleanlinessService) hasFloor(floor int) bool {
	for _, f := range s.dorm.Floors {
		if f == floor {
			return true
		}
	}
	return false
}

// calendar: выходные из настроек, иначе из конфигурации общежития.
func (s *CleanlinessService) calendar(settings entities.CleanlinessSettings) workflow.Calendar {
	if settings.DefaultNonWorkingDays == nil && s.dorm.DefaultNonWorkingDays != nil {
		settings.DefaultNonWorkingDays = s.dorm.DefaultNonWorkingDays
	}
	cal := workflow.NewCalendar(settings, s.loc)
	cal.GeneralCleaningRule = s.dorm.GeneralCleaningRRule
	return cal
}

// rooms этажа: настройки, затем файл планировки, затем {floor}01…{floor}NN.
func (s *CleanlinessService) rooms(settings entities.CleanlinessSettings, floor int) []string {
	if rooms := settings.Rooms[strconv.Itoa(floor)]; len(rooms) > 0 {
		return rooms
	}
	if rooms := s.dorm.Rooms[floor]; len(rooms) > 0 {
		return rooms
	}
	return workflow.DefaultRooms(floor, s.dorm.RoomsPerFloor)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// checkCell - общие проверки записи оценки: права на этаж, комната этажа, закрытие.
func (s *CleanlinessService) checkCell(actor authz.Actor, settings entities.CleanlinessSettings, floor int, date time.Time, room string) error {
	if !authz.CanEditCleanlinessFloor(actor, floor) {
		return forbidden(fmt.Sprintf("Нет прав выставлять оценки на %d этаже", floor))
	}
	if err := workflow.CheckRoomOnFloor(room, floor); err != nil {
		return domainError(err)
	}
	if !contains(s.rooms(settings, floor), room) {
		return domainError(fmt.Errorf("%w: %s", workflow.ErrRoomNotOnFloor, room))
	}
	if workflow.IsRoomClosed(settings, date, room) {
		return apperrors.NewBadRequest("Комната "+room+" закрыта на эту дату", apperrors.ErrBadRequest)
	}
	return nil
}

func (s *CleanlinessService) SetScore(ctx context.Context, payload dto.SetScoreDTO) (*entities.CleanlinessScore, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	if !workflow.ValidScore(payload.Score) {
		return nil, domainError(workflow.ErrInvalidScore)
	}
	date, err := workflow.ParseDate(payload.Date, s.loc)
	if err != nil {
		return nil, apperrors.NewBadRequest("Неверная дата", err)
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.checkCell(actor, *settings, payload.Floor, date, payload.Room); err != nil {
		return nil, err
	}

	score := &entities.CleanlinessScore{
		Floor:       payload.Floor,
		Date:        date,
		Room:        payload.Room,
		Score:       payload.Score,
		Inspector:   actor.Name,
		InspectorID: actor.ID,
	}
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		_, err := s.repo.FindScore(ctx, tx, payload.Floor, date, payload.Room)
		exists := err == nil
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if err := workflow.CheckEditWindow(exists, date, s.today()); err != nil {
			return err
		}
		return s.repo.UpsertScore(ctx, tx, score)
	})
	if err != nil {
		return nil, domainError(err)
	}

	s.metrics.ScoreSet(strconv.Itoa(payload.Floor))
	s.logger.Info("Оценка чистоты",
		zap.Int("floor", payload.Floor),
		zap.String("room", payload.Room),
		zap.String("date", payload.Date),
		zap.Int("score", payload.Score),
	)
	s.bus.Publish(ctx, events.CleanlinessChanged{
		Actor:   actor,
		Action:  constants.ActionCleanlinessScoreSet,
		Details: fmt.Sprintf("Комната %s, %s: %d", payload.Room, payload.Date, payload.Score),
	})
	return score, nil
}

// DeleteScore: удалить можно только сегодняшнюю оценку.
func (s *CleanlinessService) DeleteScore(ctx context.Context, payload dto.DeleteScoreDTO) error {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return err
	}
	date, err := workflow.ParseDate(payload.Date, s.loc)
	if err != nil {
		return apperrors.NewBadRequest("Неверная дата", err)
	}
	if !authz.CanEditCleanlinessFloor(actor, payload.Floor) {
		return forbidden(fmt.Sprintf("Нет прав удалять оценки на %d этаже", payload.Floor))
	}
	if err := workflow.CheckRoomOnFloor(payload.Room, payload.Floor); err != nil {
		return domainError(err)
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.repo.FindScore(ctx, tx, payload.Floor, date, payload.Room); err != nil {
			return err
		}
		if err := workflow.CheckEditWindow(true, date, s.today()); err != nil {
			return err
		}
		return s.repo.DeleteScore(ctx, tx, payload.Floor, date, payload.Room)
	})
	if err != nil {
		return domainError(err)
	}

	s.bus.Publish(ctx, events.CleanlinessChanged{
		Actor:   actor,
		Action:  constants.ActionCleanlinessScoreDeleted,
		Details: fmt.Sprintf("Комната %s, %s", payload.Room, payload.Date),
	})
	return nil
}

// Period: явные from/to, иначе неделя со смещением weekOffset от текущей.
func (s *CleanlinessService) Period(from, to string, weekOffset int) (time.Time, time.Time, error) {
	if from == "" || to == "" {
		week := workflow.WeekDates(s.now().In(s.loc), weekOffset)
		return week[0], week[len(week)-1], nil
	}
	f, err := workflow.ParseDate(from, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewBadRequest("Неверная дата начала", err)
	}
	t, err := workflow.ParseDate(to, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewBadRequest("Неверная дата окончания", err)
	}
	return f, t, nil
}

func (s *CleanlinessService) checkPeriod(floor int, from, to time.Time) error {
	if !s.hasFloor(floor) {
		return apperrors.NewBadRequest(fmt.Sprintf("Этажа %d нет", floor), apperrors.ErrBadRequest)
	}
	if to.Before(from) {
		return apperrors.NewBadRequest("Дата окончания раньше даты начала", apperrors.ErrBadRequest)
	}
	if to.Sub(from) > maxGridDays*24*time.Hour {
		return apperrors.NewBadRequest(fmt.Sprintf("Период не больше %d дней", maxGridDays), apperrors.ErrBadRequest)
	}
	return nil
}

func (s *CleanlinessService) FloorGrid(ctx context.Context, floor int, from, to time.Time) (*dto.FloorGridDTO, error) {
	if _, err := actorFromCtx(ctx, s.logger); err != nil {
		return nil, err
	}
	from, to = workflow.Day(from.In(s.loc)), workflow.Day(to.In(s.loc))
	if err := s.checkPeriod(floor, from, to); err != nil {
		return nil, err
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	scores, err := s.repo.ListByFloor(ctx, floor, from, to)
	if err != nil {
		return nil, err
	}

	cal := s.calendar(*settings)
	general := make(map[string]bool)
	dates, err := cal.GeneralCleaningDates(from, to)
	if err != nil {
		s.logger.Warn("Не удалось вычислить дни генеральной уборки", zap.Error(err))
	}
	for _, d := range dates {
		general[workflow.DateKey(d)] = true
	}

	rooms := s.rooms(*settings, floor)
	grid := &dto.FloorGridDTO{
		Floor:    floor,
		Rooms:    rooms,
		Cells:    make(map[string]map[string]dto.GridCellDTO, len(rooms)),
		Averages: make(map[string]*float64, len(rooms)),
	}

	floorClosedDays := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := workflow.DateKey(d)
		grid.Days = append(grid.Days, dto.GridDayDTO{Date: key, Working: cal.IsWorkingDay(d), GeneralCleaning: general[key]})
		for _, f := range settings.ClosedFloors[key] {
			if f == floor {
				floorClosedDays++
				break
			}
		}
		for _, room := range rooms {
			if workflow.IsRoomClosed(*settings, d, room) {
				cellsOf(grid, room)[key] = dto.GridCellDTO{Closed: true}
			}
		}
	}
	grid.Closed = len(grid.Days) > 0 && floorClosedDays == len(grid.Days)

	byRoom := make(map[string][]entities.CleanlinessScore)
	for _, sc := range scores {
		key := workflow.DateKey(sc.Date)
		cell := cellsOf(grid, sc.Room)[key]
		cell.Score = sc.Score
		cell.Inspector = sc.Inspector
		cellsOf(grid, sc.Room)[key] = cell
		byRoom[sc.Room] = append(byRoom[sc.Room], sc)
	}
	for _, room := range rooms {
		if avg, ok := workflow.Average(byRoom[room], cal); ok {
			v := avg
			grid.Averages[room] = &v
		} else {
			grid.Averages[room] = nil
		}
	}
	return grid, nil
}

func cellsOf(grid *dto.FloorGridDTO, room string) map[string]dto.GridCellDTO {
	cells, ok := grid.Cells[room]
	if !ok {
		cells = make(map[string]dto.GridCellDTO)
		grid.Cells[room] = cells
	}
	return cells
}

// FloorAverages - средние по комнатам этажа, лучшие сверху, комнаты без оценок в конце.
func (s *CleanlinessService) FloorAverages(ctx context.Context, floor int, from, to time.Time) ([]dto.RoomAverageDTO, error) {
	grid, err := s.FloorGrid(ctx, floor, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoomAverageDTO, 0, len(grid.Rooms))
	for _, room := range grid.Rooms {
		n := 0
		for _, cell := range grid.Cells[room] {
			if cell.Score > 0 {
				n++
			}
		}
		out = append(out, dto.RoomAverageDTO{Room: room, Average: grid.Averages[room], Scores: n})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Average, out[j].Average
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return *a > *b
	})
	return out, nil
}

func (s *CleanlinessService) RoomAverage(ctx context.Context, room string, from, to time.Time) (*dto.RoomAverageDTO, error) {
	if _, err := actorFromCtx(ctx, s.logger); err != nil {
		return nil, err
	}
	if _, ok := authz.RoomFloor(room); !ok {
		return nil, domainError(workflow.ErrInvalidRoom)
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	scores, err := s.repo.ListByRoom(ctx, room, from, to)
	if err != nil {
		return nil, err
	}
	res := &dto.RoomAverageDTO{Room: room, Scores: len(scores)}
	if avg, ok := workflow.Average(scores, s.calendar(*settings)); ok {
		res.Average = &avg
	}
	return res, nil
}
