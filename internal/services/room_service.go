package services

import (
	"context"
	"sort"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/dto"
	"dorm-portal/internal/entities"
	"dorm-portal/internal/events"
	"dorm-portal/internal/repositories"
	"dorm-portal/internal/workflow"
	"dorm-portal/pkg/metrics"
)

type RoomServiceInterface interface {
	Request(ctx context.Context, room string) (*dto.UserPublicDTO, error)
	Approve(ctx context.Context, userID uuid.UUID) (*dto.UserPublicDTO, error)
	Reject(ctx context.Context, userID uuid.UUID) (*dto.UserPublicDTO, error)
	ListPending(ctx context.Context) ([]dto.PendingRoomDTO, error)
	Occupants(ctx context.Context, room string) (*dto.RoomOccupantsDTO, error)
}

type RoomService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	txManager repositories.TxManagerInterface
	bus       EventPublisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewRoomService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) RoomServiceInterface {
	return &RoomService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		txManager: txManager,
		bus:       bus,
		metrics:   m,
		logger:    logger,
	}
}

func assignmentOf(u *entities.User) workflow.RoomAssignment {
	return workflow.RoomAssignment{
		Room:        u.Room.String,
		PendingRoom: u.PendingRoom.String,
		Confirmed:   u.RoomConfirmed,
	}
}

func applyAssignment(u *entities.User, a workflow.RoomAssignment) {
	u.Room = null.NewString(a.Room, a.Room != "")
	u.PendingRoom = null.NewString(a.PendingRoom, a.PendingRoom != "")
	u.RoomConfirmed = a.Confirmed
}

// floorHeadIDs - старосты этажа комнаты. Ошибка поиска не мешает заявке, уведомления просто не уйдут.
func floorHeadIDs(ctx context.Context, repo repositories.UserRepositoryInterface, room string, logger *zap.Logger) []uuid.UUID {
	floor, ok := authz.RoomFloor(room)
	if !ok {
		return nil
	}
	heads, err := repo.ListByPositions(ctx, []string{authz.FloorHead(floor).Key()})
	if err != nil {
		logger.Warn("Не удалось найти старост этажа", zap.Int("floor", floor), zap.Error(err))
		return nil
	}
	ids := make([]uuid.UUID, 0, len(heads))
	for _, h := range heads {
		ids = append(ids, h.ID)
	}
	return ids
}

// Request - заявка на заселение в комнату. Незакрытая заявка заменяется новой.
func (s *RoomService) Request(ctx context.Context, room string) (*dto.UserPublicDTO, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}

	var user *entities.User
	var superseded string
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		u, err := s.userRepo.FindByIDForUpdate(ctx, tx, actor.ID)
		if err != nil {
			return err
		}
		next, prev, err := workflow.RequestRoom(assignmentOf(u), room)
		if err != nil {
			return err
		}
		if err := s.userRepo.UpdateRoom(ctx, tx, u.ID, next.Room, next.PendingRoom, next.Confirmed); err != nil {
			return err
		}
		applyAssignment(u, next)
		user, superseded = u, prev
		return nil
	})
	if err != nil {
		return nil, domainError(err)
	}

	dropActorCache(ctx, s.cacheRepo, actor.ID, s.logger)
	s.metrics.RoomAction("requested")
	s.logger.Info("Заявка на комнату",
		zap.String("userID", actor.ID.String()),
		zap.String("room", room),
		zap.String("superseded", superseded),
	)
	s.bus.Publish(ctx, events.RoomRequested{
		Actor:      actor,
		Room:       room,
		Superseded: superseded,
		FloorHeads: floorHeadIDs(ctx, s.userRepo, room, s.logger),
	})

	res := dto.UserToPublicDTO(user)
	return &res, nil
}

func (s *RoomService) Approve(ctx context.Context, userID uuid.UUID) (*dto.UserPublicDTO, error) {
	return s.decide(ctx, userID, true)
}

func (s *RoomService) Reject(ctx context.Context, userID uuid.UUID) (*dto.UserPublicDTO, error) {
	return s.decide(ctx, userID, false)
}

// decide - одобрение или отказ. Право проверяется по этажу запрошенной комнаты.
func (s *RoomService) decide(ctx context.Context, userID uuid.UUID, approve bool) (*dto.UserPublicDTO, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}

	var user *entities.User
	var room string
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		u, err := s.userRepo.FindByIDForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		current := assignmentOf(u)
		if workflow.StateOf(current) != workflow.PendingApproval {
			return workflow.ErrNoPendingRequest
		}
		if !authz.CanApproveRoom(actor, current.PendingRoom) {
			return forbidden("Решение по заявке принимает староста этажа " + current.PendingRoom)
		}

		var next workflow.RoomAssignment
		if approve {
			next, err = workflow.Approve(current)
			room = current.PendingRoom
		} else {
			next, room, err = workflow.Reject(current)
		}
		if err != nil {
			return err
		}
		if err := s.userRepo.UpdateRoom(ctx, tx, u.ID, next.Room, next.PendingRoom, next.Confirmed); err != nil {
			return err
		}
		applyAssignment(u, next)
		user = u
		return nil
	})
	if err != nil {
		return nil, domainError(err)
	}

	dropActorCache(ctx, s.cacheRepo, userID, s.logger)
	action := "rejected"
	if approve {
		action = "approved"
	}
	s.metrics.RoomAction(action)
	s.logger.Info("Решение по заявке на комнату",
		zap.String("actorID", actor.ID.String()),
		zap.String("userID", userID.String()),
		zap.String("room", room),
		zap.String("decision", action),
	)
	s.bus.Publish(ctx, events.RoomDecided{Actor: actor, User: *user, Room: room, Approved: approve})

	res := dto.UserToPublicDTO(user)
	return &res, nil
}

// ListPending - заявки, по которым актор может принять решение.
func (s *RoomService) ListPending(ctx context.Context) ([]dto.PendingRoomDTO, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.ListPendingRooms(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PendingRoomDTO, 0)
	for _, u := range users {
		pending := u.PendingRoom.String
		if !authz.CanApproveRoom(actor, pending) {
			continue
		}
		floor, _ := authz.RoomFloor(pending)
		out = append(out, dto.PendingRoomDTO{
			UserID:      u.ID,
			UserName:    u.Name,
			CurrentRoom: confirmedRoom(&u),
			PendingRoom: pending,
			Floor:       floor,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PendingRoom < out[j].PendingRoom })
	return out, nil
}

func (s *RoomService) Occupants(ctx context.Context, room string) (*dto.RoomOccupantsDTO, error) {
	if _, err := actorFromCtx(ctx, s.logger); err != nil {
		return nil, err
	}
	if !workflow.ValidRoomNumber(room) {
		return nil, domainError(workflow.ErrInvalidRoom)
	}
	users, err := s.userRepo.ListByRoom(ctx, nil, room)
	if err != nil {
		return nil, err
	}
	return &dto.RoomOccupantsDTO{Room: room, Occupants: dto.UsersToPublicDTO(users)}, nil
}
