package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/dto"
	"dorm-portal/internal/entities"
	"dorm-portal/internal/events"
	"dorm-portal/internal/repositories"
	"dorm-portal/internal/workflow"
	"dorm-portal/pkg/constants"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/types"
)

// actorCacheTTL ограничивает, как долго middleware может видеть устаревшие права,
// если инвалидация не дошла до Redis.
const actorCacheTTL = 5 * time.Minute

type UserServiceInterface interface {
	ResolveActor(ctx context.Context, userID uuid.UUID) (authz.Actor, error)
	GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserPublicDTO, uint64, error)
	FindUser(ctx context.Context, id uuid.UUID) (*dto.UserPublicDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, payload dto.UpdateProfileDTO) (*dto.UserPublicDTO, error)
	ChangeRole(ctx context.Context, id uuid.UUID, role string) (*dto.UserPublicDTO, error)
	SetPositions(ctx context.Context, id uuid.UUID, keys []string) (*dto.UserPublicDTO, error)
	SetFrozen(ctx context.Context, id uuid.UUID, frozen bool) (*dto.UserPublicDTO, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListPositions() []dto.PositionDTO
}

type UserService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	txManager repositories.TxManagerInterface
	bus       EventPublisher
	now       Clock
	logger    *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		txManager: txManager,
		bus:       bus,
		now:       time.Now,
		logger:    logger,
	}
}

type cachedActor struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Positions []string  `json:"positions"`
	Room      string    `json:"room"`
	Frozen    bool      `json:"frozen"`
}

func (c cachedActor) actor() authz.Actor {
	return authz.Actor{
		ID:        c.ID,
		Name:      c.Name,
		Role:      authz.ParseRole(c.Role),
		Positions: authz.MustParsePositions(c.Positions),
		Room:      c.Room,
	}
}

// ResolveActor - для AuthMiddleware. Замороженный пользователь не проходит.
func (s *UserService) ResolveActor(ctx context.Context, userID uuid.UUID) (authz.Actor, error) {
	key := fmt.Sprintf(constants.CacheKeyActor, userID)
	if raw, err := s.cacheRepo.Get(ctx, key); err == nil {
		var c cachedActor
		if json.Unmarshal([]byte(raw), &c) == nil && c.ID == userID {
			if c.Frozen {
				return authz.Actor{}, apperrors.ErrUserFrozen
			}
			return c.actor(), nil
		}
	} else if !errors.Is(err, repositories.ErrCacheMiss) {
		s.logger.Warn("Кеш акторов недоступен", zap.Error(err))
	}

	user, err := s.userRepo.FindByID(ctx, nil, userID)
	if err != nil {
		return authz.Actor{}, err
	}
	c := cachedActor{
		ID:        user.ID,
		Name:      user.Name,
		Role:      user.Role,
		Positions: user.Positions,
		Room:      confirmedRoom(user),
		Frozen:    user.IsFrozen,
	}
	if raw, err := json.Marshal(c); err == nil {
		_ = s.cacheRepo.Set(ctx, key, string(raw), actorCacheTTL)
	}
	if user.IsFrozen {
		return authz.Actor{}, apperrors.ErrUserFrozen
	}
	return c.actor(), nil
}

// confirmedRoom - для прав важна только подтверждённая комната.
func confirmedRoom(u *entities.User) string {
	if !u.RoomConfirmed {
		return ""
	}
	return u.Room.String
}

func (s *UserService) invalidateActor(ctx context.Context, id uuid.UUID) {
	dropActorCache(ctx, s.cacheRepo, id, s.logger)
}

func canListUsers(actor authz.Actor) bool {
	return actor.IsStaff() || len(actor.Positions) > 0
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserPublicDTO, uint64, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, 0, err
	}
	if !canListUsers(actor) {
		return nil, 0, forbidden("Список жильцов доступен персоналу и студсовету")
	}
	users, total, err := s.userRepo.GetUsers(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return dto.UsersToPublicDTO(users), total, nil
}

func (s *UserService) FindUser(ctx context.Context, id uuid.UUID) (*dto.UserPublicDTO, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	if actor.ID != id && !canListUsers(actor) {
		return nil, forbidden("Нет доступа к профилю")
	}
	user, err := s.userRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	res := dto.UserToPublicDTO(user)
	return &res, nil
}

// UpdateProfile: свой профиль или персонал старше по роли. Группу и срок обучения
// жилец задаёт сам только один раз, дальше их меняет персонал: от них зависит
// ежегодный перевод. Ручная смена группы пересчитывает группу регистрации,
// чтобы перевод продолжил от исправленной.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, payload dto.UpdateProfileDTO) (*dto.UserPublicDTO, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	if actor.ID != id && !authz.CanManageUsers(actor) {
		return nil, forbidden("Редактировать можно только свой профиль")
	}

	var updated *entities.User
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		user, err := s.userRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if actor.ID != id && !authz.CanModerateUser(actor, authz.ActorFromUser(user)) {
			return forbidden("Нельзя редактировать профиль пользователя с такой же или более высокой ролью")
		}
		if !authz.CanManageUsers(actor) && changesStudy(user, payload) {
			return forbidden("Группу и срок обучения меняет администрация")
		}
		if payload.Name != nil {
			user.Name = strings.TrimSpace(*payload.Name)
		}
		if payload.StudyYears != nil {
			user.StudyYears.SetValid(*payload.StudyYears)
		}
		if payload.Group != nil && *payload.Group != user.Group.String {
			user.Group.SetValid(*payload.Group)
			user.EntryGroup.SetValid(workflow.RebaseEntryGroup(*payload.Group, user.RegisteredAt, s.now()))
		}
		if err := s.userRepo.UpdateProfile(ctx, tx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateActor(ctx, id)
	if actor.ID != id {
		s.bus.Publish(ctx, events.UserModerated{Actor: actor, Target: *updated, Action: constants.ActionUserUpdated})
	}
	res := dto.UserToPublicDTO(updated)
	return &res, nil
}

// changesStudy - правка уже заполненных группы или срока обучения.
func changesStudy(u *entities.User, payload dto.UpdateProfileDTO) bool {
	if payload.StudyYears != nil && u.StudyYears.Valid && *payload.StudyYears != u.StudyYears.Int {
		return true
	}
	return payload.Group != nil && u.Group.Valid && *payload.Group != u.Group.String
}

func (s *UserService) ChangeRole(ctx context.Context, id uuid.UUID, role string) (*dto.UserPublicDTO, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	newRole := authz.ParseRole(role)
	if !newRole.Valid() {
		return nil, apperrors.NewBadRequest("Неизвестная роль", apperrors.ErrBadRequest)
	}

	user, err := s.userRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	oldRole := authz.ParseRole(user.Role)
	if oldRole == newRole {
		res := dto.UserToPublicDTO(user)
		return &res, nil
	}
	if !authz.CanChangeRole(actor, authz.ActorFromUser(user), newRole) {
		return nil, forbidden("Недостаточно прав для изменения роли")
	}
	if err := s.userRepo.UpdateRole(ctx, nil, id, string(newRole)); err != nil {
		return nil, err
	}
	user.Role = string(newRole)
	s.invalidateActor(ctx, id)

	s.logger.Info("Роль изменена",
		zap.String("actorID", actor.ID.String()),
		zap.String("userID", id.String()),
		zap.String("from", string(oldRole)),
		zap.String("to", string(newRole)),
	)
	s.bus.Publish(ctx, events.RoleChanged{Actor: actor, Target: *user, OldRole: oldRole, NewRole: newRole})
	res := dto.UserToPublicDTO(user)
	return &res, nil
}

func diffPositions(oldPs, newPs authz.Positions) (added, removed []authz.Position) {
	for _, p := range newPs {
		if !oldPs.Contains(p) {
			added = append(added, p)
		}
	}
	for _, p := range oldPs {
		if !newPs.Contains(p) {
			removed = append(removed, p)
		}
	}
	return added, removed
}

func (s *UserService) SetPositions(ctx context.Context, id uuid.UUID, keys []string) (*dto.UserPublicDTO, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	if !authz.CanAssignPositions(actor) {
		return nil, forbidden("Назначать должности может персонал или председатель")
	}
	newPs, err := authz.ParsePositions(keys)
	if err != nil {
		return nil, domainError(err)
	}

	user, err := s.userRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	oldPs := authz.MustParsePositions(user.Positions)
	added, removed := diffPositions(oldPs, newPs)
	if len(added) == 0 && len(removed) == 0 {
		res := dto.UserToPublicDTO(user)
		return &res, nil
	}

	if err := s.userRepo.UpdatePositions(ctx, nil, id, newPs.Keys()); err != nil {
		return nil, err
	}
	user.Positions = newPs.Keys()
	s.invalidateActor(ctx, id)

	s.bus.Publish(ctx, events.PositionsChanged{Actor: actor, Target: *user, Added: added, Removed: removed})
	res := dto.UserToPublicDTO(user)
	return &res, nil
}

func (s *UserService) SetFrozen(ctx context.Context, id uuid.UUID, frozen bool) (*dto.UserPublicDTO, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanModerateUser(actor, authz.ActorFromUser(user)) {
		return nil, forbidden("Недостаточно прав для блокировки пользователя")
	}
	if user.IsFrozen == frozen {
		res := dto.UserToPublicDTO(user)
		return &res, nil
	}
	if err := s.userRepo.SetFrozen(ctx, nil, id, frozen); err != nil {
		return nil, err
	}
	user.IsFrozen = frozen
	s.invalidateActor(ctx, id)

	action := constants.ActionUserUnfrozen
	if frozen {
		action = constants.ActionUserFrozen
	}
	s.bus.Publish(ctx, events.UserModerated{Actor: actor, Target: *user, Action: action})
	res := dto.UserToPublicDTO(user)
	return &res, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if !authz.CanModerateUser(actor, authz.ActorFromUser(user)) {
		return apperrors.NewHttpError(http.StatusForbidden, "Недостаточно прав для удаления пользователя", apperrors.ErrForbidden, nil)
	}
	if err := s.userRepo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.invalidateActor(ctx, id)
	s.bus.Publish(ctx, events.UserModerated{Actor: actor, Target: *user, Action: constants.ActionUserDeleted})
	return nil
}

func (s *UserService) ListPositions() []dto.PositionDTO {
	return dto.PositionsToDTO(authz.AllPositions())
}
