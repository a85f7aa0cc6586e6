package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/dto"
	"dorm-portal/internal/entities"
	"dorm-portal/internal/events"
	"dorm-portal/internal/repositories"
	"dorm-portal/pkg/config"
	"dorm-portal/pkg/constants"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/metrics"
	"dorm-portal/pkg/service"
	"dorm-portal/pkg/utils"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, payload dto.RegisterDTO) (*dto.AuthResponseDTO, error)
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error)
	Me(ctx context.Context) (*dto.UserPublicDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	jwtService service.JWTService
	bus        EventPublisher
	metrics    *metrics.Metrics
	cfg        config.AuthConfig
	logger     *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	bus EventPublisher,
	m *metrics.Metrics,
	cfg config.AuthConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		cacheRepo:  cacheRepo,
		jwtService: jwtService,
		bus:        bus,
		metrics:    m,
		cfg:        cfg,
		logger:     logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создаёт жильца. Указанная комната сразу уходит на одобрение старосте.
func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO) (*dto.AuthResponseDTO, error) {
	email := normalizeEmail(payload.Email)
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.NewHttpError(http.StatusConflict, "Пользователь с таким email уже зарегистрирован", apperrors.ErrConflict, nil)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:       email,
		Name:        strings.TrimSpace(payload.Name),
		Password:    hash,
		Role:        string(authz.RoleMember),
		Positions:   []string{},
		PendingRoom: null.NewString(payload.Room, payload.Room != ""),
		Group:       null.NewString(payload.Group, payload.Group != ""),
		EntryGroup:  null.NewString(payload.Group, payload.Group != ""),
		StudyYears:  null.NewInt(payload.StudyYears, payload.StudyYears > 0),
	}
	created, err := s.userRepo.Create(ctx, nil, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewHttpError(http.StatusConflict, "Пользователь с таким email уже зарегистрирован", err, nil)
		}
		return nil, err
	}
	s.logger.Info("Зарегистрирован новый жилец", zap.String("userID", created.ID.String()), zap.String("pendingRoom", payload.Room))

	s.bus.Publish(ctx, events.UserRegistered{User: *created})
	if payload.Room != "" {
		heads := floorHeadIDs(ctx, s.userRepo, payload.Room, s.logger)
		s.bus.Publish(ctx, events.RoomRequested{Actor: authz.ActorFromUser(created), Room: payload.Room, FloorHeads: heads})
		s.metrics.RoomAction("requested")
	}

	return s.issueTokens(created)
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	email := normalizeEmail(payload.Email)
	logger := s.logger.With(zap.String("email", email))

	if s.isLockedOut(ctx, email) {
		s.metrics.Login("locked")
		return nil, apperrors.NewHttpError(http.StatusTooManyRequests,
			fmt.Sprintf("Слишком много попыток. Попробуйте через %.0f минут.", s.cfg.LockoutDuration.Minutes()),
			apperrors.ErrTooManyAttempts, nil)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.handleFailedLoginAttempt(ctx, email)
		s.metrics.Login("failure")
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		s.handleFailedLoginAttempt(ctx, email)
		s.metrics.Login("failure")
		logger.Info("Неверный пароль")
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.IsFrozen {
		s.metrics.Login("frozen")
		return nil, apperrors.ErrUserFrozen
	}

	s.resetLoginAttempts(ctx, email)
	s.metrics.Login("success")
	logger.Info("Успешный вход", zap.String("userID", user.ID.String()))
	return s.issueTokens(user)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}
	user, err := s.userRepo.FindByID(ctx, nil, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if user.IsFrozen {
		return nil, apperrors.ErrUserFrozen
	}
	return s.issueTokens(user)
}

func (s *AuthService) Me(ctx context.Context) (*dto.UserPublicDTO, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, nil, actor.ID)
	if err != nil {
		return nil, err
	}
	res := dto.UserToPublicDTO(user)
	return &res, nil
}

func (s *AuthService) issueTokens(user *entities.User) (*dto.AuthResponseDTO, error) {
	access, refresh, err := s.jwtService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponseDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         dto.UserToPublicDTO(user),
	}, nil
}

// Блокировка ведётся по email: так перебор не раскрывает, существует ли аккаунт.
// Ошибки Redis не мешают входу.
func (s *AuthService) isLockedOut(ctx context.Context, email string) bool {
	_, err := s.cacheRepo.Get(ctx, fmt.Sprintf(constants.CacheKeyLockout, email))
	if err == nil {
		return true
	}
	if !errors.Is(err, repositories.ErrCacheMiss) {
		s.logger.Warn("Не удалось проверить блокировку входа", zap.Error(err))
	}
	return false
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, email string) {
	attemptsKey := fmt.Sprintf(constants.CacheKeyLoginAttempts, email)
	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey)
	if err != nil {
		s.logger.Warn("Не удалось учесть неудачную попытку входа", zap.Error(err))
		return
	}
	if attempts == 1 {
		_, _ = s.cacheRepo.Expire(ctx, attemptsKey, s.cfg.LockoutDuration)
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		_ = s.cacheRepo.Set(ctx, fmt.Sprintf(constants.CacheKeyLockout, email), "locked", s.cfg.LockoutDuration)
		_ = s.cacheRepo.Del(ctx, attemptsKey)
		s.logger.Warn("Вход заблокирован после неудачных попыток", zap.String("email", email))
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, email string) {
	_ = s.cacheRepo.Del(ctx, fmt.Sprintf(constants.CacheKeyLoginAttempts, email), fmt.Sprintf(constants.CacheKeyLockout, email))
}
