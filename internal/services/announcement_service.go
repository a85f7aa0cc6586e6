package services

import (
	"context"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/dto"
	"dorm-portal/internal/entities"
	"dorm-portal/internal/events"
	"dorm-portal/internal/repositories"
	"dorm-portal/pkg/constants"
	apperrors "dorm-portal/pkg/errors"
)

const defaultPriority = "medium"

type AnnouncementServiceInterface interface {
	List(ctx context.Context, archived bool) ([]entities.Announcement, error)
	Create(ctx context.Context, payload dto.CreateAnnouncementDTO) (*entities.Announcement, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateAnnouncementDTO) (*entities.Announcement, error)
	Delete(ctx context.Context, id uint64) error
	Audiences(ctx context.Context) ([]string, error)
	ArchiveExpired(ctx context.Context) (int, error)
}

type AnnouncementService struct {
	repo   repositories.AnnouncementRepositoryInterface
	bus    EventPublisher
	now    Clock
	logger *zap.Logger
}

func NewAnnouncementService(repo repositories.AnnouncementRepositoryInterface, bus EventPublisher, logger *zap.Logger) *AnnouncementService {
	return &AnnouncementService{repo: repo, bus: bus, now: time.Now, logger: logger}
}

// List - видимые актору объявления, активные или из архива.
func (s *AnnouncementService) List(ctx context.Context, archived bool) ([]entities.Announcement, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.List(ctx, archived)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Announcement, 0, len(all))
	for _, a := range all {
		if authz.CanSeeAnnouncement(actor, a.Audience, a.CreatedBy) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *AnnouncementService) Audiences(ctx context.Context) ([]string, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	audiences := authz.AvailableAudiences(actor)
	if audiences == nil {
		audiences = []string{}
	}
	return audiences, nil
}

func (s *AnnouncementService) checkExpiry(expiresAt null.Time) error {
	if expiresAt.Valid && !expiresAt.Time.After(s.now()) {
		return apperrors.NewBadRequest("Срок действия должен быть в будущем", apperrors.ErrBadRequest)
	}
	return nil
}

func (s *AnnouncementService) Create(ctx context.Context, payload dto.CreateAnnouncementDTO) (*entities.Announcement, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	if !authz.CanPublishTo(actor, payload.Audience) {
		return nil, forbidden("Нет прав публиковать объявление для этой аудитории")
	}
	if err := s.checkExpiry(payload.ExpiresAt); err != nil {
		return nil, err
	}
	priority := payload.Priority
	if priority == "" {
		priority = defaultPriority
	}

	created, err := s.repo.Create(ctx, &entities.Announcement{
		Title:         strings.TrimSpace(payload.Title),
		Content:       payload.Content,
		Priority:      priority,
		Audience:      payload.Audience,
		CreatedBy:     actor.ID,
		CreatedByName: actor.Name,
		ExpiresAt:     payload.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Объявление опубликовано", zap.Uint64("id", created.ID), zap.String("audience", created.Audience))
	s.bus.Publish(ctx, events.AnnouncementChanged{Actor: &actor, Announcement: *created, Action: constants.ActionAnnouncementCreated})
	return created, nil
}

// Update: новый срок в будущем возвращает объявление из архива.
func (s *AnnouncementService) Update(ctx context.Context, id uint64, payload dto.UpdateAnnouncementDTO) (*entities.Announcement, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanEditAnnouncement(actor, a.CreatedBy) {
		return nil, forbidden("Редактировать объявление может автор или персонал")
	}
	if payload.Audience != nil && *payload.Audience != a.Audience {
		if !authz.CanPublishTo(actor, *payload.Audience) {
			return nil, forbidden("Нет прав публиковать объявление для этой аудитории")
		}
		a.Audience = *payload.Audience
	}
	if payload.Title != nil {
		a.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Content != nil {
		a.Content = *payload.Content
	}
	if payload.Priority != nil {
		a.Priority = *payload.Priority
	}
	if payload.ExpiresAt.Valid {
		if err := s.checkExpiry(payload.ExpiresAt); err != nil {
			return nil, err
		}
		a.ExpiresAt = payload.ExpiresAt
		a.ArchivedAt = null.Time{}
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, events.AnnouncementChanged{Actor: &actor, Announcement: *a, Action: constants.ActionAnnouncementUpdated})
	return a, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id uint64) error {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return err
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanEditAnnouncement(actor, a.CreatedBy) {
		return forbidden("Удалить объявление может автор или персонал")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.AnnouncementChanged{Actor: &actor, Announcement: *a, Action: constants.ActionAnnouncementDeleted})
	return nil
}

// ArchiveExpired вызывается планировщиком, актора нет.
func (s *AnnouncementService) ArchiveExpired(ctx context.Context) (int, error) {
	archived, err := s.repo.ArchiveExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	for _, a := range archived {
		s.bus.Publish(ctx, events.AnnouncementChanged{Announcement: a, Action: constants.ActionAnnouncementArchived})
	}
	if len(archived) > 0 {
		s.logger.Info("Объявления перенесены в архив", zap.Int("count", len(archived)))
	}
	return len(archived), nil
}
