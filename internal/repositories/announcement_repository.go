package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dorm-portal/internal/entities"
	apperrors "dorm-portal/pkg/errors"
)

var announcementColumns = []string{
	"a.id", "a.title", "a.content", "a.priority", "a.audience", "a.created_by", "a.created_by_name",
	"a.date", "a.expires_at", "a.archived_at", "a.updated_at",
}

type AnnouncementRepositoryInterface interface {
	List(ctx context.Context, archived bool) ([]entities.Announcement, error)
	FindByID(ctx context.Context, id uint64) (*entities.Announcement, error)
	Create(ctx context.Context, a *entities.Announcement) (*entities.Announcement, error)
	Update(ctx context.Context, a *entities.Announcement) error
	Delete(ctx context.Context, id uint64) error
	ArchiveExpired(ctx context.Context, now time.Time) ([]entities.Announcement, error)
}

type AnnouncementRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAnnouncementRepository(storage *pgxpool.Pool, logger *zap.Logger) AnnouncementRepositoryInterface {
	return &AnnouncementRepository{storage: storage, logger: logger}
}

func scanAnnouncement(row pgx.Row) (*entities.Announcement, error) {
	var a entities.Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Priority, &a.Audience, &a.CreatedBy, &a.CreatedByName,
		&a.Date, &a.ExpiresAt, &a.ArchivedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &a, nil
}

func collectAnnouncements(rows pgx.Rows) ([]entities.Announcement, error) {
	defer rows.Close()
	out := make([]entities.Announcement, 0)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// List - активные (archived=false) или архивные объявления, новые сверху.
func (r *AnnouncementRepository) List(ctx context.Context, archived bool) ([]entities.Announcement, error) {
	builder := psql.Select(announcementColumns...).From("announcements a")
	if archived {
		builder = builder.Where(sq.NotEq{"a.archived_at": nil}).OrderBy("a.archived_at DESC")
	} else {
		builder = builder.Where(sq.Eq{"a.archived_at": nil}).OrderBy("a.date DESC")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectAnnouncements(rows)
}

func (r *AnnouncementRepository) FindByID(ctx context.Context, id uint64) (*entities.Announcement, error) {
	query, args, err := psql.Select(announcementColumns...).From("announcements a").Where(sq.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanAnnouncement(r.storage.QueryRow(ctx, query, args...))
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *entities.Announcement) (*entities.Announcement, error) {
	query, args, err := psql.Insert("announcements").
		Columns("title", "content", "priority", "audience", "created_by", "created_by_name", "expires_at").
		Values(a.Title, a.Content, a.Priority, a.Audience, a.CreatedBy, a.CreatedByName, a.ExpiresAt).
		Suffix("RETURNING id, date, updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	created := *a
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&created.ID, &created.Date, &created.UpdatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &created, nil
}

func (r *AnnouncementRepository) Update(ctx context.Context, a *entities.Announcement) error {
	query, args, err := psql.Update("announcements").
		Set("title", a.Title).
		Set("content", a.Content).
		Set("priority", a.Priority).
		Set("audience", a.Audience).
		Set("expires_at", a.ExpiresAt).
		Set("archived_at", a.ArchivedAt).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, "DELETE FROM announcements WHERE id = $1", id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ArchiveExpired помечает истёкшие объявления и возвращает их.
func (r *AnnouncementRepository) ArchiveExpired(ctx context.Context, now time.Time) ([]entities.Announcement, error) {
	query, args, err := psql.Update("announcements a").
		Set("archived_at", now).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"a.archived_at": nil}).
		Where(sq.NotEq{"a.expires_at": nil}).
		Where(sq.LtOrEq{"a.expires_at": now}).
		Suffix("RETURNING " + joinColumns(announcementColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectAnnouncements(rows)
}
