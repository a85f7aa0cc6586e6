package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dorm-portal/internal/entities"
	apperrors "dorm-portal/pkg/errors"
)

var notificationColumns = []string{"n.id", "n.user_id", "n.type", "n.title", "n.message", "n.is_read", "n.created_at"}

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *entities.Notification) (*entities.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset uint64) ([]entities.Notification, uint64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID uuid.UUID, id uint64) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID uuid.UUID, id uint64) error
}

type NotificationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewNotificationRepository(storage *pgxpool.Pool, logger *zap.Logger) NotificationRepositoryInterface {
	return &NotificationRepository{storage: storage, logger: logger}
}

func scanNotification(row pgx.Row) (*entities.Notification, error) {
	var n entities.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &n, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) (*entities.Notification, error) {
	query, args, err := psql.Insert("notifications").
		Columns("user_id", "type", "title", "message").
		Values(n.UserID, n.Type, n.Title, n.Message).
		Suffix("RETURNING id, is_read, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	created := *n
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&created.ID, &created.IsRead, &created.CreatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &created, nil
}

// ListByUser - непрочитанные первыми, внутри - новые сверху.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset uint64) ([]entities.Notification, uint64, error) {
	var total uint64
	if err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Notification{}, 0, nil
	}

	builder := psql.Select(notificationColumns...).From("notifications n").
		Where(sq.Eq{"n.user_id": userID}).
		OrderBy("n.is_read ASC", "n.created_at DESC")
	if limit > 0 {
		builder = builder.Limit(limit).Offset(offset)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]entities.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *n)
	}
	return out, total, rows.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read", userID).Scan(&count)
	return count, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID uuid.UUID, id uint64) error {
	tag, err := r.storage.Exec(ctx, "UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.storage.Exec(ctx, "UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read", userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) Delete(ctx context.Context, userID uuid.UUID, id uint64) error {
	tag, err := r.storage.Exec(ctx, "DELETE FROM notifications WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
