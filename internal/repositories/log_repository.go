package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dorm-portal/internal/entities"
	"dorm-portal/internal/infrastructure/bd"
	"dorm-portal/pkg/types"
)

var logColumns = []string{
	"l.id", "l.action", "l.user_id", "l.user_name", "l.details",
	"l.target_user_id", "l.target_user_name", "l.created_at",
}

var logFieldMap = map[string]string{
	"action":         "l.action",
	"user_id":        "l.user_id",
	"target_user_id": "l.target_user_id",
	"created_at":     "l.created_at",
}

type LogRepositoryInterface interface {
	Create(ctx context.Context, entry *entities.LogEntry) error
	List(ctx context.Context, filter types.Filter) ([]entities.LogEntry, uint64, error)
}

type LogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewLogRepository(storage *pgxpool.Pool, logger *zap.Logger) LogRepositoryInterface {
	return &LogRepository{storage: storage, logger: logger}
}

func (r *LogRepository) Create(ctx context.Context, entry *entities.LogEntry) error {
	query, args, err := psql.Insert("logs").
		Columns("action", "user_id", "user_name", "details", "target_user_id", "target_user_name").
		Values(entry.Action, entry.UserID, entry.UserName, entry.Details, entry.TargetUserID, entry.TargetUserName).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.storage.Exec(ctx, query, args...)
	return mapPgError(err)
}

func (r *LogRepository) List(ctx context.Context, filter types.Filter) ([]entities.LogEntry, uint64, error) {
	countBuilder := psql.Select("COUNT(l.id)").From("logs l")
	countBuilder = bd.ApplySearch(countBuilder, filter.Search, "l.user_name", "l.details", "l.target_user_name")
	countBuilder = bd.ApplyListParams(countBuilder, bd.CountFilter(filter), logFieldMap)
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета записей журнала: %w", err)
	}
	if total == 0 {
		return []entities.LogEntry{}, 0, nil
	}

	builder := psql.Select(logColumns...).From("logs l")
	builder = bd.ApplySearch(builder, filter.Search, "l.user_name", "l.details", "l.target_user_name")
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("l.created_at DESC")
	}
	builder = bd.ApplyListParams(builder, filter, logFieldMap)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]entities.LogEntry, 0)
	for rows.Next() {
		var e entities.LogEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.UserID, &e.UserName, &e.Details,
			&e.TargetUserID, &e.TargetUserName, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}
