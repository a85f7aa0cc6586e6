package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dorm-portal/internal/entities"
	"dorm-portal/internal/infrastructure/bd"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/types"
)

const (
	workShiftTable         = "work_shifts ws"
	archivedWorkShiftTable = "archived_work_shifts ws"
)

var workShiftColumns = []string{
	"ws.id", "ws.user_id", "ws.user_name", "ws.days", "ws.completed_days", "ws.reason",
	"ws.assigned_by", "ws.assigned_by_name", "ws.completed_by", "ws.completed_by_name",
	"ws.completed_at", "ws.created_at",
}

var workShiftFieldMap = map[string]string{
	"id":          "ws.id",
	"user_id":     "ws.user_id",
	"assigned_by": "ws.assigned_by",
	"days":        "ws.days",
	"created_at":  "ws.created_at",
}

// UserShiftSummary - строка сводной таблицы отработок по жильцам.
type UserShiftSummary struct {
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Shifts    int       `json:"shifts"`
	Remaining int       `json:"remaining"`
	Completed int       `json:"completed"`
}

type WorkShiftRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, shift *entities.WorkShift) (*entities.WorkShift, error)
	FindByID(ctx context.Context, id uint64) (*entities.WorkShift, error)
	FindForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.WorkShift, error)
	Complete(ctx context.Context, tx pgx.Tx, id uint64, days int, byID uuid.UUID, byName string) (*entities.WorkShift, error)
	ListActiveByUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]entities.WorkShift, error)
	List(ctx context.Context, filter types.Filter) ([]entities.WorkShift, uint64, error)
	ListAll(ctx context.Context) ([]entities.WorkShift, error)
	Summaries(ctx context.Context) ([]UserShiftSummary, error)
	Archive(ctx context.Context, tx pgx.Tx, ids []uint64, reason string, archivedBy null.String) (int64, error)
	ListArchived(ctx context.Context, userID *uuid.UUID) ([]entities.ArchivedWorkShift, error)
}

type WorkShiftRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewWorkShiftRepository(storage *pgxpool.Pool, logger *zap.Logger) WorkShiftRepositoryInterface {
	return &WorkShiftRepository{storage: storage, logger: logger}
}

func scanWorkShift(row pgx.Row) (*entities.WorkShift, error) {
	var w entities.WorkShift
	err := row.Scan(
		&w.ID, &w.UserID, &w.UserName, &w.Days, &w.CompletedDays, &w.Reason,
		&w.AssignedBy, &w.AssignedByName, &w.CompletedBy, &w.CompletedByName,
		&w.CompletedAt, &w.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &w, nil
}

func (r *WorkShiftRepository) queryShifts(ctx context.Context, q Querier, builder sq.SelectBuilder) ([]entities.WorkShift, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]entities.WorkShift, 0)
	for rows.Next() {
		w, err := scanWorkShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *w)
	}
	return shifts, rows.Err()
}

func (r *WorkShiftRepository) Create(ctx context.Context, tx pgx.Tx, shift *entities.WorkShift) (*entities.WorkShift, error) {
	query, args, err := psql.Insert("work_shifts").
		Columns("user_id", "user_name", "days", "completed_days", "reason", "assigned_by", "assigned_by_name").
		Values(shift.UserID, shift.UserName, shift.Days, 0, shift.Reason, shift.AssignedBy, shift.AssignedByName).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	created := *shift
	created.CompletedDays = 0
	if err := getQuerier(r.storage, tx).QueryRow(ctx, query, args...).Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &created, nil
}

func (r *WorkShiftRepository) FindByID(ctx context.Context, id uint64) (*entities.WorkShift, error) {
	query, args, err := psql.Select(workShiftColumns...).From(workShiftTable).Where(sq.Eq{"ws.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanWorkShift(r.storage.QueryRow(ctx, query, args...))
}

// FindForUpdate держит блокировку строки до конца транзакции,
// параллельное засчитывание дней ждёт.
func (r *WorkShiftRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.WorkShift, error) {
	query, args, err := psql.Select(workShiftColumns...).From(workShiftTable).
		Where(sq.Eq{"ws.id": id}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, err
	}
	return scanWorkShift(tx.QueryRow(ctx, query, args...))
}

// Complete прибавляет дни только если они помещаются в остаток.
// Ноль затронутых строк при существующей отработке - превышение остатка.
func (r *WorkShiftRepository) Complete(ctx context.Context, tx pgx.Tx, id uint64, days int, byID uuid.UUID, byName string) (*entities.WorkShift, error) {
	query, args, err := psql.Update("work_shifts ws").
		Set("completed_days", sq.Expr("ws.completed_days + ?", days)).
		Set("completed_by", byID.String()).
		Set("completed_by_name", byName).
		Set("completed_at", sq.Expr("NOW()")).
		Where(sq.Eq{"ws.id": id}).
		Where(sq.Expr("ws.completed_days + ? <= ws.days", days)).
		Suffix("RETURNING " + joinColumns(workShiftColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	shift, err := scanWorkShift(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return shift, nil
}

func (r *WorkShiftRepository) ListActiveByUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]entities.WorkShift, error) {
	builder := psql.Select(workShiftColumns...).From(workShiftTable).
		Where(sq.Eq{"ws.user_id": userID}).
		OrderBy("ws.created_at DESC")
	return r.queryShifts(ctx, getQuerier(r.storage, tx), builder)
}

func (r *WorkShiftRepository) List(ctx context.Context, filter types.Filter) ([]entities.WorkShift, uint64, error) {
	countBuilder := psql.Select("COUNT(ws.id)").From(workShiftTable)
	countBuilder = bd.ApplySearch(countBuilder, filter.Search, "ws.user_name", "ws.reason")
	countBuilder = bd.ApplyListParams(countBuilder, bd.CountFilter(filter), workShiftFieldMap)
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета отработок: %w", err)
	}
	if total == 0 {
		return []entities.WorkShift{}, 0, nil
	}

	builder := psql.Select(workShiftColumns...).From(workShiftTable)
	builder = bd.ApplySearch(builder, filter.Search, "ws.user_name", "ws.reason")
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("ws.created_at DESC")
	}
	builder = bd.ApplyListParams(builder, filter, workShiftFieldMap)

	shifts, err := r.queryShifts(ctx, r.storage, builder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения отработок: %w", err)
	}
	return shifts, total, nil
}

func (r *WorkShiftRepository) ListAll(ctx context.Context) ([]entities.WorkShift, error) {
	return r.queryShifts(ctx, r.storage, psql.Select(workShiftColumns...).From(workShiftTable).OrderBy("ws.user_name ASC", "ws.created_at ASC"))
}

func (r *WorkShiftRepository) Summaries(ctx context.Context) ([]UserShiftSummary, error) {
	query, args, err := psql.Select(
		"ws.user_id", "MAX(ws.user_name)", "COUNT(*)",
		"COALESCE(SUM(ws.days - ws.completed_days), 0)", "COALESCE(SUM(ws.completed_days), 0)",
	).From(workShiftTable).GroupBy("ws.user_id").OrderBy("MAX(ws.user_name) ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UserShiftSummary, 0)
	for rows.Next() {
		var s UserShiftSummary
		if err := rows.Scan(&s.UserID, &s.UserName, &s.Shifts, &s.Remaining, &s.Completed); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Archive переносит отработки в архив и удаляет их из активных одним запросом.
func (r *WorkShiftRepository) Archive(ctx context.Context, tx pgx.Tx, ids []uint64, reason string, archivedBy null.String) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const query = `
		WITH moved AS (
			DELETE FROM work_shifts WHERE id = ANY($1) RETURNING *
		)
		INSERT INTO archived_work_shifts (
			id, user_id, user_name, days, completed_days, reason, assigned_by, assigned_by_name,
			completed_by, completed_by_name, completed_at, created_at, archive_reason, archived_by
		)
		SELECT id, user_id, user_name, days, completed_days, reason, assigned_by, assigned_by_name,
			completed_by, completed_by_name, completed_at, created_at, $2, $3
		FROM moved`
	tag, err := getQuerier(r.storage, tx).Exec(ctx, query, ids, reason, archivedBy)
	if err != nil {
		return 0, mapPgError(err)
	}
	return tag.RowsAffected(), nil
}

func (r *WorkShiftRepository) ListArchived(ctx context.Context, userID *uuid.UUID) ([]entities.ArchivedWorkShift, error) {
	cols := append(append([]string{}, workShiftColumns...), "ws.archived_at", "ws.archive_reason", "ws.archived_by")
	builder := psql.Select(cols...).From(archivedWorkShiftTable).OrderBy("ws.archived_at DESC")
	if userID != nil {
		builder = builder.Where(sq.Eq{"ws.user_id": *userID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entities.ArchivedWorkShift, 0)
	for rows.Next() {
		var a entities.ArchivedWorkShift
		w := &a.WorkShift
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.UserName, &w.Days, &w.CompletedDays, &w.Reason,
			&w.AssignedBy, &w.AssignedByName, &w.CompletedBy, &w.CompletedByName,
			&w.CompletedAt, &w.CreatedAt, &a.ArchivedAt, &a.ArchiveReason, &a.ArchivedBy,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
