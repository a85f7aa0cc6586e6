package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dorm-portal/internal/entities"
	apperrors "dorm-portal/pkg/errors"
)

var taskColumns = []string{
	"t.id", "t.title", "t.description", "t.assigned_to_users", "t.assigned_to_positions",
	"t.status", "t.priority", "t.due_date", "t.created_by", "t.created_by_name", "t.created_at", "t.completed_at",
}

type CouncilTaskRepositoryInterface interface {
	List(ctx context.Context) ([]entities.CouncilTask, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.CouncilTask, error)
	Create(ctx context.Context, task *entities.CouncilTask) (*entities.CouncilTask, error)
	Update(ctx context.Context, tx pgx.Tx, task *entities.CouncilTask) error
	Delete(ctx context.Context, id uint64) error
}

type CouncilTaskRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCouncilTaskRepository(storage *pgxpool.Pool, logger *zap.Logger) CouncilTaskRepositoryInterface {
	return &CouncilTaskRepository{storage: storage, logger: logger}
}

func scanTask(row pgx.Row) (*entities.CouncilTask, error) {
	var t entities.CouncilTask
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.AssignedToUsers, &t.AssignedToPositions,
		&t.Status, &t.Priority, &t.DueDate, &t.CreatedBy, &t.CreatedByName, &t.CreatedAt, &t.CompletedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &t, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// List: незавершённые выше, затем по сроку.
func (r *CouncilTaskRepository) List(ctx context.Context) ([]entities.CouncilTask, error) {
	query, args, err := psql.Select(taskColumns...).From("council_tasks t").
		OrderBy("(t.status = 'completed') ASC", "t.due_date ASC NULLS LAST", "t.created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entities.CouncilTask, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *CouncilTaskRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.CouncilTask, error) {
	builder := psql.Select(taskColumns...).From("council_tasks t").Where(sq.Eq{"t.id": id})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanTask(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *CouncilTaskRepository) Create(ctx context.Context, task *entities.CouncilTask) (*entities.CouncilTask, error) {
	query, args, err := psql.Insert("council_tasks").
		Columns("title", "description", "assigned_to_users", "assigned_to_positions", "status", "priority",
			"due_date", "created_by", "created_by_name").
		Values(task.Title, task.Description, emptyIfNil(task.AssignedToUsers), emptyIfNil(task.AssignedToPositions),
			task.Status, task.Priority, task.DueDate, task.CreatedBy, task.CreatedByName).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	created := *task
	created.AssignedToUsers = emptyIfNil(task.AssignedToUsers)
	created.AssignedToPositions = emptyIfNil(task.AssignedToPositions)
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &created, nil
}

func (r *CouncilTaskRepository) Update(ctx context.Context, tx pgx.Tx, task *entities.CouncilTask) error {
	query, args, err := psql.Update("council_tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("assigned_to_users", emptyIfNil(task.AssignedToUsers)).
		Set("assigned_to_positions", emptyIfNil(task.AssignedToPositions)).
		Set("status", task.Status).
		Set("priority", task.Priority).
		Set("due_date", task.DueDate).
		Set("completed_at", task.CompletedAt).
		Where(sq.Eq{"id": task.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := getQuerier(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CouncilTaskRepository) Delete(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, "DELETE FROM council_tasks WHERE id = $1", id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
