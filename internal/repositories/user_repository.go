package repositories

import (
	"context"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dorm-portal/internal/entities"
	"dorm-portal/internal/infrastructure/bd"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/types"
)

const userTable = "users u"

var userColumns = []string{
	"u.id", "u.email", "u.name", "u.password", "u.role", "u.positions",
	"u.room", "u.pending_room", "u.room_confirmed",
	"u.group_name", "u.entry_group", "u.study_years", "u.registered_at",
	"u.is_frozen", "u.created_at", "u.updated_at",
}

var userFieldMap = map[string]string{
	"id":            "u.id",
	"name":          "u.name",
	"email":         "u.email",
	"role":          "u.role",
	"room":          "u.room",
	"group":         "u.group_name",
	"is_frozen":     "u.is_frozen",
	"registered_at": "u.registered_at",
	"created_at":    "u.created_at",
}

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.User, error)
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.User, error)
	ListByRoom(ctx context.Context, tx pgx.Tx, room string) ([]entities.User, error)
	ListPendingRooms(ctx context.Context) ([]entities.User, error)
	ListByPositions(ctx context.Context, keys []string) ([]entities.User, error)
	ListForCourseSweep(ctx context.Context) ([]entities.User, error)
	Create(ctx context.Context, tx pgx.Tx, user *entities.User) (*entities.User, error)
	UpdateProfile(ctx context.Context, tx pgx.Tx, user *entities.User) error
	UpdateRoom(ctx context.Context, tx pgx.Tx, id uuid.UUID, room, pendingRoom string, confirmed bool) error
	UpdateRole(ctx context.Context, tx pgx.Tx, id uuid.UUID, role string) error
	UpdatePositions(ctx context.Context, tx pgx.Tx, id uuid.UUID, positions []string) error
	UpdateGroup(ctx context.Context, tx pgx.Tx, id uuid.UUID, group string) error
	SetFrozen(ctx context.Context, tx pgx.Tx, id uuid.UUID, frozen bool) error
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Password, &u.Role, &u.Positions,
		&u.Room, &u.PendingRoom, &u.RoomConfirmed,
		&u.Group, &u.EntryGroup, &u.StudyYears, &u.RegisteredAt,
		&u.IsFrozen, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	if u.Positions == nil {
		u.Positions = []string{}
	}
	return &u, nil
}

func (r *UserRepository) queryUsers(ctx context.Context, q Querier, builder sq.SelectBuilder) ([]entities.User, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// applyFloor - filter[floor]=3 превращается в условие по первой цифре комнаты.
func applyFloor(b sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	raw, ok := filter.Filter["floor"]
	if !ok {
		return b
	}
	floor, err := strconv.Atoi(fmt.Sprint(raw))
	if err != nil {
		return b
	}
	return b.Where(sq.Like{"u.room": fmt.Sprintf("%d__", floor)})
}

func (r *UserRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	countBuilder := psql.Select("COUNT(u.id)").From(userTable)
	countBuilder = bd.ApplySearch(countBuilder, filter.Search, "u.name", "u.email", "u.group_name", "u.room")
	countBuilder = applyFloor(countBuilder, filter)
	countBuilder = bd.ApplyListParams(countBuilder, bd.CountFilter(filter), userFieldMap)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета пользователей: %w", err)
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	builder := psql.Select(userColumns...).From(userTable)
	builder = bd.ApplySearch(builder, filter.Search, "u.name", "u.email", "u.group_name", "u.room")
	builder = applyFloor(builder, filter)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("u.name ASC")
	}
	builder = bd.ApplyListParams(builder, filter, userFieldMap)

	users, err := r.queryUsers(ctx, r.storage, builder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения пользователей: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) findOne(ctx context.Context, q Querier, where sq.Sqlizer, suffix string) (*entities.User, error) {
	builder := psql.Select(userColumns...).From(userTable).Where(where)
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(q.QueryRow(ctx, query, args...))
}

func (r *UserRepository) FindByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.User, error) {
	return r.findOne(ctx, getQuerier(r.storage, tx), sq.Eq{"u.id": id}, "")
}

// FindByIDForUpdate блокирует строку до конца транзакции.
func (r *UserRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.User, error) {
	return r.findOne(ctx, tx, sq.Eq{"u.id": id}, "FOR UPDATE")
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, r.storage, sq.Expr("LOWER(u.email) = LOWER(?)", email), "")
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.User, error) {
	if len(ids) == 0 {
		return []entities.User{}, nil
	}
	return r.queryUsers(ctx, r.storage, psql.Select(userColumns...).From(userTable).Where(sq.Eq{"u.id": ids}))
}

// ListByRoom - подтверждённые жильцы комнаты.
func (r *UserRepository) ListByRoom(ctx context.Context, tx pgx.Tx, room string) ([]entities.User, error) {
	builder := psql.Select(userColumns...).From(userTable).
		Where(sq.Eq{"u.room": room, "u.room_confirmed": true}).
		OrderBy("u.name ASC")
	return r.queryUsers(ctx, getQuerier(r.storage, tx), builder)
}

func (r *UserRepository) ListPendingRooms(ctx context.Context) ([]entities.User, error) {
	builder := psql.Select(userColumns...).From(userTable).
		Where(sq.NotEq{"u.pending_room": nil}).
		OrderBy("u.updated_at ASC")
	return r.queryUsers(ctx, r.storage, builder)
}

// ListByPositions - пользователи, у которых есть хотя бы одна из должностей.
func (r *UserRepository) ListByPositions(ctx context.Context, keys []string) ([]entities.User, error) {
	if len(keys) == 0 {
		return []entities.User{}, nil
	}
	builder := psql.Select(userColumns...).From(userTable).Where(sq.Expr("u.positions && ?", keys))
	return r.queryUsers(ctx, r.storage, builder)
}

func (r *UserRepository) ListForCourseSweep(ctx context.Context) ([]entities.User, error) {
	builder := psql.Select(userColumns...).From(userTable).
		Where(sq.Eq{"u.role": "member"}).
		Where(sq.NotEq{"u.entry_group": nil, "u.study_years": nil})
	return r.queryUsers(ctx, r.storage, builder)
}

func (r *UserRepository) Create(ctx context.Context, tx pgx.Tx, user *entities.User) (*entities.User, error) {
	positions := user.Positions
	if positions == nil {
		positions = []string{}
	}
	query, args, err := psql.Insert("users").
		Columns("email", "name", "password", "role", "positions", "room", "pending_room", "room_confirmed",
			"group_name", "entry_group", "study_years").
		Values(user.Email, user.Name, user.Password, user.Role, positions, user.Room, user.PendingRoom, user.RoomConfirmed,
			user.Group, user.EntryGroup, user.StudyYears).
		Suffix("RETURNING id, registered_at, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	created := *user
	created.Positions = positions
	if err := getQuerier(r.storage, tx).QueryRow(ctx, query, args...).
		Scan(&created.ID, &created.RegisteredAt, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &created, nil
}

func (r *UserRepository) update(ctx context.Context, tx pgx.Tx, id uuid.UUID, set map[string]interface{}) error {
	set["updated_at"] = sq.Expr("NOW()")
	query, args, err := psql.Update("users").SetMap(set).Where(sq.Eq{"id": id}).ToSql()
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

func (r *UserRepository) UpdateProfile(ctx context.Context, tx pgx.Tx, user *entities.User) error {
	return r.update(ctx, tx, user.ID, map[string]interface{}{
		"name":        user.Name,
		"group_name":  user.Group,
		"entry_group": user.EntryGroup,
		"study_years": user.StudyYears,
	})
}

// UpdateRoom пишет все три поля комнаты одним UPDATE.
func (r *UserRepository) UpdateRoom(ctx context.Context, tx pgx.Tx, id uuid.UUID, room, pendingRoom string, confirmed bool) error {
	return r.update(ctx, tx, id, map[string]interface{}{
		"room":           nullIfEmpty(room),
		"pending_room":   nullIfEmpty(pendingRoom),
		"room_confirmed": confirmed,
	})
}

func (r *UserRepository) UpdateRole(ctx context.Context, tx pgx.Tx, id uuid.UUID, role string) error {
	return r.update(ctx, tx, id, map[string]interface{}{"role": role})
}

func (r *UserRepository) UpdatePositions(ctx context.Context, tx pgx.Tx, id uuid.UUID, positions []string) error {
	if positions == nil {
		positions = []string{}
	}
	return r.update(ctx, tx, id, map[string]interface{}{"positions": positions})
}

func (r *UserRepository) UpdateGroup(ctx context.Context, tx pgx.Tx, id uuid.UUID, group string) error {
	return r.update(ctx, tx, id, map[string]interface{}{"group_name": group})
}

func (r *UserRepository) SetFrozen(ctx context.Context, tx pgx.Tx, id uuid.UUID, frozen bool) error {
	return r.update(ctx, tx, id, map[string]interface{}{"is_frozen": frozen})
}

func (r *UserRepository) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := getQuerier(r.storage, tx).Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
