package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dorm-portal/internal/entities"
	apperrors "dorm-portal/pkg/errors"
)

var scoreColumns = []string{"cs.floor", "cs.score_date", "cs.room", "cs.score", "cs.inspector", "cs.inspector_id", "cs.updated_at"}

type CleanlinessRepositoryInterface interface {
	FindScore(ctx context.Context, tx pgx.Tx, floor int, date time.Time, room string) (*entities.CleanlinessScore, error)
	UpsertScore(ctx context.Context, tx pgx.Tx, score *entities.CleanlinessScore) error
	DeleteScore(ctx context.Context, tx pgx.Tx, floor int, date time.Time, room string) error
	ListByFloor(ctx context.Context, floor int, from, to time.Time) ([]entities.CleanlinessScore, error)
	ListByRoom(ctx context.Context, room string, from, to time.Time) ([]entities.CleanlinessScore, error)
	GetSettings(ctx context.Context) (*entities.CleanlinessSettings, error)
	SaveSettings(ctx context.Context, settings *entities.CleanlinessSettings) error
}

type CleanlinessRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCleanlinessRepository(storage *pgxpool.Pool, logger *zap.Logger) CleanlinessRepositoryInterface {
	return &CleanlinessRepository{storage: storage, logger: logger}
}

func scanScore(row pgx.Row) (*entities.CleanlinessScore, error) {
	var s entities.CleanlinessScore
	if err := row.Scan(&s.Floor, &s.Date, &s.Room, &s.Score, &s.Inspector, &s.InspectorID, &s.UpdatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &s, nil
}

func (r *CleanlinessRepository) queryScores(ctx context.Context, builder sq.SelectBuilder) ([]entities.CleanlinessScore, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make([]entities.CleanlinessScore, 0)
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, *s)
	}
	return scores, rows.Err()
}

func (r *CleanlinessRepository) FindScore(ctx context.Context, tx pgx.Tx, floor int, date time.Time, room string) (*entities.CleanlinessScore, error) {
	query, args, err := psql.Select(scoreColumns...).From("cleanliness_scores cs").
		Where(sq.Eq{"cs.floor": floor, "cs.score_date": date, "cs.room": room}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanScore(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

// UpsertScore перезаписывает оценку ячейки (этаж, дата, комната).
func (r *CleanlinessRepository) UpsertScore(ctx context.Context, tx pgx.Tx, score *entities.CleanlinessScore) error {
	query, args, err := psql.Insert("cleanliness_scores").
		Columns("floor", "score_date", "room", "score", "inspector", "inspector_id").
		Values(score.Floor, score.Date, score.Room, score.Score, score.Inspector, score.InspectorID).
		Suffix(`ON CONFLICT (floor, score_date, room) DO UPDATE
			SET score = EXCLUDED.score, inspector = EXCLUDED.inspector,
				inspector_id = EXCLUDED.inspector_id, updated_at = NOW()`).
		ToSql()
	if err != nil {
		return err
	}
	_, err = getQuerier(r.storage, tx).Exec(ctx, query, args...)
	return mapPgError(err)
}

func (r *CleanlinessRepository) DeleteScore(ctx context.Context, tx pgx.Tx, floor int, date time.Time, room string) error {
	query, args, err := psql.Delete("cleanliness_scores").
		Where(sq.Eq{"floor": floor, "score_date": date, "room": room}).ToSql()
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

func (r *CleanlinessRepository) ListByFloor(ctx context.Context, floor int, from, to time.Time) ([]entities.CleanlinessScore, error) {
	return r.queryScores(ctx, psql.Select(scoreColumns...).From("cleanliness_scores cs").
		Where(sq.Eq{"cs.floor": floor}).
		Where(sq.GtOrEq{"cs.score_date": from}).
		Where(sq.LtOrEq{"cs.score_date": to}).
		OrderBy("cs.score_date ASC", "cs.room ASC"))
}

func (r *CleanlinessRepository) ListByRoom(ctx context.Context, room string, from, to time.Time) ([]entities.CleanlinessScore, error) {
	return r.queryScores(ctx, psql.Select(scoreColumns...).From("cleanliness_scores cs").
		Where(sq.Eq{"cs.room": room}).
		Where(sq.GtOrEq{"cs.score_date": from}).
		Where(sq.LtOrEq{"cs.score_date": to}).
		OrderBy("cs.score_date ASC"))
}

// GetSettings возвращает пустые настройки, если строки ещё нет.
func (r *CleanlinessRepository) GetSettings(ctx context.Context) (*entities.CleanlinessSettings, error) {
	var raw []byte
	err := r.storage.QueryRow(ctx, "SELECT settings FROM cleanliness_settings WHERE id = 1").Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return &entities.CleanlinessSettings{}, nil
	}
	if err != nil {
		return nil, err
	}
	var settings entities.CleanlinessSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *CleanlinessRepository) SaveSettings(ctx context.Context, settings *entities.CleanlinessSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = r.storage.Exec(ctx, `
		INSERT INTO cleanliness_settings (id, settings, updated_at) VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET settings = EXCLUDED.settings, updated_at = NOW()`, raw)
	return mapPgError(err)
}
