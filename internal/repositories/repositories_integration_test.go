package repositories

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dorm-portal/internal/entities"
	"dorm-portal/pkg/database/migrations"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/types"
)

var testPool *pgxpool.Pool

// TestMain подключается к TEST_DATABASE_URL и применяет миграции.
// Без переменной интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		ctx := context.Background()
		pool, err := pgxpool.New(ctx, dsn)
		if err == nil {
			if err = migrations.Up(ctx, pool); err == nil {
				testPool = pool
			}
		}
		if testPool == nil && pool != nil {
			pool.Close()
		}
	}

	code := m.Run()
	if testPool != nil {
		testPool.Close()
	}
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан")
	}
	_, err := testPool.Exec(context.Background(), `TRUNCATE TABLE council_tasks, logs, notifications, announcements,
		cleanliness_settings, cleanliness_scores, archived_work_shifts, work_shifts, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

func seedUser(t *testing.T, repo UserRepositoryInterface, email, room string) *entities.User {
	t.Helper()
	u, err := repo.Create(context.Background(), nil, &entities.User{
		Email:         email,
		Name:          "Жилец " + email,
		Password:      "hash",
		Role:          "member",
		Room:          null.NewString(room, room != ""),
		RoomConfirmed: room != "",
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository_Integration(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewUserRepository(testPool, zap.NewNop())

	a := seedUser(t, repo, "a@dorm.test", "301")
	seedUser(t, repo, "b@dorm.test", "412")

	_, err := repo.Create(ctx, nil, &entities.User{Email: "A@dorm.test", Name: "dup", Password: "x", Role: "member"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	found, err := repo.FindByEmail(ctx, "A@DORM.TEST")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)
	assert.Empty(t, found.Positions)

	_, err = repo.FindByID(ctx, nil, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	users, total, err := repo.GetUsers(ctx, types.Filter{Filter: map[string]interface{}{"floor": "3"}, Limit: 10, WithPagination: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "301", users[0].Room.String)

	require.NoError(t, repo.UpdateRoom(ctx, nil, a.ID, "301", "305", false))
	pending, err := repo.ListPendingRooms(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "305", pending[0].PendingRoom.String)

	// подтверждённая комната с незакрытой заявкой запрещена схемой
	err = repo.UpdateRoom(ctx, nil, a.ID, "301", "305", true)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	require.NoError(t, repo.UpdatePositions(ctx, nil, a.ID, []string{"floor_3_head"}))
	heads, err := repo.ListByPositions(ctx, []string{"floor_3_head", "chairman"})
	require.NoError(t, err)
	require.Len(t, heads, 1)
	assert.Equal(t, a.ID, heads[0].ID)
}

func TestWorkShiftRepository_Integration_CompleteIsGuarded(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	users := NewUserRepository(testPool, zap.NewNop())
	repo := NewWorkShiftRepository(testPool, zap.NewNop())
	txm := NewTxManager(testPool)

	u := seedUser(t, users, "w@dorm.test", "210")
	shift, err := repo.Create(ctx, nil, &entities.WorkShift{
		UserID: u.ID, UserName: u.Name, Days: 3, Reason: "опоздание на дежурство",
		AssignedBy: u.ID, AssignedByName: u.Name,
	})
	require.NoError(t, err)

	// два параллельных засчитывания по 2 дня: пройти может только одно
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = txm.RunInTransaction(ctx, func(tx pgx.Tx) error {
				if _, err := repo.FindForUpdate(ctx, tx, shift.ID); err != nil {
					return err
				}
				_, err := repo.Complete(ctx, tx, shift.ID, 2, u.ID, u.Name)
				return err
			})
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range results {
		if err != nil {
			assert.ErrorIs(t, err, apperrors.ErrConflict)
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	got, err := repo.FindByID(ctx, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CompletedDays)

	n, err := repo.Archive(ctx, nil, []uint64{shift.ID}, entities.ArchiveReasonDeleted, null.StringFrom(u.ID.String()))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	archived, err := repo.ListArchived(ctx, &u.ID)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, shift.ID, archived[0].ID)
	assert.Equal(t, entities.ArchiveReasonDeleted, archived[0].ArchiveReason)

	active, err := repo.ListActiveByUser(ctx, nil, u.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCleanlinessRepository_Integration_Upsert(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewCleanlinessRepository(testPool, zap.NewNop())
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	inspector := uuid.New()

	require.NoError(t, repo.UpsertScore(ctx, nil, &entities.CleanlinessScore{Floor: 3, Date: day, Room: "301", Score: 4, Inspector: "A", InspectorID: inspector}))
	require.NoError(t, repo.UpsertScore(ctx, nil, &entities.CleanlinessScore{Floor: 3, Date: day, Room: "301", Score: 2, Inspector: "B", InspectorID: inspector}))

	scores, err := repo.ListByFloor(ctx, 3, day, day)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 2, scores[0].Score)
	assert.Equal(t, "B", scores[0].Inspector)

	require.NoError(t, repo.DeleteScore(ctx, nil, 3, day, "301"))
	assert.ErrorIs(t, repo.DeleteScore(ctx, nil, 3, day, "301"), apperrors.ErrNotFound)

	settings, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Empty(t, settings.Rooms)

	settings.DefaultNonWorkingDays = []int{6, 7}
	settings.WorkingDays = map[string]bool{"2025-03-15": true}
	require.NoError(t, repo.SaveSettings(ctx, settings))
	loaded, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 7}, loaded.DefaultNonWorkingDays)
	assert.True(t, loaded.WorkingDays["2025-03-15"])
}

func TestAnnouncementRepository_Integration_ArchiveExpired(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewAnnouncementRepository(testPool, zap.NewNop())
	now := time.Now()

	expired, err := repo.Create(ctx, &entities.Announcement{
		Title: "Отключение воды", Content: "-", Priority: "high", Audience: "all",
		CreatedBy: uuid.New(), CreatedByName: "Комендант", ExpiresAt: null.TimeFrom(now.Add(-time.Minute)),
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &entities.Announcement{
		Title: "Собрание", Content: "-", Priority: "low", Audience: "floor_3",
		CreatedBy: uuid.New(), CreatedByName: "Староста",
	})
	require.NoError(t, err)

	archived, err := repo.ArchiveExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, expired.ID, archived[0].ID)

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	again, err := repo.ArchiveExpired(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, again)
}
