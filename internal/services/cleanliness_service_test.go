package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/dto"
	"dorm-portal/internal/entities"
	"dorm-portal/pkg/config"
)

// среда, 9 октября 2024
var cleanlinessNow = time.Date(2024, 10, 9, 12, 0, 0, 0, time.UTC)

func newCleanlinessFixture() (*CleanlinessService, *fakeCleanlinessRepo, *capturePublisher) {
	dorm := config.DefaultDormConfig()
	dorm.TimeZone = "UTC"
	repo := newFakeCleanlinessRepo()
	bus := &capturePublisher{}
	svc := NewCleanlinessService(repo, newFakeCache(), fakeTx{}, bus, nil, dorm, zap.NewNop())
	svc.now = func() time.Time { return cleanlinessNow }
	return svc, repo, bus
}

func TestSetScoreEditWindow(t *testing.T) {
	svc, _, bus := newCleanlinessFixture()
	inspector := ctxAs(testActor(authz.RoleMember, "", authz.FloorCleanliness(3)))

	_, err := svc.SetScore(inspector, dto.SetScoreDTO{Floor: 3, Date: "2024-10-09", Room: "301", Score: 5})
	require.NoError(t, err)
	_, err = svc.SetScore(inspector, dto.SetScoreDTO{Floor: 3, Date: "2024-10-09", Room: "301", Score: 4})
	require.NoError(t, err, "сегодняшнюю оценку можно исправить")

	_, err = svc.SetScore(inspector, dto.SetScoreDTO{Floor: 3, Date: "2024-10-08", Room: "302", Score: 3})
	require.NoError(t, err, "новая оценка за вчера")
	_, err = svc.SetScore(inspector, dto.SetScoreDTO{Floor: 3, Date: "2024-10-08", Room: "302", Score: 4})
	assert.Equal(t, http.StatusForbidden, statusOf(err), "вчерашнюю оценку не исправить")

	_, err = svc.SetScore(inspector, dto.SetScoreDTO{Floor: 3, Date: "2024-10-07", Room: "303", Score: 4})
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	_, err = svc.SetScore(ctxAs(testActor(authz.RoleManager, "")), dto.SetScoreDTO{Floor: 3, Date: "2024-10-07", Room: "303", Score: 4})
	assert.Equal(t, http.StatusForbidden, statusOf(err), "окно одно для всех ролей")

	assert.Len(t, bus.names(), 3)
}

func TestSetScoreRightsAndRooms(t *testing.T) {
	svc, repo, _ := newCleanlinessFixture()
	today := "2024-10-09"
	repo.settings = &entities.CleanlinessSettings{ClosedRooms: map[string][]string{today: {"305"}}}

	_, err := svc.SetScore(ctxAs(testActor(authz.RoleMember, "", authz.FloorCleanliness(4))), dto.SetScoreDTO{Floor: 3, Date: today, Room: "301", Score: 5})
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	_, err = svc.SetScore(ctxAs(testActor(authz.RoleMember, "", authz.Position{Kind: authz.KindChairman})), dto.SetScoreDTO{Floor: 3, Date: today, Room: "301", Score: 5})
	assert.Equal(t, http.StatusForbidden, statusOf(err), "председатель чистоту не оценивает")

	head := ctxAs(testActor(authz.RoleMember, "", authz.FloorHead(3)))
	_, err = svc.SetScore(head, dto.SetScoreDTO{Floor: 3, Date: today, Room: "412", Score: 5})
	assert.Equal(t, http.StatusBadRequest, statusOf(err), "комната другого этажа")

	_, err = svc.SetScore(head, dto.SetScoreDTO{Floor: 3, Date: today, Room: "321", Score: 5})
	assert.Equal(t, http.StatusBadRequest, statusOf(err), "на этаже двадцать комнат")

	_, err = svc.SetScore(head, dto.SetScoreDTO{Floor: 3, Date: today, Room: "301", Score: 1})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, err = svc.SetScore(head, dto.SetScoreDTO{Floor: 3, Date: today, Room: "305", Score: 5})
	assert.Equal(t, http.StatusBadRequest, statusOf(err), "закрытая комната")
}

func TestDeleteScoreOnlyToday(t *testing.T) {
	svc, repo, _ := newCleanlinessFixture()
	head := ctxAs(testActor(authz.RoleMember, "", authz.FloorHead(2)))

	_, err := svc.SetScore(head, dto.SetScoreDTO{Floor: 2, Date: "2024-10-08", Room: "201", Score: 5})
	require.NoError(t, err)
	err = svc.DeleteScore(head, dto.DeleteScoreDTO{Floor: 2, Date: "2024-10-08", Room: "201"})
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	_, err = svc.SetScore(head, dto.SetScoreDTO{Floor: 2, Date: "2024-10-09", Room: "201", Score: 5})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteScore(head, dto.DeleteScoreDTO{Floor: 2, Date: "2024-10-09", Room: "201"}))
	assert.Len(t, repo.scores, 1)
}

func TestFloorGridAndAverages(t *testing.T) {
	svc, repo, _ := newCleanlinessFixture()
	ctx := ctxAs(testActor(authz.RoleMember, "302"))
	day := func(d int) time.Time { return time.Date(2024, 10, d, 0, 0, 0, 0, time.UTC) }

	for _, s := range []entities.CleanlinessScore{
		{Floor: 3, Date: day(8), Room: "301", Score: 4},
		{Floor: 3, Date: day(9), Room: "301", Score: 5},
		{Floor: 3, Date: day(12), Room: "301", Score: 2}, // суббота
		{Floor: 3, Date: day(9), Room: "302", Score: 3},
	} {
		s := s
		require.NoError(t, repo.UpsertScore(ctx, nil, &s))
	}

	from, to, err := svc.Period("", "", 0)
	require.NoError(t, err)
	assert.Equal(t, day(7), from)
	assert.Equal(t, day(13), to)

	grid, err := svc.FloorGrid(ctx, 3, from, to)
	require.NoError(t, err)
	assert.Len(t, grid.Rooms, 20)
	require.Len(t, grid.Days, 7)
	assert.True(t, grid.Days[0].Working)
	assert.False(t, grid.Days[4].Working, "пятница")
	assert.Equal(t, 5, grid.Cells["301"]["2024-10-09"].Score)
	require.NotNil(t, grid.Averages["301"])
	assert.Equal(t, 4.5, *grid.Averages["301"], "суббота не считается")
	assert.Nil(t, grid.Averages["320"])

	avgs, err := svc.FloorAverages(ctx, 3, from, to)
	require.NoError(t, err)
	assert.Equal(t, "301", avgs[0].Room)
	assert.Equal(t, 3, avgs[0].Scores)
	assert.Equal(t, "302", avgs[1].Room)

	room, err := svc.RoomAverage(ctx, "301", from, to)
	require.NoError(t, err)
	require.NotNil(t, room.Average)
	assert.Equal(t, 4.5, *room.Average)

	_, err = svc.FloorGrid(ctx, 6, from, to)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
	_, err = svc.FloorGrid(ctx, 3, from, from.AddDate(0, 3, 0))
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestCleanlinessSettingsCache(t *testing.T) {
	svc, repo, _ := newCleanlinessFixture()
	ctx := ctxAs(testActor(authz.RoleModerator, ""))

	_, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	_, err = svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.reads, "второе чтение из кеша")

	_, err = svc.SaveSettings(ctxAs(testActor(authz.RoleMember, "", authz.FloorHead(3))), dto.CleanlinessSettingsDTO{})
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	_, err = svc.SaveSettings(ctx, dto.CleanlinessSettingsDTO{Rooms: map[string][]string{"3": {"401"}}})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	saved, err := svc.SaveSettings(ctx, dto.CleanlinessSettingsDTO{
		Rooms:                 map[string][]string{"3": {"301", "302"}},
		DefaultNonWorkingDays: []int{6, 7},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{6, 7}, saved.DefaultNonWorkingDays)

	got, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.reads, "кеш сброшен после сохранения")
	assert.Equal(t, []string{"301", "302"}, got.Rooms["3"])
}
