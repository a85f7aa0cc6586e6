package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/dto"
	"dorm-portal/internal/events"
)

func TestTaskCreateNotifiesAssignees(t *testing.T) {
	media := resident("Медиа", "201", true)
	media.Positions = []string{"media_sector"}
	direct := resident("Лично", "202", true)
	users := newFakeUserRepo(media, direct)
	bus := &capturePublisher{}
	svc := NewTaskService(newFakeTaskRepo(), users, fakeTx{}, bus, zap.NewNop())

	secretary := testActor(authz.RoleMember, "", authz.Position{Kind: authz.KindSecretary})
	task, err := svc.Create(ctxAs(secretary), dto.CreateTaskDTO{
		Title:               "Стенгазета",
		AssignedToUsers:     []string{direct.ID.String(), secretary.ID.String()},
		AssignedToPositions: []string{"media_sector"},
		Priority:            "urgent",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", task.Status)
	assert.Equal(t, "medium", task.Priority)

	ev := bus.last().(events.TaskChanged)
	var notified []uuid.UUID
	for _, n := range ev.Notices() {
		notified = append(notified, n.UserID)
	}
	assert.ElementsMatch(t, []uuid.UUID{media.ID, direct.ID}, notified, "себя не уведомляют")

	_, err = svc.Create(ctxAs(testActor(authz.RoleMember, "", authz.FloorHead(3))), dto.CreateTaskDTO{Title: "x"})
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	_, err = svc.Create(ctxAs(secretary), dto.CreateTaskDTO{Title: "x", AssignedToPositions: []string{"janitor"}})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestTaskUpdateNotifiesOnlyNewcomers(t *testing.T) {
	first := resident("Первый", "301", true)
	second := resident("Второй", "302", true)
	bus := &capturePublisher{}
	svc := NewTaskService(newFakeTaskRepo(), newFakeUserRepo(first, second), fakeTx{}, bus, zap.NewNop())
	chairman := ctxAs(testActor(authz.RoleMember, "", authz.Position{Kind: authz.KindChairman}))

	task, err := svc.Create(chairman, dto.CreateTaskDTO{Title: "Субботник", AssignedToUsers: []string{first.ID.String()}})
	require.NoError(t, err)

	_, err = svc.Update(chairman, task.ID, dto.UpdateTaskDTO{AssignedToUsers: []string{first.ID.String(), second.ID.String()}})
	require.NoError(t, err)
	ev := bus.last().(events.TaskChanged)
	assert.Equal(t, []uuid.UUID{second.ID}, ev.Notify)
}

func TestTaskStatusTransitions(t *testing.T) {
	head := resident("Староста", "401", true)
	head.Positions = []string{"floor_4_head"}
	bus := &capturePublisher{}
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, newFakeUserRepo(head), fakeTx{}, bus, zap.NewNop())
	manager := ctxAs(testActor(authz.RoleManager, ""))

	task, err := svc.Create(manager, dto.CreateTaskDTO{Title: "Проверка", AssignedToPositions: []string{"floor_4_head"}})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctxAs(testActor(authz.RoleMember, "402")), task.ID, "in_progress")
	assert.Equal(t, http.StatusForbidden, statusOf(err), "не исполнитель")

	assignee := ctxAs(authz.Actor{ID: head.ID, Name: head.Name, Role: authz.RoleMember, Positions: authz.Positions{authz.FloorHead(4)}})
	got, err := svc.ChangeStatus(assignee, task.ID, "in_progress")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", got.Status)
	assert.Empty(t, bus.last().(events.TaskChanged).Notices())

	_, err = svc.ChangeStatus(assignee, task.ID, "pending")
	assert.Equal(t, http.StatusConflict, statusOf(err), "назад нельзя")

	got, err = svc.ChangeStatus(assignee, task.ID, "completed")
	require.NoError(t, err)
	assert.True(t, got.CompletedAt.Valid)

	_, err = svc.ChangeStatus(manager, task.ID, "completed")
	assert.Equal(t, http.StatusConflict, statusOf(err))

	views, err := svc.List(assignee)
	require.NoError(t, err)
	assert.Len(t, views, 1)
	_, err = svc.List(ctxAs(testActor(authz.RoleMember, "402")))
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	require.NoError(t, svc.Delete(manager, task.ID))
	assert.Empty(t, repo.items)
}
