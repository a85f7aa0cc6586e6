package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/events"
)

func TestRoomRequestApproveFlow(t *testing.T) {
	head := resident("Староста", "301", true)
	head.Positions = []string{"floor_3_head"}
	student := resident("Иван", "", false)
	repo := newFakeUserRepo(head, student)
	bus := &capturePublisher{}
	svc := NewRoomService(repo, newFakeCache(), fakeTx{}, bus, nil, zap.NewNop())

	res, err := svc.Request(ctxAs(authz.ActorFromUser(&student)), "312")
	require.NoError(t, err)
	assert.Equal(t, "312", res.PendingRoom)
	assert.Equal(t, "pending_approval", res.RoomState)

	requested, ok := bus.last().(events.RoomRequested)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{head.ID}, requested.FloorHeads)
	assert.Empty(t, requested.Superseded)

	_, err = svc.Approve(ctxAs(testActor(authz.RoleMember, "401", authz.FloorHead(4))), student.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(err), "староста чужого этажа")

	res, err = svc.Approve(ctxAs(authz.ActorFromUser(&head)), student.ID)
	require.NoError(t, err)
	assert.Equal(t, "312", res.Room)
	assert.True(t, res.RoomConfirmed)
	assert.Empty(t, res.PendingRoom)

	decided, ok := bus.last().(events.RoomDecided)
	require.True(t, ok)
	assert.True(t, decided.Approved)
	assert.Equal(t, "312", decided.Room)

	_, err = svc.Approve(ctxAs(authz.ActorFromUser(&head)), student.ID)
	assert.Equal(t, http.StatusConflict, statusOf(err), "заявки больше нет")
}

func TestRoomRequestSupersedesAndReject(t *testing.T) {
	student := resident("Пётр", "205", true)
	repo := newFakeUserRepo(student)
	bus := &capturePublisher{}
	svc := NewRoomService(repo, newFakeCache(), fakeTx{}, bus, nil, zap.NewNop())
	ctx := ctxAs(authz.ActorFromUser(&student))

	_, err := svc.Request(ctx, "205")
	assert.Equal(t, http.StatusBadRequest, statusOf(err), "уже живёт в этой комнате")

	_, err = svc.Request(ctx, "410")
	require.NoError(t, err)
	_, err = svc.Request(ctx, "411")
	require.NoError(t, err)
	assert.Equal(t, "410", bus.last().(events.RoomRequested).Superseded)

	res, err := svc.Reject(ctxAs(testActor(authz.RoleModerator, "")), student.ID)
	require.NoError(t, err)
	assert.Equal(t, "205", res.Room, "комната не меняется")
	assert.False(t, res.RoomConfirmed)
	assert.Equal(t, "rejected", res.RoomState)

	decided := bus.last().(events.RoomDecided)
	assert.False(t, decided.Approved)
	assert.Equal(t, "411", decided.Room)
}

func TestRoomRequestValidation(t *testing.T) {
	student := resident("Анна", "", false)
	svc := NewRoomService(newFakeUserRepo(student), newFakeCache(), fakeTx{}, &capturePublisher{}, nil, zap.NewNop())

	_, err := svc.Request(ctxAs(authz.ActorFromUser(&student)), "")
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, err = svc.Request(ctxAs(authz.ActorFromUser(&student)), "abc")
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestUnrecognizedFloorIsDecidedByLeadership(t *testing.T) {
	head := resident("Староста", "201", true)
	head.Positions = []string{"floor_2_head"}
	student := resident("Олег", "", false)
	repo := newFakeUserRepo(head, student)
	bus := &capturePublisher{}
	svc := NewRoomService(repo, newFakeCache(), fakeTx{}, bus, nil, zap.NewNop())

	res, err := svc.Request(ctxAs(authz.ActorFromUser(&student)), "101")
	require.NoError(t, err)
	assert.Equal(t, "101", res.PendingRoom)
	assert.Empty(t, bus.last().(events.RoomRequested).FloorHeads, "у этажа нет старост")

	_, err = svc.Approve(ctxAs(authz.ActorFromUser(&head)), student.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(err), "староста не решает по нераспознанному этажу")

	list, err := svc.ListPending(ctxAs(authz.ActorFromUser(&head)))
	require.NoError(t, err)
	assert.Empty(t, list)

	res, err = svc.Approve(ctxAs(testActor(authz.RoleAdmin, "")), student.ID)
	require.NoError(t, err)
	assert.Equal(t, "101", res.Room)
	assert.True(t, res.RoomConfirmed)
}

func TestListPendingOnlyDecidable(t *testing.T) {
	a := resident("А", "", false)
	a.PendingRoom.SetValid("301")
	b := resident("Б", "", false)
	b.PendingRoom.SetValid("402")
	svc := NewRoomService(newFakeUserRepo(a, b), newFakeCache(), fakeTx{}, &capturePublisher{}, nil, zap.NewNop())

	list, err := svc.ListPending(ctxAs(testActor(authz.RoleMember, "", authz.FloorHead(3))))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "301", list[0].PendingRoom)
	assert.Equal(t, 3, list[0].Floor)

	list, err = svc.ListPending(ctxAs(testActor(authz.RoleMember, "", authz.Position{Kind: authz.KindChairman})))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = svc.ListPending(ctxAs(testActor(authz.RoleMember, "305")))
	require.NoError(t, err)
	assert.Empty(t, list)
}
