package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/entities"
)

func TestTransitionTask(t *testing.T) {
	assert.NoError(t, TransitionTask(TaskPending, TaskInProgress))
	assert.NoError(t, TransitionTask(TaskPending, TaskCompleted))
	assert.NoError(t, TransitionTask(TaskInProgress, TaskCompleted))
	assert.ErrorIs(t, TransitionTask(TaskCompleted, TaskPending), ErrInvalidTransition)
	assert.ErrorIs(t, TransitionTask(TaskInProgress, TaskInProgress), ErrInvalidTransition)
	assert.ErrorIs(t, TransitionTask(TaskPending, TaskStatus("archived")), ErrInvalidTransition)
}

func TestIsAssignee(t *testing.T) {
	id := uuid.New()
	actor := authz.Actor{ID: id, Positions: authz.Positions{authz.FloorHead(3)}}

	assert.True(t, IsAssignee(entities.CouncilTask{AssignedToUsers: []string{id.String()}}, actor))
	assert.True(t, IsAssignee(entities.CouncilTask{AssignedToPositions: []string{"floor_3_head"}}, actor))
	assert.False(t, IsAssignee(entities.CouncilTask{AssignedToPositions: []string{"floor_4_head", "bogus"}}, actor))
	assert.True(t, ValidTaskPriority("high"))
	assert.False(t, ValidTaskPriority("urgent"))
}
