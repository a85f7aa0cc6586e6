package workflow

import (
	"dorm-portal/internal/authz"
	"dorm-portal/internal/entities"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

var taskStatusOrder = map[TaskStatus]int{
	TaskPending:    0,
	TaskInProgress: 1,
	TaskCompleted:  2,
}

func (s TaskStatus) Valid() bool {
	_, ok := taskStatusOrder[s]
	return ok
}

// TransitionTask: статус только двигается вперёд, из completed выхода нет.
func TransitionTask(from, to TaskStatus) error {
	if !from.Valid() || !to.Valid() {
		return ErrInvalidTransition
	}
	if taskStatusOrder[to] <= taskStatusOrder[from] {
		return ErrInvalidTransition
	}
	return nil
}

var taskPriorities = map[string]bool{"low": true, "medium": true, "high": true}

func ValidTaskPriority(p string) bool { return taskPriorities[p] }

// IsAssignee - пользователь назначен лично или через одну из своих должностей.
func IsAssignee(task entities.CouncilTask, actor authz.Actor) bool {
	id := actor.ID.String()
	for _, u := range task.AssignedToUsers {
		if u == id {
			return true
		}
	}
	for _, key := range task.AssignedToPositions {
		p, err := authz.ParsePosition(key)
		if err == nil && actor.Positions.Contains(p) {
			return true
		}
	}
	return false
}
