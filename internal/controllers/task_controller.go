package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/internal/dto"
	"dorm-portal/internal/services"
	"dorm-portal/pkg/utils"
)

type TaskController struct {
	taskService services.TaskServiceInterface
	logger      *zap.Logger
}

func NewTaskController(taskService services.TaskServiceInterface, logger *zap.Logger) *TaskController {
	return &TaskController{taskService: taskService, logger: logger}
}

func (ctrl *TaskController) List(c echo.Context) error {
	tasks, err := ctrl.taskService.List(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, tasks, "Задачи получены", http.StatusOK)
}

func (ctrl *TaskController) Create(c echo.Context) error {
	var payload dto.CreateTaskDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	task, err := ctrl.taskService.Create(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, task, "Задача создана", http.StatusCreated)
}

func (ctrl *TaskController) Update(c echo.Context) error {
	id, err := uint64Param(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.UpdateTaskDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	task, err := ctrl.taskService.Update(c.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, task, "Задача обновлена", http.StatusOK)
}

func (ctrl *TaskController) ChangeStatus(c echo.Context) error {
	id, err := uint64Param(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.ChangeTaskStatusDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	task, err := ctrl.taskService.ChangeStatus(c.Request().Context(), id, payload.Status)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, task, "Статус задачи изменён", http.StatusOK)
}

func (ctrl *TaskController) Delete(c echo.Context) error {
	id, err := uint64Param(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.taskService.Delete(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Задача удалена", http.StatusOK)
}
