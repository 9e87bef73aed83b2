package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/domain"
	"taskboard/internal/service"
	httpez "taskboard/internal/transport/http/ez"
	mdw "taskboard/internal/transport/http/middleware"
)

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type listTasksQ struct {
	Status string `form:"status"` // all / pending / in-progress / completed
	Sort   string `form:"sort"`   // createdAt / updatedAt
}

type createTaskIn struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}

// updateTaskIn 省略的字段保持不变
type updateTaskIn struct {
	Title  *string `json:"title"`
	Status *string `json:"status"`
}

type taskOut struct {
	domain.Task
	Message string `json:"message,omitempty"`
}

type deleteOut struct {
	Message string `json:"message"`
	TaskID  string `json:"taskId"`
}

func (h *TaskHandler) Priority() int { return 20 }

func (h *TaskHandler) Mount(_, protected httpez.EZ) {
	// --- GET /api/tasks ---
	httpez.RegisterAction(protected, httpez.Action[listTasksQ, []domain.Task]{
		Method: http.MethodGet,
		Path:   "/tasks",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listTasksQ) ([]domain.Task, error) {
			ts, err := h.tasks.List(c.Request.Context(), ownerOf(c), in.Status, in.Sort)
			if err != nil {
				return nil, internalAs(err, "Failed to fetch tasks")
			}
			if ts == nil {
				ts = []domain.Task{}
			}
			return ts, nil
		},
	})

	// --- GET /api/tasks/stats ---
	httpez.RegisterAction(protected, httpez.Action[struct{}, domain.TaskStats]{
		Method: http.MethodGet,
		Path:   "/tasks/stats",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (domain.TaskStats, error) {
			st, err := h.tasks.Stats(c.Request.Context(), ownerOf(c))
			if err != nil {
				return domain.TaskStats{}, internalAs(err, "Failed to fetch statistics")
			}
			return st, nil
		},
	})

	// --- POST /api/tasks ---
	httpez.RegisterAction(protected, httpez.Action[createTaskIn, taskOut]{
		Method: http.MethodPost,
		Path:   "/tasks",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createTaskIn) (taskOut, error) {
			t, err := h.tasks.Create(c.Request.Context(), ownerOf(c), in.Title, in.Status)
			if err != nil {
				return taskOut{}, internalAs(err, "Failed to create task")
			}
			mdw.TaskMutations.WithLabelValues("create").Inc()
			return taskOut{Task: *t, Message: "Task created successfully"}, nil
		},
	})

	// --- PUT /api/tasks/:id ---
	httpez.RegisterAction(protected, httpez.Action[updateTaskIn, taskOut]{
		Method: http.MethodPut,
		Path:   "/tasks/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *updateTaskIn) (taskOut, error) {
			t, err := h.tasks.Update(c.Request.Context(), ownerOf(c), c.Param("id"),
				service.TaskUpdate{Title: in.Title, Status: in.Status})
			if err != nil {
				return taskOut{}, taskErr(err, "Failed to update task")
			}
			mdw.TaskMutations.WithLabelValues("update").Inc()
			return taskOut{Task: *t, Message: "Task updated successfully"}, nil
		},
	})

	// --- DELETE /api/tasks/:id ---
	httpez.RegisterAction(protected, httpez.Action[struct{}, deleteOut]{
		Method: http.MethodDelete,
		Path:   "/tasks/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (deleteOut, error) {
			id := c.Param("id")
			if err := h.tasks.Delete(c.Request.Context(), ownerOf(c), id); err != nil {
				return deleteOut{}, taskErr(err, "Failed to delete task")
			}
			mdw.TaskMutations.WithLabelValues("delete").Inc()
			return deleteOut{Message: "Task deleted successfully", TaskID: id}, nil
		},
	})
}

// 别人的任务与不存在的任务一样返回 404
func taskErr(err error, msg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httpez.NotFound("Task not found")
	}
	return internalAs(err, msg)
}

func ownerOf(c *gin.Context) string { return mdw.ClaimsFrom(c).UserID }
