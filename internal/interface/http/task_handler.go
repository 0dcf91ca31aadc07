package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	taskapp "github.com/dayline-app/dayline/internal/application"
	"github.com/dayline-app/dayline/internal/domain/entity"
	"github.com/dayline-app/dayline/internal/interface/middleware"
	"github.com/dayline-app/dayline/pkg/response"
	"github.com/dayline-app/dayline/pkg/validation"
)

type TaskHandler struct {
	Svc    *taskapp.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *taskapp.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	DueDate     string `json:"dueDate"`
	Completed   bool   `json:"completed"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=Low Medium High"`
	DueDate     *string `json:"dueDate"`
	Completed   *bool   `json:"completed"`
}

func taskJSON(t *entity.Task) gin.H {
	out := gin.H{
		"id":          t.ID,
		"owner":       t.OwnerID,
		"title":       t.Title,
		"description": t.Description,
		"priority":    t.Priority,
		"completed":   t.Completed,
		"createdAt":   t.CreatedAt,
		"updatedAt":   t.UpdatedAt,
	}
	if t.DueDate != nil {
		out["dueDate"] = t.DueDate
	} else {
		out["dueDate"] = nil
	}
	return out
}

// parseDueDate accepts the date-picker format (2006-01-02) or full RFC3339.
func parseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("invalid date")
}

// List GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	tasks, err := h.Svc.ListByOwner(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("list tasks failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	out := make([]gin.H, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskJSON(&tasks[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"tasks": out})
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"dueDate": "must be YYYY-MM-DD or RFC3339"})
		return
	}

	t, err := h.Svc.Create(c.Request.Context(), uid, taskapp.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     due,
		Completed:   req.Completed,
	})
	if err != nil {
		switch {
		case errors.Is(err, taskapp.ErrTitleRequired), errors.Is(err, taskapp.ErrInvalidPriority):
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			h.Logger.WithError(err).WithField("user_id", uid).Error("create task failed")
			response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"task": taskJSON(t)})
}

// Update PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	taskID := c.Param("id")

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := taskapp.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Completed:   req.Completed,
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			in.ClearDue = true
		} else {
			due, err := parseDueDate(*req.DueDate)
			if err != nil {
				response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"dueDate": "must be YYYY-MM-DD or RFC3339"})
				return
			}
			in.DueDate = due
		}
	}

	t, err := h.Svc.Update(c.Request.Context(), uid, taskID, in)
	if err != nil {
		switch {
		case errors.Is(err, taskapp.ErrTaskNotFound):
			response.Error(c, http.StatusNotFound, "task not found", nil)
		case errors.Is(err, taskapp.ErrTitleRequired), errors.Is(err, taskapp.ErrInvalidPriority):
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			h.Logger.WithError(err).WithField("user_id", uid).WithField("task_id", taskID).Error("update task failed")
			response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"task": taskJSON(t)})
}

// Delete DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	taskID := c.Param("id")

	if err := h.Svc.Delete(c.Request.Context(), uid, taskID); err != nil {
		if errors.Is(err, taskapp.ErrTaskNotFound) {
			response.Error(c, http.StatusNotFound, "task not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).WithField("task_id", taskID).Error("delete task failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "task deleted"})
}

// Search GET /api/tasks/search?q=...&size=...
func (h *TaskHandler) Search(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.Search(c.Request.Context(), uid, q, size)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("task search failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tasks": hits})
}
