package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskhive/internal/service"
)

// TaskHandler mantiene dependencias para endpoints de tareas.
type TaskHandler struct {
	logger   *zap.Logger
	taskServ *service.TaskService
}

func NewTaskHandler(logger *zap.Logger, taskServ *service.TaskService) *TaskHandler {
	return &TaskHandler{
		logger:   logger,
		taskServ: taskServ,
	}
}

// Create maneja POST /tasks; requiere can_add_task en el equipo.
func (h *TaskHandler) Create(c *gin.Context) {
	principalID, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req struct {
		TeamID      string    `json:"team_id" binding:"required,uuid"`
		Name        string    `json:"name" binding:"required"`
		Description string    `json:"description"`
		EndsAt      time.Time `json:"ends_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	task, err := h.taskServ.CreateTask(c.Request.Context(), principalID, service.CreateTaskInput{
		TeamID:      req.TeamID,
		Name:        req.Name,
		Description: req.Description,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// Get maneja GET /tasks/:id.
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.taskServ.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// ListAll maneja GET /tasks.
func (h *TaskHandler) ListAll(c *gin.Context) {
	tasks, err := h.taskServ.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// ListForTeam maneja GET /teams/:id/tasks.
func (h *TaskHandler) ListForTeam(c *gin.Context) {
	tasks, err := h.taskServ.ListForTeam(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// ListAssigned maneja GET /tasks/assigned.
func (h *TaskHandler) ListAssigned(c *gin.Context) {
	principalID, ok := requirePrincipal(c)
	if !ok {
		return
	}

	tasks, err := h.taskServ.ListForUser(c.Request.Context(), principalID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Assign maneja POST /tasks/:id/assign; aplica can_assign_task y la regla
// de dominación por prioridad.
func (h *TaskHandler) Assign(c *gin.Context) {
	principalID, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req struct {
		UserID string `json:"user_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	task, err := h.taskServ.AssignTask(c.Request.Context(), principalID, c.Param("id"), req.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}
