package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskhive/internal/domain"
	"taskhive/internal/repository"
)

// TaskService coordina tareas y asignaciones con chequeos de autorización.
type TaskService struct {
	logger *zap.Logger
	tasks  repository.TaskRepository
	authz  *AuthzService
}

func NewTaskService(logger *zap.Logger, tasks repository.TaskRepository, authz *AuthzService) *TaskService {
	return &TaskService{
		logger: logger,
		tasks:  tasks,
		authz:  authz,
	}
}

type CreateTaskInput struct {
	TeamID      string
	Name        string
	Description string
	EndsAt      time.Time
}

// CreateTask exige can_add_task en el equipo de la tarea.
func (s *TaskService) CreateTask(ctx context.Context, creatorID string, input CreateTaskInput) (domain.Task, error) {
	if err := s.authz.RequireCapability(ctx, input.TeamID, creatorID, domain.CapAddTask); err != nil {
		return domain.Task{}, err
	}

	task := domain.Task{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		TeamID:      input.TeamID,
		Creator:     creatorID,
		Status:      domain.TaskInProgress,
		CreatedAt:   time.Now().UTC(),
		EndsAt:      input.EndsAt,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error("create task failed",
			zap.String("team_id", input.TeamID),
			zap.String("creator", creatorID),
			zap.Error(err),
		)
		return domain.Task{}, err
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (domain.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, ErrNotFound
	}
	return task, err
}

func (s *TaskService) ListAll(ctx context.Context) ([]domain.Task, error) {
	return s.tasks.GetAll(ctx)
}

func (s *TaskService) ListForTeam(ctx context.Context, teamID string) ([]domain.Task, error) {
	return s.tasks.GetAllForTeam(ctx, teamID)
}

func (s *TaskService) ListForUser(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.tasks.GetAllForUser(ctx, userID)
}

// AssignTask asigna la tarea a un usuario. El llamador necesita
// can_assign_task y no puede asignar a alguien de mayor autoridad
// (prioridad numéricamente menor).
func (s *TaskService) AssignTask(ctx context.Context, callerID, taskID, assigneeID string) (domain.Task, error) {
	task, err := s.Get(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}

	if err := s.authz.CanAssign(ctx, task.TeamID, callerID, assigneeID); err != nil {
		return domain.Task{}, err
	}

	assign := domain.TaskAssign{
		ID:     uuid.NewString(),
		TaskID: taskID,
		UserID: assigneeID,
	}
	if err := s.tasks.Assign(ctx, assign); err != nil {
		s.logger.Error("assign task failed",
			zap.String("task_id", taskID),
			zap.String("assignee", assigneeID),
			zap.Error(err),
		)
		return domain.Task{}, err
	}
	return s.Get(ctx, taskID)
}
