package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"taskhive/internal/domain"
)

// TaskRepository define el contrato de persistencia para tareas.
type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) error
	Get(ctx context.Context, id string) (domain.Task, error)
	GetAll(ctx context.Context) ([]domain.Task, error)
	GetAllForTeam(ctx context.Context, teamID string) ([]domain.Task, error)
	GetAllForUser(ctx context.Context, userID string) ([]domain.Task, error)
	Assign(ctx context.Context, assign domain.TaskAssign) error
}

// PgTaskRepository implementa TaskRepository usando pgxpool.
type PgTaskRepository struct {
	pool *pgxpool.Pool
}

func NewPgTaskRepository(pool *pgxpool.Pool) *PgTaskRepository {
	return &PgTaskRepository{pool: pool}
}

const taskColumns = `id, name, description, status, team_id, creator, created_at, COALESCE(ends_at, created_at)`

func (r *PgTaskRepository) Create(ctx context.Context, task domain.Task) error {
	const query = `
		INSERT INTO task_information (id, name, description, status, team_id, creator, created_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Name,
		task.Description,
		task.Status,
		task.TeamID,
		task.Creator,
		task.CreatedAt,
		task.EndsAt,
	)
	return err
}

func (r *PgTaskRepository) Get(ctx context.Context, id string) (domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM task_information WHERE id = $1`
	var t domain.Task
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.Status,
		&t.TeamID, &t.Creator, &t.CreatedAt, &t.EndsAt,
	)
	if err != nil {
		return domain.Task{}, err
	}

	assignees, err := r.assignees(ctx, t.ID)
	if err != nil {
		return domain.Task{}, err
	}
	t.Assignees = assignees
	return t, nil
}

func (r *PgTaskRepository) GetAll(ctx context.Context) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM task_information ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *PgTaskRepository) GetAllForTeam(ctx context.Context, teamID string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM task_information WHERE team_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, teamID)
}

func (r *PgTaskRepository) GetAllForUser(ctx context.Context, userID string) ([]domain.Task, error) {
	const query = `
		SELECT t.id, t.name, t.description, t.status, t.team_id, t.creator,
			t.created_at, COALESCE(t.ends_at, t.created_at)
		FROM task_information t
		JOIN task_assign ta ON ta.task_id = t.id
		WHERE ta.user_id = $1
		ORDER BY t.created_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *PgTaskRepository) Assign(ctx context.Context, assign domain.TaskAssign) error {
	const query = `
		INSERT INTO task_assign (id, task_id, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (task_id, user_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, assign.ID, assign.TaskID, assign.UserID)
	return err
}

func (r *PgTaskRepository) list(ctx context.Context, query string, args ...any) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.Status,
			&t.TeamID, &t.Creator, &t.CreatedAt, &t.EndsAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *PgTaskRepository) assignees(ctx context.Context, taskID string) ([]domain.User, error) {
	const query = `
		SELECT u.id, u.email, u.user_name, COALESCE(u.profile_image, ''), u.created_at
		FROM user_information u
		JOIN task_assign ta ON ta.user_id = u.id
		WHERE ta.task_id = $1
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.UserName, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
