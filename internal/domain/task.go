package domain

import "time"

// TaskStatus representa el estado de una tarea.
type TaskStatus string

const (
	TaskInProgress TaskStatus = "in progress"
	TaskPaused     TaskStatus = "paused"
	TaskFinished   TaskStatus = "finished"
	TaskCanceled   TaskStatus = "canceled"
)

type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	TeamID      string     `json:"team_id"`
	Creator     string     `json:"creator"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	EndsAt      time.Time  `json:"ends_at"`
	Assignees   []User     `json:"assignees,omitempty"`
}

// TaskAssign vincula una tarea con un usuario asignado.
type TaskAssign struct {
	ID     string `json:"id"`
	TaskID string `json:"task_id"`
	UserID string `json:"user_id"`
}
