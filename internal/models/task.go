package models

import "time"

// Task represents a single task owned by one user.
type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Description string    `json:"description"`
	Notes       string    `json:"notes"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuditEvent is the message payload published after a successful mutation.
type AuditEvent struct {
	Action      string    `json:"action"` // task.created, task.toggled, task.edited, task.deleted, tasks.cleared, tasks.completed_cleared
	TaskID      string    `json:"task_id,omitempty"`
	OwnerID     string    `json:"owner_id"`
	Description string    `json:"description,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
	Count       int       `json:"count,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
