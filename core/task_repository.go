package core

import (
	"context"
	"fmt"
	"time"
)

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    int       `json:"priority"`
	Completed   bool      `json:"completed"`
	AssigneeID  string    `json:"assignee_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type TaskRepository interface {
	// ListIncompleteByAssignee returns the open tasks assigned to userID,
	// highest priority first.
	ListIncompleteByAssignee(ctx context.Context, userID string) ([]Task, error)
}

type PgTaskRepository struct {
	db DBTX
}

func NewPgTaskRepository(db DBTX) *PgTaskRepository {
	return &PgTaskRepository{db: db}
}

func (r *PgTaskRepository) ListIncompleteByAssignee(ctx context.Context, userID string) ([]Task, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, title, description, priority, completed, assignee_id, created_at
FROM tasks
WHERE assignee_id = $1 AND completed = false
ORDER BY priority DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	tasks := make([]Task, 0)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Completed, &t.AssigneeID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}
