package todos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// This file repository.go contains todo related DB methods.
// Queries use raw SQL with manual scanning, scoped to the owning user.

func (s *Service) insertTodo(ctx context.Context, userID uuid.UUID, req CreateRequest) (*Todo, error) {
	todo := &Todo{}
	err := s.db.QueryRow(ctx, `
		INSERT INTO todos (id, user_id, description, due_date, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, description, due_date, priority, is_completed, completed_at, created_at
	`, uuid.New(), userID, req.Description, req.DueDate, req.Priority).Scan(
		&todo.ID, &todo.UserID, &todo.Description, &todo.DueDate,
		&todo.Priority, &todo.IsCompleted, &todo.CompletedAt, &todo.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *Service) listTodos(ctx context.Context, userID uuid.UUID) ([]Todo, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, description, due_date, priority, is_completed, completed_at, created_at
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []Todo{}
	for rows.Next() {
		var todo Todo
		if err := rows.Scan(
			&todo.ID, &todo.UserID, &todo.Description, &todo.DueDate,
			&todo.Priority, &todo.IsCompleted, &todo.CompletedAt, &todo.CreatedAt,
		); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

func (s *Service) getTodoByID(ctx context.Context, userID, todoID uuid.UUID) (*Todo, error) {
	todo := &Todo{}
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, description, due_date, priority, is_completed, completed_at, created_at
		FROM todos
		WHERE id = $1 AND user_id = $2
	`, todoID, userID).Scan(
		&todo.ID, &todo.UserID, &todo.Description, &todo.DueDate,
		&todo.Priority, &todo.IsCompleted, &todo.CompletedAt, &todo.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *Service) updateTodo(ctx context.Context, userID, todoID uuid.UUID, req CreateRequest) (*Todo, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE todos
		SET description = $1, due_date = $2, priority = $3
		WHERE id = $4 AND user_id = $5
	`, req.Description, req.DueDate, req.Priority, todoID, userID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return s.getTodoByID(ctx, userID, todoID)
}

// completeTodo is idempotent: an already-completed todo keeps its original
// completed_at timestamp.
func (s *Service) completeTodo(ctx context.Context, userID, todoID uuid.UUID) (*Todo, error) {
	todo, err := s.getTodoByID(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}
	if todo.IsCompleted {
		return todo, nil
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(ctx, `
		UPDATE todos
		SET is_completed = true, completed_at = $1
		WHERE id = $2 AND user_id = $3
	`, now, todoID, userID)
	if err != nil {
		return nil, err
	}
	todo.IsCompleted = true
	todo.CompletedAt = &now
	return todo, nil
}

func (s *Service) deleteTodo(ctx context.Context, userID, todoID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM todos
		WHERE id = $1 AND user_id = $2
	`, todoID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
