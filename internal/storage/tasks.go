package storage

import (
	"context"
	"database/sql"
	"errors"

	"studysmart/internal/core"
)

const taskColumns = `id, subject_id, title, description, due_date_millis, priority, related_to_subject, is_complete`

// CreateTask checks the referenced subject inside the same transaction so
// a missing subject never leaves a partial write behind.
func (r *SQLiteRepository) CreateTask(ctx context.Context, t core.Task) (core.Task, error) {
	if err := t.Validate(); err != nil {
		return core.Task{}, err
	}

	err := r.WithTx(ctx, func(tx *sql.Tx) error {
		name, err := subjectName(ctx, tx, t.SubjectID)
		if err != nil {
			return err
		}
		t.RelatedToSubject = name

		res, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (subject_id, title, description, due_date_millis, priority, related_to_subject, is_complete)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, t.SubjectID, t.Title, t.Description, t.DueDateMillis, int(t.Priority), t.RelatedToSubject, boolToInt(t.IsComplete))
		if err != nil {
			return mapError("insert task", err)
		}
		t.ID, err = res.LastInsertId()
		if err != nil {
			return mapError("task last insert id", err)
		}
		return nil
	})
	if err != nil {
		return core.Task{}, core.NewStorageError("create task", err)
	}

	r.logger.InfoContext(ctx, "Task saved", "id", t.ID, "subject_id", t.SubjectID, "title", t.Title)
	return t, nil
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (core.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Task{}, &core.NotFoundError{Entity: "task", ID: id}
	}
	if err != nil {
		return core.Task{}, mapError("get task", err)
	}
	return t, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, t core.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}

	err := r.WithTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE id = ?`, t.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return &core.NotFoundError{Entity: "task", ID: t.ID}
		}
		if err != nil {
			return mapError("lookup task", err)
		}

		name, err := subjectName(ctx, tx, t.SubjectID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE tasks
			SET subject_id = ?, title = ?, description = ?, due_date_millis = ?,
				priority = ?, related_to_subject = ?, is_complete = ?
			WHERE id = ?
		`, t.SubjectID, t.Title, t.Description, t.DueDateMillis, int(t.Priority), name, boolToInt(t.IsComplete), t.ID)
		if err != nil {
			return mapError("update task", err)
		}
		return nil
	})
	if err != nil {
		return core.NewStorageError("update task", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return mapError("delete task", err)
	}
	return requireAffected(res, "task", id)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]core.Task, error) {
	return r.queryTasks(ctx, "list tasks", `
		SELECT `+taskColumns+` FROM tasks
		ORDER BY due_date_millis ASC, id ASC
	`)
}

func (r *SQLiteRepository) ListTasksBySubject(ctx context.Context, subjectID int64) ([]core.Task, error) {
	return r.queryTasks(ctx, "list tasks by subject", `
		SELECT `+taskColumns+` FROM tasks
		WHERE subject_id = ?
		ORDER BY due_date_millis ASC, id ASC
	`, subjectID)
}

func (r *SQLiteRepository) queryTasks(ctx context.Context, op, query string, args ...any) ([]core.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	out := []core.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return out, nil
}

func scanTask(row scanner) (core.Task, error) {
	var (
		t          core.Task
		priority   int
		isComplete int
	)
	if err := row.Scan(
		&t.ID, &t.SubjectID, &t.Title, &t.Description, &t.DueDateMillis,
		&priority, &t.RelatedToSubject, &isComplete,
	); err != nil {
		return core.Task{}, err
	}
	t.Priority = core.PriorityFromInt(priority)
	t.IsComplete = isComplete != 0
	return t, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
