package storage

import (
	"context"
	"database/sql"
	"errors"

	"studysmart/internal/core"
)

const subjectColumns = `id, name, goal_hours, color_start, color_end`

func (r *SQLiteRepository) CreateSubject(ctx context.Context, s core.Subject) (core.Subject, error) {
	if err := s.Validate(); err != nil {
		return core.Subject{}, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO subjects (name, goal_hours, color_start, color_end)
		VALUES (?, ?, ?, ?)
	`, s.Name, s.GoalHours, int64(s.Colors.Start), int64(s.Colors.End))
	if err != nil {
		return core.Subject{}, mapError("insert subject", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Subject{}, mapError("subject last insert id", err)
	}
	s.ID = id

	r.logger.InfoContext(ctx, "Subject saved", "id", id, "name", s.Name, "goal_hours", s.GoalHours)
	return s, nil
}

func (r *SQLiteRepository) GetSubject(ctx context.Context, id int64) (core.Subject, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE id = ?`, id)
	s, err := scanSubject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Subject{}, &core.NotFoundError{Entity: "subject", ID: id}
	}
	if err != nil {
		return core.Subject{}, mapError("get subject", err)
	}
	return s, nil
}

func (r *SQLiteRepository) UpdateSubject(ctx context.Context, s core.Subject) error {
	if err := s.Validate(); err != nil {
		return err
	}

	err := r.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE subjects
			SET name = ?, goal_hours = ?, color_start = ?, color_end = ?
			WHERE id = ?
		`, s.Name, s.GoalHours, int64(s.Colors.Start), int64(s.Colors.End), s.ID)
		if err != nil {
			return mapError("update subject", err)
		}
		if err := requireAffected(res, "subject", s.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE tasks SET related_to_subject = ? WHERE subject_id = ?`, s.Name, s.ID); err != nil {
			return mapError("rename subject tasks", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE sessions SET related_to_subject = ? WHERE subject_id = ?`, s.Name, s.ID); err != nil {
			return mapError("rename subject sessions", err)
		}
		return nil
	})
	if err != nil {
		return core.NewStorageError("update subject", err)
	}
	return nil
}

// DeleteSubject relies on ON DELETE CASCADE to remove tasks and sessions.
func (r *SQLiteRepository) DeleteSubject(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, id)
	if err != nil {
		return mapError("delete subject", err)
	}
	if err := requireAffected(res, "subject", id); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "Subject deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) ListSubjects(ctx context.Context) ([]core.Subject, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+subjectColumns+` FROM subjects ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, mapError("list subjects", err)
	}
	defer rows.Close()

	out := []core.Subject{}
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, mapError("scan subject", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list subjects rows", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubject(row scanner) (core.Subject, error) {
	var (
		s          core.Subject
		start, end int64
	)
	if err := row.Scan(&s.ID, &s.Name, &s.GoalHours, &start, &end); err != nil {
		return core.Subject{}, err
	}
	s.Colors = core.ColorPair{Start: uint32(start), End: uint32(end)}
	return s, nil
}

func requireAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(entity+" rows affected", err)
	}
	if n == 0 {
		return &core.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
