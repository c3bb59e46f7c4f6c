package storage

import (
	"context"
	"database/sql"
	"errors"

	"studysmart/internal/core"
)

const sessionColumns = `id, subject_id, related_to_subject, duration_seconds, start_time_millis`

func (r *SQLiteRepository) CreateSession(ctx context.Context, s core.Session) (core.Session, error) {
	if err := s.Validate(); err != nil {
		return core.Session{}, err
	}

	err := r.WithTx(ctx, func(tx *sql.Tx) error {
		name, err := subjectName(ctx, tx, s.SubjectID)
		if err != nil {
			return err
		}
		s.RelatedToSubject = name

		res, err := tx.ExecContext(ctx, `
			INSERT INTO sessions (subject_id, related_to_subject, duration_seconds, start_time_millis)
			VALUES (?, ?, ?, ?)
		`, s.SubjectID, s.RelatedToSubject, s.DurationSeconds, s.StartTimeMillis)
		if err != nil {
			return mapError("insert session", err)
		}
		s.ID, err = res.LastInsertId()
		if err != nil {
			return mapError("session last insert id", err)
		}
		return nil
	})
	if err != nil {
		return core.Session{}, core.NewStorageError("create session", err)
	}

	r.logger.InfoContext(ctx, "Session saved",
		"id", s.ID,
		"subject_id", s.SubjectID,
		"duration_seconds", s.DurationSeconds)
	return s, nil
}

func (r *SQLiteRepository) GetSession(ctx context.Context, id int64) (core.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Session{}, &core.NotFoundError{Entity: "session", ID: id}
	}
	if err != nil {
		return core.Session{}, mapError("get session", err)
	}
	return s, nil
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return mapError("delete session", err)
	}
	if err := requireAffected(res, "session", id); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "Session deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) ListSessions(ctx context.Context) ([]core.Session, error) {
	return r.querySessions(ctx, "list sessions", `
		SELECT `+sessionColumns+` FROM sessions
		ORDER BY start_time_millis DESC, id DESC
	`)
}

func (r *SQLiteRepository) ListSessionsBySubject(ctx context.Context, subjectID int64) ([]core.Session, error) {
	return r.querySessions(ctx, "list sessions by subject", `
		SELECT `+sessionColumns+` FROM sessions
		WHERE subject_id = ?
		ORDER BY start_time_millis DESC, id DESC
	`, subjectID)
}

func (r *SQLiteRepository) querySessions(ctx context.Context, op, query string, args ...any) ([]core.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	out := []core.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return out, nil
}

func scanSession(row scanner) (core.Session, error) {
	var s core.Session
	if err := row.Scan(&s.ID, &s.SubjectID, &s.RelatedToSubject, &s.DurationSeconds, &s.StartTimeMillis); err != nil {
		return core.Session{}, err
	}
	return s, nil
}
