package storage

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"studysmart/internal/core"
)

// mapError classifies a driver error. Constraint violations become
// validation errors; everything else is a storage failure.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return &core.ValidationError{Message: "constraint violation during " + op, Err: err}
	}
	return core.NewStorageError(op, err)
}

func missingSubject(id int64) error {
	return core.NewValidationError("subject_id", "subject "+strconv.FormatInt(id, 10)+" does not exist")
}

// subjectName looks up the subject that a task or session references.
// A missing subject is a validation error.
func subjectName(ctx context.Context, q querier, id int64) (string, error) {
	var name string
	err := q.QueryRowContext(ctx, `SELECT name FROM subjects WHERE id = ?`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", missingSubject(id)
	}
	if err != nil {
		return "", mapError("lookup subject", err)
	}
	return name, nil
}
