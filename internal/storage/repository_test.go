package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studysmart/internal/core"
	"studysmart/internal/store"
	"studysmart/internal/store/storetest"
)

var _ store.Store = (*SQLiteRepository)(nil)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "study.db"), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteRepository(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return newTestRepo(t)
	})
}

func TestSQLiteRepository_ForeignKeysEnforced(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// bypass the repository checks to make sure the schema itself refuses
	// orphans
	_, err := repo.db.ExecContext(ctx, `INSERT INTO tasks (subject_id, title) VALUES (?, ?)`, 404, "orphan")
	require.Error(t, err)
	assert.ErrorIs(t, mapError("insert task", err), core.ErrValidation)
}

func TestSQLiteRepository_ClosedDatabaseIsStorageError(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Close())

	_, err := repo.ListSubjects(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStorage)

	_, err = repo.CreateSubject(context.Background(), core.Subject{Name: "Math", GoalHours: 1})
	assert.ErrorIs(t, err, core.ErrStorage)
}

func TestSQLiteRepository_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.db")
	repo, err := NewSQLiteRepository(path, Options{})
	require.NoError(t, err)
	sub, err := repo.CreateSubject(context.Background(), core.Subject{Name: "Math", GoalHours: 10})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = NewSQLiteRepository(path, Options{})
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.GetSubject(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Math", got.Name)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO subjects (name, goal_hours) VALUES ('Temp', 1)`); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	subjects, err := repo.ListSubjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, subjects)
}
