package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"staffcal/internal/config"
	"staffcal/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupService(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "staffcal.db")
	storagePath := filepath.Join(dir, "backups")

	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	subject := &models.Subject{Name: "Анна", Role: models.RoleStaff, Active: true, SortOrder: 1}
	require.NoError(t, db.CreateSubject(ctx, subject))

	svc := NewBackupService(dbPath, config.BackupConfig{
		Enabled:       true,
		RetentionDays: 1,
		StoragePath:   storagePath,
	}, &logger)

	t.Run("PerformBackup", func(t *testing.T) {
		require.NoError(t, svc.PerformBackup())

		backups := listBackups(t, storagePath)
		require.Len(t, backups, 1)

		// The snapshot must be a readable sqlite database with our data.
		copied, err := sql.Open("sqlite3", filepath.Join(storagePath, backups[0]))
		require.NoError(t, err)
		defer copied.Close()

		var count int
		require.NoError(t, copied.QueryRow("SELECT COUNT(*) FROM subjects").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("CleanupOldBackups", func(t *testing.T) {
		stale := filepath.Join(storagePath, "backup_20200101_000000.db")
		require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))
		old := time.Now().AddDate(0, 0, -3)
		require.NoError(t, os.Chtimes(stale, old, old))

		svc.CleanupOldBackups()

		backups := listBackups(t, storagePath)
		require.Len(t, backups, 1)
		assert.NotEqual(t, "backup_20200101_000000.db", backups[0])
	})

	t.Run("RetentionDisabledKeepsEverything", func(t *testing.T) {
		stale := filepath.Join(storagePath, "backup_20200101_000000.db")
		require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))
		old := time.Now().AddDate(0, 0, -3)
		require.NoError(t, os.Chtimes(stale, old, old))

		keepAll := NewBackupService(dbPath, config.BackupConfig{
			Enabled:     true,
			StoragePath: storagePath,
		}, &logger)
		keepAll.CleanupOldBackups()

		assert.Len(t, listBackups(t, storagePath), 2)
	})
}

func listBackups(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
