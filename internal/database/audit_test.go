package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"threat-tracker/internal/models"
)

func TestAuditDisabled(t *testing.T) {
	DB = nil

	assert.False(t, Enabled())
	require.NoError(t, CreateAuditLog("batch", "threat", 1, "mitigate", "likelihood 4 -> 2"))

	logs, err := RecentAuditLogs(10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

type capturedSQL struct {
	sql  string
	vars []interface{}
}

// dryRunDB builds a postgres-dialect DB that renders statements without a
// server and records every INSERT it would run.
func dryRunDB(t *testing.T) *[]capturedSQL {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=tracker dbname=tracker sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	var captured []capturedSQL
	err = db.Callback().Create().After("gorm:create").Register("test:capture", func(tx *gorm.DB) {
		captured = append(captured, capturedSQL{sql: tx.Statement.SQL.String(), vars: tx.Statement.Vars})
	})
	require.NoError(t, err)

	DB = db
	t.Cleanup(func() { DB = nil })
	return &captured
}

func TestCreateAuditLogWritesRow(t *testing.T) {
	captured := dryRunDB(t)
	assert.True(t, Enabled())

	require.NoError(t, CreateAuditLog("6f1c-batch", "threat", 2, "mitigate", "likelihood 5 -> 1"))

	require.Len(t, *captured, 1)
	got := (*captured)[0]
	assert.Contains(t, got.sql, `INSERT INTO "audit_logs"`)
	assert.Contains(t, got.sql, `"batch_id"`)
	assert.Contains(t, got.sql, `RETURNING "id"`)
	assert.Contains(t, got.vars, "6f1c-batch")
	assert.Contains(t, got.vars, "threat")
	assert.Contains(t, got.vars, uint(2))
	assert.Contains(t, got.vars, "mitigate")
	assert.Contains(t, got.vars, "likelihood 5 -> 1")
}

func TestRecentAuditLogsQuery(t *testing.T) {
	dryRunDB(t)

	logs, err := RecentAuditLogs(5)
	require.NoError(t, err)
	assert.Empty(t, logs)

	stmt := DB.Session(&gorm.Session{DryRun: true}).
		Order("created_at desc").Limit(5).Find(&[]models.AuditLog{}).Statement
	assert.Equal(t, `SELECT * FROM "audit_logs" ORDER BY created_at desc LIMIT $1`, stmt.SQL.String())
}
