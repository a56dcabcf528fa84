package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestExecute_StatusThenUp(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	var out bytes.Buffer
	require.NoError(t, execute(db, "status", &out))
	assert.Contains(t, out.String(), "users      missing")
	assert.Contains(t, out.String(), "pending=4")

	out.Reset()
	require.NoError(t, execute(db, "up", &out))
	assert.Contains(t, out.String(), "automigrations applied")

	out.Reset()
	require.NoError(t, execute(db, "status", &out))
	assert.Contains(t, out.String(), "pending=0")

	assert.Error(t, execute(db, "down", &out))
}
