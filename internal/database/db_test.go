package database

import (
	"testing"

	"staffadmin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnection_UnknownDriver(t *testing.T) {
	_, err := NewConnection("mysql", "dsn")
	assert.Error(t, err)
}

func TestNewTestDB_Migrates(t *testing.T) {
	db, err := NewTestDB()
	require.NoError(t, err)

	for _, m := range []any{&model.Role{}, &model.User{}, &model.Employee{}, &model.AuditLog{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
}
