package db

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestClassify_MySQL(t *testing.T) {
	tests := []struct {
		name   string
		number uint16
		want   error
	}{
		{"missing table", 1146, ErrRelationNotFound},
		{"duplicate entry", 1062, ErrDuplicateKey},
		{"child row fk", 1452, ErrForeignKeyViolation},
		{"parent row fk", 1451, ErrForeignKeyViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &mysql.MySQLError{Number: tt.number, Message: "boom"}
			err := Classify(fmt.Errorf("insert: %w", raw))

			assert.ErrorIs(t, err, tt.want)
			var myErr *mysql.MySQLError
			assert.True(t, errors.As(err, &myErr), "driver error stays reachable")
		})
	}
}

func TestClassify_Unclassified(t *testing.T) {
	raw := &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	err := Classify(raw)

	assert.Same(t, raw, err)
	assert.False(t, IsRelationNotFound(err))
	assert.False(t, IsForeignKeyViolation(err))
	assert.Nil(t, Classify(nil))
}

func TestClassify_GormTranslated(t *testing.T) {
	assert.ErrorIs(t, Classify(gorm.ErrDuplicatedKey), ErrDuplicateKey)
	assert.ErrorIs(t, Classify(gorm.ErrForeignKeyViolated), ErrForeignKeyViolation)
}

func TestClassify_SQLiteMissingTable(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "classify.db")), &gorm.Config{})
	require.NoError(t, err)

	var n int64
	err = gdb.Table("ticket_activity").Count(&n).Error
	require.Error(t, err)

	assert.True(t, IsRelationNotFound(err))
	assert.ErrorIs(t, Classify(err), ErrRelationNotFound)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 50, Clamp(10, 50, 500))
	assert.Equal(t, 120, Clamp(120, 50, 500))
	assert.Equal(t, 500, Clamp(9000, 50, 500))
}
