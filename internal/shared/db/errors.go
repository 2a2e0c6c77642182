package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Store error classes. Repositories wrap driver errors with Classify so that
// callers decide on errors.Is instead of matching driver messages.
var (
	ErrRelationNotFound    = errors.New("relation not found")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrDuplicateKey        = errors.New("duplicate key")
)

// MySQL server error numbers.
const (
	mysqlNoSuchTable         uint16 = 1146
	mysqlDupEntry            uint16 = 1062
	mysqlNoReferencedRow     uint16 = 1216
	mysqlRowIsReferenced     uint16 = 1217
	mysqlRowIsReferenced2    uint16 = 1451
	mysqlNoReferencedRow2    uint16 = 1452
	mysqlUnknownTableInField uint16 = 1109
)

// Classify wraps err with the matching store error class. Errors that belong
// to no class are returned unchanged. The original error stays reachable.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if class := classOf(err); class != nil {
		if errors.Is(err, class) {
			return err
		}
		return fmt.Errorf("%w: %w", class, err)
	}
	return err
}

// IsRelationNotFound reports whether err means the target table does not exist.
func IsRelationNotFound(err error) bool {
	return errors.Is(err, ErrRelationNotFound) || classOf(err) == ErrRelationNotFound
}

// IsForeignKeyViolation reports whether err is a referential integrity failure.
func IsForeignKeyViolation(err error) bool {
	return errors.Is(err, ErrForeignKeyViolation) || classOf(err) == ErrForeignKeyViolation
}

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || classOf(err) == ErrDuplicateKey
}

func classOf(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKeyViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlNoSuchTable, mysqlUnknownTableInField:
			return ErrRelationNotFound
		case mysqlDupEntry:
			return ErrDuplicateKey
		case mysqlNoReferencedRow, mysqlRowIsReferenced, mysqlRowIsReferenced2, mysqlNoReferencedRow2:
			return ErrForeignKeyViolation
		}
		return nil
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return ErrForeignKeyViolation
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ErrDuplicateKey
		}
		// sqlite reports a missing table as a generic SQLITE_ERROR; the
		// message is the only discriminator the driver exposes.
		if liteErr.Code == sqlite3.ErrError && strings.HasPrefix(liteErr.Error(), "no such table") {
			return ErrRelationNotFound
		}
	}
	return nil
}
