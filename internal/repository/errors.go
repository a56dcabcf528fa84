package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err came from a unique index.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite reports constraint failures only through the message.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// adjustCounter moves an integer column by delta with a single atomic statement.
// Decrements floor at zero without reading the current value.
func adjustCounter(db *gorm.DB, model interface{}, id uint, column string, delta int) error {
	if delta == 0 {
		return nil
	}

	var expr interface{}
	if delta > 0 {
		expr = gorm.Expr(column+" + ?", delta)
	} else {
		n := -delta
		expr = gorm.Expr(fmt.Sprintf("CASE WHEN %s > ? THEN %s - ? ELSE 0 END", column, column), n, n)
	}

	return db.Model(model).Where("id = ?", id).UpdateColumn(column, expr).Error
}
