package database

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const (
	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced2 = 1217
	mysqlNoReferencedRow2 = 1216
)

var fkColumnRe = regexp.MustCompile("FOREIGN KEY \\(`([^`]+)`\\)")

// IsNotFound reports whether err is gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// DuplicateKey reports whether err is a unique-index violation. index, when
// non-empty, must appear in the driver message for a match.
func DuplicateKey(err error, index string) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry && (index == "" || strings.Contains(myErr.Message, index))
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return index == ""
	}
	// sqlite: "UNIQUE constraint failed: articles.title"
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return index == "" || strings.Contains(msg, index) || matchesColumn(msg, index)
	}
	return false
}

// MissingReference reports whether err is a foreign-key violation on insert
// or update, and returns the offending column when the driver names it.
func MissingReference(err error) (string, bool) {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number != mysqlNoReferencedRow && myErr.Number != mysqlNoReferencedRow2 {
			return "", false
		}
		if m := fkColumnRe.FindStringSubmatch(myErr.Message); len(m) == 2 {
			return m[1], true
		}
		return "", true
	}
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return "", true
	}
	return "", false
}

// StillReferenced reports whether err is a foreign-key violation on delete.
func StillReferenced(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlRowIsReferenced || myErr.Number == mysqlRowIsReferenced2
	}
	return false
}

// matchesColumn maps an index name like idx_articles_title onto the sqlite
// "table.column" form.
func matchesColumn(msg, index string) bool {
	rest := strings.TrimPrefix(index, "idx_")
	if rest == index {
		return false
	}
	table, column, ok := strings.Cut(rest, "_")
	if !ok {
		return false
	}
	return strings.Contains(msg, table+"."+column)
}
