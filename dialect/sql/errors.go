package sql

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// sqlStateError is an interface for errors that provide SQLSTATE codes.
type sqlStateError interface {
	SQLState() string
}

// sqlState returns the SQLSTATE carried by err, if any.
func sqlState(err error) (string, bool) {
	var pe *pq.Error
	if errors.As(err, &pe) {
		return string(pe.Code), true
	}
	if e, ok := asError[sqlStateError](err); ok {
		return e.SQLState(), true
	}
	return "", false
}

// PostgreSQL SQLSTATE codes for connection failures.
const (
	pgInvalidAuthorization = "28000"
	pgInvalidPassword      = "28P01"
	pgInvalidCatalogName   = "3D000"
)

// MySQL error numbers for connection failures.
const (
	mysqlDBAccessDenied = 1044
	mysqlAccessDenied   = 1045
	mysqlUnknownDB      = 1049
)

// IsAccessDenied reports if the error resulted from the server rejecting
// the supplied credentials.
func IsAccessDenied(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqlState(err); ok {
		switch code {
		case pgInvalidAuthorization, pgInvalidPassword:
			return true
		}
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		if me.Number == mysqlAccessDenied || me.Number == mysqlDBAccessDenied {
			return true
		}
	}
	// Fallback to string matching for drivers that don't expose codes.
	return containsAny(err.Error(),
		"Error 1045",                     // MySQL
		"password authentication failed", // Postgres
	)
}

// IsUnknownDatabase reports if the error resulted from connecting to a
// database that does not exist.
func IsUnknownDatabase(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqlState(err); ok && code == pgInvalidCatalogName {
		return true
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlUnknownDB {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Error 1049") ||
		strings.HasPrefix(msg, "pq: database ") && strings.HasSuffix(msg, "does not exist")
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
