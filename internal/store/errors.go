package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrOutOfRange   = errors.New("out of range")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

// translateError maps driver errors onto the package sentinels. Malformed
// UUIDs are reported as not found since no row can match them.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return errors.Join(ErrDuplicateKey, err)
	case pgForeignKeyViolation, pgInvalidTextRepr:
		return errors.Join(ErrNotFound, err)
	}
	return err
}
