package db

import (
	stdErrors "errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func IsNotFound(err error) bool {
	return stdErrors.Is(err, gorm.ErrRecordNotFound)
}

func IsUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == pgForeignKeyViolation
}

func pgErrorCode(err error) string {
	var pgxErr *pgconn.PgError
	if stdErrors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
