package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrInvalidInput  = errors.New("record violates a constraint")
	ErrStateChanged  = errors.New("record state changed concurrently")
)

// коды SQLSTATE postgres
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
)

// handleDBError приводит ошибки pgx к ошибкам пакета.
// При нарушении ограничения имя ограничения сохраняется для логов
func handleDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return constraintError(ErrAlreadyExists, pgErr)
	case codeForeignKeyViolation, codeNotNullViolation, codeCheckViolation:
		return constraintError(ErrInvalidInput, pgErr)
	}
	return err
}

func constraintError(sentinel error, pgErr *pgconn.PgError) error {
	if pgErr.ConstraintName == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, pgErr.ConstraintName)
}
