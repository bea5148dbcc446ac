package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pos-ledger/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeInvalidTextRep       = "22P02"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isInvalidText indica un valor mal formado para el tipo de la columna (ej. uuid inválido).
func isInvalidText(err error) bool {
	return pgCode(err) == codeInvalidTextRep
}

// mapError traduce errores de PostgreSQL a los sentinelas del dominio conservando el original.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation, codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Message)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrInvalidReference, pgErr.ConstraintName)
	case codeCheckViolation, codeInvalidTextRep:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.Message)
	}
	return err
}
