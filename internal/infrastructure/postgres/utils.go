package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Manufactura-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation      = "23505"
	codeLockNotAvailable     = "55P03" // lock_timeout o NOWAIT
	codeDeadlockDetected     = "40P01"
	codeSerializationFailure = "40001"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// wrap traduce errores de bloqueo/concurrencia a domain.ErrConcurrencyConflict y envuelve el resto con op.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeLockNotAvailable, codeDeadlockDetected, codeSerializationFailure:
			return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrConcurrencyConflict, err))
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
