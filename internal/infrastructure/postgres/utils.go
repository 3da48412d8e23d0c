package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation detecta la violación de constraint único (23505). Los
// repositorios la traducen a domain.ErrDuplicate: una asignación por par
// bodega+variante, un SKU por variante.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrUniqueViolation
}

const pgerrUniqueViolation = "23505"

// nullIfEmpty mapea strings vacíos a NULL para columnas de referencia
// opcionales (parent_rule_id, category_id, vendor_id).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
