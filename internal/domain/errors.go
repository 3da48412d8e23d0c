package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrVersionConflict     = errors.New("conflicto de versión optimista")
	ErrReservationFailed   = errors.New("reserva fallida tras reintentos")
	ErrRuleEvaluation      = errors.New("error evaluando regla de promoción")
	ErrComplianceViolation = errors.New("promoción no cumple requisitos regulatorios")
)
