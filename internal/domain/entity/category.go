package entity

import "time"

// Category categoría de productos (jerárquica opcional, padre por ID).
// Restricted marca categorías reguladas: las promociones sobre sus variantes
// deben pasar el chequeo de disclosure CPA.
type Category struct {
	ID         string
	ParentID   string // vacío si es raíz
	Name       string
	Code       string
	Restricted bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
