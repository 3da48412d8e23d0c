package entity

import "time"

// Warehouse bodega donde se asigna stock de variantes (multi-bodega).
type Warehouse struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
