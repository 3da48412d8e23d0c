package entity

import "time"

// PriceChange registro inmutable de auditoría: vincula una promoción con el
// precio anterior y el nuevo precio promocional que lo reemplazó.
type PriceChange struct {
	ID          string
	PromotionID string
	OldPriceID  string
	NewPriceID  string
	ChangedAt   time.Time
	CreatedAt   time.Time
}
