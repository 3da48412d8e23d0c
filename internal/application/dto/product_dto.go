package dto

import "time"

// CreateVariantRequest variante dentro de un producto nuevo.
type CreateVariantRequest struct {
	SKU                string            `json:"sku" validate:"required,min=1,max=100"`
	Name               string            `json:"name" validate:"required,min=1,max=200"`
	Attributes         map[string]string `json:"attributes"`
	RestrictedCategory bool              `json:"restricted_category"`
}

// CreateProductRequest entrada para crear un producto con sus variantes.
type CreateProductRequest struct {
	Name        string                 `json:"name" validate:"required,min=1,max=200"`
	Description string                 `json:"description"`
	CategoryID  string                 `json:"category_id"`
	VendorID    string                 `json:"vendor_id"`
	Variants    []CreateVariantRequest `json:"variants"`
}

// VariantResponse salida de una variante.
type VariantResponse struct {
	ID                 string            `json:"id"`
	ProductID          string            `json:"product_id"`
	SKU                string            `json:"sku"`
	Name               string            `json:"name"`
	Attributes         map[string]string `json:"attributes,omitempty"`
	RestrictedCategory bool              `json:"restricted_category"`
	TotalStock         int               `json:"total_stock"`
	AvailableStock     int               `json:"available_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	CategoryID  string            `json:"category_id,omitempty"`
	VendorID    string            `json:"vendor_id,omitempty"`
	Variants    []VariantResponse `json:"variants,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
