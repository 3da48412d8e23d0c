package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos y sus variantes.
// El stock vive en las asignaciones por bodega; los precios en el historial
// de cada variante.
type ProductUseCase struct {
	repo       repository.ProductRepository
	variants   repository.VariantRepository
	categories repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, variants repository.VariantRepository, categories repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, variants: variants, categories: categories}
}

// Create crea un producto con sus variantes. Si el producto pertenece a una
// categoría restringida, todas sus variantes heredan el flag regulatorio.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	restricted := false
	if in.CategoryID != "" {
		cat, err := uc.categories.GetByID(ctx, in.CategoryID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: categoría %s no existe", domain.ErrInvalidInput, in.CategoryID)
			}
			return nil, err
		}
		restricted = cat.Restricted
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		VendorID:    in.VendorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, vin := range in.Variants {
		product.Variants = append(product.Variants, entity.Variant{
			ID:                 uuid.New().String(),
			ProductID:          product.ID,
			SKU:                vin.SKU,
			Name:               vin.Name,
			Attributes:         vin.Attributes,
			RestrictedCategory: restricted || vin.RestrictedCategory,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto con sus variantes.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetVariant obtiene una variante por ID con sus asignaciones de stock.
func (uc *ProductUseCase) GetVariant(ctx context.Context, id string) (*dto.VariantResponse, error) {
	v, err := uc.variants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toVariantResponse(v)
	return &out, nil
}

// List lista productos paginados.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	resp := &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		VendorID:    p.VendorID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for i := range p.Variants {
		resp.Variants = append(resp.Variants, toVariantResponse(&p.Variants[i]))
	}
	return resp
}

func toVariantResponse(v *entity.Variant) dto.VariantResponse {
	return dto.VariantResponse{
		ID:                 v.ID,
		ProductID:          v.ProductID,
		SKU:                v.SKU,
		Name:               v.Name,
		Attributes:         v.Attributes,
		RestrictedCategory: v.RestrictedCategory,
		TotalStock:         v.TotalStock(),
		AvailableStock:     v.AvailableStock(),
	}
}
