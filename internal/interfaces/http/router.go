package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pms-api/internal/application/pricing"
	"github.com/jhoicas/pms-api/internal/application/stock"
	"github.com/jhoicas/pms-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	PromotionUC *usecase.PromotionUseCase
	TaxClassUC  *usecase.TaxClassUseCase
	PricingUC   *pricing.UseCase
	ReportUC    *pricing.ReportUseCase
	Ledger      *stock.Ledger
	Coordinator *stock.Coordinator
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Delete("/:id", warehouseHandler.Delete)

	// Products y variantes
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	protected.Get("/variants/:id", productHandler.GetVariant)

	// Stock: asignaciones, reservas batch, liberaciones y ajustes
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Ledger, deps.Coordinator)
	stockGroup.Post("/allocations", stockHandler.CreateAllocation)
	stockGroup.Get("/allocations", stockHandler.GetAllocation)
	stockGroup.Post("/reservations", stockHandler.Reserve)
	stockGroup.Post("/releases", stockHandler.Release)
	stockGroup.Post("/adjustments", stockHandler.Adjust)

	// Promotions
	promotions := protected.Group("/promotions")
	promotionHandler := NewPromotionHandler(deps.PromotionUC)
	promotions.Post("/", promotionHandler.Create)
	promotions.Get("/", promotionHandler.List)
	promotions.Get("/:id", promotionHandler.GetByID)

	// Clases tributarias (referencia SARS)
	taxClassHandler := NewTaxClassHandler(deps.TaxClassUC)
	protected.Get("/tax-classes", taxClassHandler.List)
	protected.Get("/tax-classes/:type", taxClassHandler.GetByType)

	// Pricing: cotización, aplicación de promos, historial y reporte
	pricingHandler := NewPricingHandler(deps.PricingUC, deps.ReportUC)
	protected.Post("/variants/:id/quote", pricingHandler.Quote)
	protected.Post("/variants/:id/apply-promotion", pricingHandler.ApplyPromotion)
	protected.Get("/variants/:id/prices", pricingHandler.History)
	promotions.Get("/:id/price-changes", pricingHandler.PriceChanges)
	protected.Get("/reports/price-list", pricingHandler.PriceList)
}
