package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	apppricing "github.com/jhoicas/pms-api/internal/application/pricing"
	appstock "github.com/jhoicas/pms-api/internal/application/stock"
	"github.com/jhoicas/pms-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/pms-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pms-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pms-api/internal/interfaces/http"
	"github.com/jhoicas/pms-api/pkg/config"
	"github.com/jhoicas/pms-api/pkg/currency"
	"github.com/jhoicas/pms-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:  cfg.App.Env,
		Name: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	allocationRepo := postgres.NewAllocationRepository(pool)
	promotionRepo := postgres.NewPromotionRepository(pool)
	priceRepo := postgres.NewPriceRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	taxClassRepo := postgres.NewTaxClassRepository(pool)

	ledger := appstock.NewLedger(allocationRepo, log)
	coordinator := appstock.NewCoordinator(ledger, appstock.CoordinatorConfig{
		MaxAttempts: cfg.Stock.MaxAttempts,
		BaseBackoff: time.Duration(cfg.Stock.BaseBackoffMs) * time.Millisecond,
	}, log)

	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo, variantRepo, categoryRepo)
	promotionUC := usecase.NewPromotionUseCase(promotionRepo)
	taxClassUC := usecase.NewTaxClassUseCase(taxClassRepo)
	pricingUC := apppricing.NewUseCase(variantRepo, promotionRepo, priceRepo, log)

	// Reporte PDF de lista de precios con IVA incluido
	currencyCfg, err := currency.LoadConfig(cfg.App.CurrencyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de moneda")
	}
	priceListGen := infrapdf.NewPriceListGenerator(currency.NewFormatter(currencyCfg))
	reportUC := apppricing.NewReportUseCase(productRepo, priceRepo, priceListGen, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		PromotionUC: promotionUC,
		TaxClassUC:  taxClassUC,
		PricingUC:   pricingUC,
		ReportUC:    reportUC,
		Ledger:      ledger,
		Coordinator: coordinator,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
