package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/stock"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	apphttp "github.com/jhoicas/pms-api/internal/interfaces/http"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake mínimo del repositorio de asignaciones para los tests de handler
// ──────────────────────────────────────────────────────────────────────────────

type memAllocRepo struct {
	mu     sync.Mutex
	allocs map[string]*entity.StockAllocation // key: warehouse/variant
	byID   map[string]*entity.StockAllocation
}

func newMemAllocRepo() *memAllocRepo {
	return &memAllocRepo{
		allocs: make(map[string]*entity.StockAllocation),
		byID:   make(map[string]*entity.StockAllocation),
	}
}

func (m *memAllocRepo) seed(id, warehouseID, variantID string, quantity int) {
	a := &entity.StockAllocation{
		ID: id, WarehouseID: warehouseID, VariantID: variantID,
		Quantity: quantity, Version: 1,
	}
	m.allocs[warehouseID+"/"+variantID] = a
	m.byID[id] = a
}

func (m *memAllocRepo) Get(_ context.Context, warehouseID, variantID string) (*entity.StockAllocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.allocs[warehouseID+"/"+variantID]
	if !ok {
		return nil, fmt.Errorf("%w: asignación %s/%s", domain.ErrNotFound, warehouseID, variantID)
	}
	copia := *a
	return &copia, nil
}

func (m *memAllocRepo) ConditionalWrite(_ context.Context, allocationID string, expectedVersion int64, newQuantity, newReserved int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[allocationID]
	if !ok {
		return 0, fmt.Errorf("%w: asignación %s", domain.ErrNotFound, allocationID)
	}
	if a.Version != expectedVersion {
		return 0, domain.ErrVersionConflict
	}
	a.Quantity = newQuantity
	a.ReservedQuantity = newReserved
	a.Version++
	return a.Version, nil
}

func (m *memAllocRepo) Create(_ context.Context, alloc *entity.StockAllocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copia := *alloc
	m.allocs[alloc.WarehouseID+"/"+alloc.VariantID] = &copia
	m.byID[alloc.ID] = &copia
	return nil
}

func (m *memAllocRepo) ListByVariant(_ context.Context, _ string) ([]*entity.StockAllocation, error) {
	return nil, nil
}

func buildStockApp(repo *memAllocRepo) *fiber.App {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	ledger := stock.NewLedger(repo, log)
	coordinator := stock.NewCoordinator(ledger, stock.CoordinatorConfig{
		MaxAttempts: 3,
		BaseBackoff: time.Millisecond,
	}, log)
	handler := apphttp.NewStockHandler(ledger, coordinator)

	app := fiber.New()
	app.Post("/stock/reservations", handler.Reserve)
	app.Post("/stock/releases", handler.Release)
	app.Post("/stock/adjustments", handler.Adjust)
	app.Get("/stock/allocations", handler.GetAllocation)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Reservas vía HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestStockHandler_ReservaExitosa(t *testing.T) {
	repo := newMemAllocRepo()
	repo.seed("a1", "wh-1", "var-1", 10)
	app := buildStockApp(repo)

	resp := postJSON(t, app, "/stock/reservations",
		`{"lines":[{"variant_id":"var-1","warehouse_id":"wh-1","amount":4}]}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.ReservationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Lines, 1)
	assert.Equal(t, "a1", out.Lines[0].AllocationID)
	assert.EqualValues(t, 2, out.Lines[0].Version, "la respuesta trae la versión post-escritura")
}

func TestStockHandler_StockInsuficiente_Retorna409(t *testing.T) {
	repo := newMemAllocRepo()
	repo.seed("a1", "wh-1", "var-1", 2)
	app := buildStockApp(repo)

	resp := postJSON(t, app, "/stock/reservations",
		`{"lines":[{"variant_id":"var-1","warehouse_id":"wh-1","amount":5}]}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
}

func TestStockHandler_CantidadInvalida_Retorna400(t *testing.T) {
	repo := newMemAllocRepo()
	repo.seed("a1", "wh-1", "var-1", 10)
	app := buildStockApp(repo)

	resp := postJSON(t, app, "/stock/reservations",
		`{"lines":[{"variant_id":"var-1","warehouse_id":"wh-1","amount":0}]}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStockHandler_BatchParcial_CompensaYRetorna409(t *testing.T) {
	repo := newMemAllocRepo()
	repo.seed("a1", "wh-1", "var-1", 10)
	repo.seed("a2", "wh-1", "var-2", 1)
	app := buildStockApp(repo)

	resp := postJSON(t, app, "/stock/reservations",
		`{"lines":[
			{"variant_id":"var-1","warehouse_id":"wh-1","amount":5},
			{"variant_id":"var-2","warehouse_id":"wh-1","amount":3}
		]}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Todo-o-nada: la primera línea quedó compensada.
	a1, err := repo.Get(context.Background(), "wh-1", "var-1")
	require.NoError(t, err)
	assert.Equal(t, 0, a1.ReservedQuantity)
}

func TestStockHandler_ReleaseYConsulta(t *testing.T) {
	repo := newMemAllocRepo()
	repo.seed("a1", "wh-1", "var-1", 10)
	app := buildStockApp(repo)

	resp := postJSON(t, app, "/stock/reservations",
		`{"lines":[{"variant_id":"var-1","warehouse_id":"wh-1","amount":6}]}`)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/stock/releases",
		`{"lines":[{"variant_id":"var-1","warehouse_id":"wh-1","amount":6}]}`)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/stock/allocations?warehouse_id=wh-1&variant_id=var-1", nil)
	getResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer getResp.Body.Close()

	var out dto.AllocationResponse
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&out))
	assert.Equal(t, 10, out.Available)
	assert.Equal(t, 0, out.ReservedQuantity)
}

func TestStockHandler_Ajuste(t *testing.T) {
	repo := newMemAllocRepo()
	repo.seed("a1", "wh-1", "var-1", 10)
	app := buildStockApp(repo)

	resp := postJSON(t, app, "/stock/adjustments",
		`{"variant_id":"var-1","warehouse_id":"wh-1","new_quantity":25}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.AllocationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 25, out.Quantity)
}

func TestStockHandler_AllocationInexistente_Retorna404(t *testing.T) {
	app := buildStockApp(newMemAllocRepo())

	req := httptest.NewRequest(http.MethodGet, "/stock/allocations?warehouse_id=x&variant_id=y", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
