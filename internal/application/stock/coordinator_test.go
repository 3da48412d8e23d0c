package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/application/stock"
	"github.com/jhoicas/pms-api/internal/domain"
)

func newCoordinator(repo *fakeAllocationRepo) *stock.Coordinator {
	ledger := stock.NewLedger(repo, testLogger())
	return stock.NewCoordinator(ledger, stock.CoordinatorConfig{
		MaxAttempts: 5,
		BaseBackoff: time.Millisecond,
	}, testLogger())
}

// ──────────────────────────────────────────────────────────────────────────────
// ReserveBatch: todo-o-nada
// ──────────────────────────────────────────────────────────────────────────────

func TestReserveBatch_TodasLasLineas(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("a1", "wh-1", "var-1", 10)
	repo.seed("a2", "wh-1", "var-2", 10)
	coord := newCoordinator(repo)

	result, err := coord.ReserveBatch(context.Background(), []stock.Line{
		{VariantID: "var-1", WarehouseID: "wh-1", Amount: 3},
		{VariantID: "var-2", WarehouseID: "wh-1", Amount: 5},
	})
	require.NoError(t, err)
	require.Len(t, result.Lines, 2)

	// Cada línea reporta la versión post-escritura que el caller debe guardar.
	assert.Equal(t, "a1", result.Lines[0].AllocationID)
	assert.EqualValues(t, 2, result.Lines[0].Version)

	a1, _ := repo.Get(context.Background(), "wh-1", "var-1")
	a2, _ := repo.Get(context.Background(), "wh-1", "var-2")
	assert.Equal(t, 3, a1.ReservedQuantity)
	assert.Equal(t, 5, a2.ReservedQuantity)
}

func TestReserveBatch_CompensaAnteStockInsuficiente(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("a1", "wh-1", "var-1", 10)
	repo.seed("a2", "wh-1", "var-2", 2) // insuficiente para la segunda línea
	coord := newCoordinator(repo)

	_, err := coord.ReserveBatch(context.Background(), []stock.Line{
		{VariantID: "var-1", WarehouseID: "wh-1", Amount: 5},
		{VariantID: "var-2", WarehouseID: "wh-1", Amount: 3},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "var-2", "el error identifica la línea que falló")

	// La primera línea fue reservada y luego compensada.
	a1, _ := repo.Get(context.Background(), "wh-1", "var-1")
	assert.Equal(t, 0, a1.ReservedQuantity, "el batch fallido no deja reservas residuales")
}

func TestReserveBatch_CantidadInvalida_NoTocaNada(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("a1", "wh-1", "var-1", 10)
	coord := newCoordinator(repo)

	_, err := coord.ReserveBatch(context.Background(), []stock.Line{
		{VariantID: "var-1", WarehouseID: "wh-1", Amount: 3},
		{VariantID: "var-1", WarehouseID: "wh-1", Amount: 0},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput,
		"la validación local corre antes de reservar cualquier línea")

	a1, _ := repo.Get(context.Background(), "wh-1", "var-1")
	assert.Equal(t, 0, a1.ReservedQuantity)
	assert.EqualValues(t, 1, a1.Version, "ninguna escritura debe haber ocurrido")
}

func TestReserveBatch_Vacio_RetornaInvalidInput(t *testing.T) {
	coord := newCoordinator(newFakeRepo())
	_, err := coord.ReserveBatch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReserveBatch_VarianteInexistente_Compensa(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("a1", "wh-1", "var-1", 10)
	coord := newCoordinator(repo)

	_, err := coord.ReserveBatch(context.Background(), []stock.Line{
		{VariantID: "var-1", WarehouseID: "wh-1", Amount: 5},
		{VariantID: "fantasma", WarehouseID: "wh-1", Amount: 1},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	a1, _ := repo.Get(context.Background(), "wh-1", "var-1")
	assert.Equal(t, 0, a1.ReservedQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// ReleaseBatch
// ──────────────────────────────────────────────────────────────────────────────

func TestReleaseBatch_LiberaLoReservado(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("a1", "wh-1", "var-1", 10)
	coord := newCoordinator(repo)

	lines := []stock.Line{{VariantID: "var-1", WarehouseID: "wh-1", Amount: 4}}
	_, err := coord.ReserveBatch(context.Background(), lines)
	require.NoError(t, err)

	require.NoError(t, coord.ReleaseBatch(context.Background(), lines))

	a1, _ := repo.Get(context.Background(), "wh-1", "var-1")
	assert.Equal(t, 0, a1.ReservedQuantity)
}

func TestReleaseBatch_MasDeLoReservado_RetornaInvalidInput(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("a1", "wh-1", "var-1", 10)
	coord := newCoordinator(repo)

	err := coord.ReleaseBatch(context.Background(), []stock.Line{
		{VariantID: "var-1", WarehouseID: "wh-1", Amount: 1},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"liberar sin reserva previa es un error del caller")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reintentos bajo contención
// ──────────────────────────────────────────────────────────────────────────────

// Batches concurrentes sobre la misma asignación: los conflictos de versión se
// reintentan con backoff y al final lo reservado coincide con los batches que
// reportaron éxito.
func TestReserveBatch_ContencionConReintentos(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("a1", "wh-1", "var-1", 40)
	coord := newCoordinator(repo)

	const batches = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < batches; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := coord.ReserveBatch(context.Background(), []stock.Line{
				{VariantID: "var-1", WarehouseID: "wh-1", Amount: 2},
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	a1, _ := repo.Get(context.Background(), "wh-1", "var-1")
	assert.Equal(t, wins*2, a1.ReservedQuantity,
		"cada batch exitoso reservó exactamente sus 2 unidades")
	assert.LessOrEqual(t, a1.ReservedQuantity, a1.Quantity)
}

// contestedRepo fuerza conflicto de versión permanente sobre una asignación:
// todo ConditionalWrite sobre ella falla como si otro escritor ganara siempre.
type contestedRepo struct {
	*fakeAllocationRepo
	contestedID string
}

func (r *contestedRepo) ConditionalWrite(ctx context.Context, allocationID string, expectedVersion int64, newQuantity, newReserved int) (int64, error) {
	if allocationID == r.contestedID {
		return 0, domain.ErrVersionConflict
	}
	return r.fakeAllocationRepo.ConditionalWrite(ctx, allocationID, expectedVersion, newQuantity, newReserved)
}

// Conflicto persistente: agotados los reintentos la línea se rinde con
// ErrReservationFailed y lo ya reservado del batch se compensa.
func TestReserveBatch_ConflictoPersistente_AgotaReintentos(t *testing.T) {
	base := newFakeRepo()
	base.seed("a1", "wh-1", "var-1", 10)
	base.seed("a2", "wh-1", "var-2", 10)
	repo := &contestedRepo{fakeAllocationRepo: base, contestedID: "a2"}

	ledger := stock.NewLedger(repo, testLogger())
	coord := stock.NewCoordinator(ledger, stock.CoordinatorConfig{
		MaxAttempts: 3,
		BaseBackoff: time.Millisecond,
	}, testLogger())

	_, err := coord.ReserveBatch(context.Background(), []stock.Line{
		{VariantID: "var-1", WarehouseID: "wh-1", Amount: 4},
		{VariantID: "var-2", WarehouseID: "wh-1", Amount: 2},
	})
	require.ErrorIs(t, err, domain.ErrReservationFailed,
		"el conflicto que sobrevive a todos los reintentos no se reporta como conflicto crudo")
	assert.Contains(t, err.Error(), "var-2", "el error identifica la línea agotada")

	// La línea disputada nunca escribió y la primera quedó compensada.
	a1, _ := base.Get(context.Background(), "wh-1", "var-1")
	a2, _ := base.Get(context.Background(), "wh-1", "var-2")
	assert.Equal(t, 0, a1.ReservedQuantity, "la línea previa del batch fue liberada")
	assert.Equal(t, 0, a2.ReservedQuantity)
	assert.EqualValues(t, 1, a2.Version, "ninguna escritura llegó a la asignación disputada")
}

// Contexto cancelado antes de la segunda línea: el batch se abandona y la
// primera línea se compensa con un contexto propio.
func TestReserveBatch_ContextoCancelado_Compensa(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("a1", "wh-1", "var-1", 10)
	repo.seed("a2", "wh-1", "var-2", 10)
	coord := newCoordinator(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := coord.ReserveBatch(ctx, []stock.Line{
		{VariantID: "var-1", WarehouseID: "wh-1", Amount: 5},
		{VariantID: "var-2", WarehouseID: "wh-1", Amount: 5},
	})
	require.Error(t, err)

	a1, _ := repo.Get(context.Background(), "wh-1", "var-1")
	a2, _ := repo.Get(context.Background(), "wh-1", "var-2")
	assert.Equal(t, 0, a1.ReservedQuantity, "nada queda reservado tras la cancelación")
	assert.Equal(t, 0, a2.ReservedQuantity)
}
