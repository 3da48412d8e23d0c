package stock

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// Line una línea de reserva: cantidad de una variante en una bodega.
type Line struct {
	VariantID   string
	WarehouseID string
	Amount      int
}

// ReservedLine resultado por línea: versión actualizada que el caller debe
// recordar para liberar en fulfillment o cancelación.
type ReservedLine struct {
	Line
	AllocationID string
	Version      int64
}

// Result reservas confirmadas de un batch exitoso.
type Result struct {
	Lines []ReservedLine
}

// CoordinatorConfig parámetros de reintento del coordinador.
type CoordinatorConfig struct {
	MaxAttempts int           // intentos por línea ante conflicto de versión
	BaseBackoff time.Duration // base del backoff exponencial con jitter
}

// DefaultCoordinatorConfig valores usados cuando el caller no configura.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{MaxAttempts: 5, BaseBackoff: 10 * time.Millisecond}
}

// Coordinator orquesta reservas multi-línea con semántica todo-o-nada:
// reserva línea por línea reintentando conflictos de versión con backoff
// exponencial con jitter; ante stock insuficiente (o cancelación del
// contexto) libera lo ya reservado del batch antes de devolver el error.
// El almacenamiento no hace rollback implícito: la compensación es explícita.
type Coordinator struct {
	ledger *Ledger
	cfg    CoordinatorConfig
	log    *logger.Logger
}

// NewCoordinator construye el coordinador. cfg con MaxAttempts <= 0 usa defaults.
func NewCoordinator(ledger *Ledger, cfg CoordinatorConfig, log *logger.Logger) *Coordinator {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultCoordinatorConfig()
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 10 * time.Millisecond
	}
	return &Coordinator{ledger: ledger, cfg: cfg, log: log}
}

// ReserveBatch reserva todas las líneas o ninguna.
//
//   - domain.ErrInvalidInput: alguna línea con cantidad no positiva (local,
//     nada se reserva, nunca se reintenta).
//   - domain.ErrInsufficientStock: identifica la línea que falló; todo lo ya
//     reservado del batch fue compensado.
//   - domain.ErrReservationFailed: conflicto de versión persistente tras
//     agotar los reintentos de alguna línea; el batch fue compensado.
func (c *Coordinator) ReserveBatch(ctx context.Context, lines []Line) (*Result, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: batch de reserva vacío", domain.ErrInvalidInput)
	}
	for i, line := range lines {
		if line.Amount <= 0 {
			return nil, fmt.Errorf("%w: cantidad no positiva en línea %d (variante %s)",
				domain.ErrInvalidInput, i, line.VariantID)
		}
	}

	reserved := make([]ReservedLine, 0, len(lines))
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			c.compensate(reserved)
			return nil, fmt.Errorf("batch abandonado en línea %d: %w", i, err)
		}

		rl, err := c.reserveLine(ctx, line)
		if err != nil {
			c.compensate(reserved)
			switch {
			case errors.Is(err, domain.ErrInsufficientStock):
				return nil, fmt.Errorf("%w: línea %d (variante %s, bodega %s, cantidad %d)",
					domain.ErrInsufficientStock, i, line.VariantID, line.WarehouseID, line.Amount)
			case errors.Is(err, domain.ErrVersionConflict):
				c.log.Warn().
					Str("variant_id", line.VariantID).
					Str("warehouse_id", line.WarehouseID).
					Int("attempts", c.cfg.MaxAttempts).
					Msg("reserva agotó reintentos por conflicto de versión")
				return nil, fmt.Errorf("%w: línea %d (variante %s, bodega %s)",
					domain.ErrReservationFailed, i, line.VariantID, line.WarehouseID)
			default:
				return nil, fmt.Errorf("reservar línea %d: %w", i, err)
			}
		}
		reserved = append(reserved, rl)
	}
	return &Result{Lines: reserved}, nil
}

// ReleaseBatch libera líneas reservadas previamente (fulfillment o
// cancelación), con la misma política de reintentos por línea.
func (c *Coordinator) ReleaseBatch(ctx context.Context, lines []Line) error {
	for i, line := range lines {
		if line.Amount <= 0 {
			return fmt.Errorf("%w: cantidad no positiva en línea %d", domain.ErrInvalidInput, i)
		}
		if err := c.releaseLine(ctx, line); err != nil {
			return fmt.Errorf("liberar línea %d (variante %s): %w", i, line.VariantID, err)
		}
	}
	return nil
}

// reserveLine lee, computa el estado post-reserva y hace el conditional
// write; ante conflicto de versión (o timeout del write) relee y reintenta
// hasta MaxAttempts con backoff.
func (c *Coordinator) reserveLine(ctx context.Context, line Line) (ReservedLine, error) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.backoff(ctx, attempt); err != nil {
				return ReservedLine{}, err
			}
		}

		alloc, err := c.ledger.Get(ctx, line.WarehouseID, line.VariantID)
		if err != nil {
			return ReservedLine{}, err
		}
		version, err := c.ledger.Reserve(ctx, alloc, line.Amount)
		if err == nil {
			return ReservedLine{Line: line, AllocationID: alloc.ID, Version: version}, nil
		}
		if !retryable(err) {
			return ReservedLine{}, err
		}
		lastErr = err
		c.log.Debug().
			Str("variant_id", line.VariantID).
			Str("warehouse_id", line.WarehouseID).
			Int("attempt", attempt+1).
			Msg("reintentando reserva tras conflicto")
	}
	return ReservedLine{}, lastErr
}

func (c *Coordinator) releaseLine(ctx context.Context, line Line) error {
	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.backoff(ctx, attempt); err != nil {
				return err
			}
		}
		alloc, err := c.ledger.Get(ctx, line.WarehouseID, line.VariantID)
		if err != nil {
			return err
		}
		if _, err = c.ledger.Release(ctx, alloc, line.Amount); err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", domain.ErrReservationFailed, lastErr)
}

// compensate libera en orden inverso las líneas ya reservadas de un batch
// fallido. Corre con contexto propio: la compensación debe completarse aunque
// el contexto del request ya esté cancelado.
func (c *Coordinator) compensate(reserved []ReservedLine) {
	if len(reserved) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := len(reserved) - 1; i >= 0; i-- {
		rl := reserved[i]
		if err := c.releaseLine(ctx, rl.Line); err != nil {
			// Stock queda sobre-reservado hasta intervención manual; el log
			// con la línea exacta es el rastro para reconciliar.
			c.log.Error().Err(err).
				Str("allocation_id", rl.AllocationID).
				Str("variant_id", rl.VariantID).
				Int("amount", rl.Amount).
				Msg("compensación de reserva fallida")
		}
	}
}

// retryable conflictos de versión y timeouts del write condicional se
// reintentan; todo lo demás se propaga.
func retryable(err error) bool {
	return errors.Is(err, domain.ErrVersionConflict) || errors.Is(err, context.DeadlineExceeded)
}

// backoff espera base × 2^(attempt-1) más jitter uniforme, respetando la
// cancelación del contexto. El jitter evita estampidas sobre variantes calientes.
func (c *Coordinator) backoff(ctx context.Context, attempt int) error {
	d := c.cfg.BaseBackoff << (attempt - 1)
	d += time.Duration(rand.Int63n(int64(c.cfg.BaseBackoff)))
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
