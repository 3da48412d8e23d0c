package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var _ repository.PriceRepository = (*PriceRepo)(nil)

// PriceRepo persistencia del historial de precios. Usa el pool directamente
// porque SwapCurrent necesita abrir su propia transacción corta.
type PriceRepo struct {
	pool *pgxpool.Pool
}

// NewPriceRepository construye el adaptador de precios.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepo {
	return &PriceRepo{pool: pool}
}

const priceColumns = `
	p.id, p.variant_id, p.base_price, p.current, p.effective_from, p.effective_to,
	p.price_type, p.price_source, p.created_at,
	t.id, t.tax_type, t.name, t.rate, t.active, t.sars_code`

func scanPrice(row pgx.Row) (*entity.Price, error) {
	var p entity.Price
	// Columnas de tax_classes anulables: el precio puede no tener clase tributaria.
	var taxID, taxType, taxName, sarsCode *string
	var rate *decimal.Decimal
	var active *bool
	err := row.Scan(
		&p.ID, &p.VariantID, &p.BasePrice, &p.Current, &p.EffectiveFrom, &p.EffectiveTo,
		&p.PriceType, &p.PriceSource, &p.CreatedAt,
		&taxID, &taxType, &taxName, &rate, &active, &sarsCode,
	)
	if err != nil {
		return nil, err
	}
	if taxID != nil {
		t := entity.TaxClass{ID: *taxID, TaxType: entity.TaxType(*taxType)}
		if taxName != nil {
			t.Name = *taxName
		}
		if rate != nil {
			t.Rate = *rate
		}
		if active != nil {
			t.Active = *active
		}
		if sarsCode != nil {
			t.SARSCode = *sarsCode
		}
		p.TaxClass = &t
	}
	return &p, nil
}

// Create persiste un precio del historial.
func (r *PriceRepo) Create(ctx context.Context, price *entity.Price) error {
	return insertPrice(ctx, r.pool, price)
}

func insertPrice(ctx context.Context, q Querier, price *entity.Price) error {
	query := `
		INSERT INTO prices (id, variant_id, base_price, current, tax_class_id,
			effective_from, effective_to, price_type, price_source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	var taxClassID *string
	if price.TaxClass != nil {
		taxClassID = &price.TaxClass.ID
	}
	_, err := q.Exec(ctx, query,
		price.ID, price.VariantID, price.BasePrice, price.Current, taxClassID,
		price.EffectiveFrom, price.EffectiveTo, price.PriceType, price.PriceSource, price.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert price: %w", err)
	}
	return nil
}

// GetCurrent precio vigente (Current=true) de una variante, con su clase tributaria.
func (r *PriceRepo) GetCurrent(ctx context.Context, variantID string) (*entity.Price, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM prices p LEFT JOIN tax_classes t ON t.id = p.tax_class_id
		WHERE p.variant_id = $1 AND p.current = true`
	price, err := scanPrice(r.pool.QueryRow(ctx, query, variantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: precio vigente de variante %s", domain.ErrNotFound, variantID)
		}
		return nil, fmt.Errorf("get current price: %w", err)
	}
	return price, nil
}

// ListByVariant historial completo de precios de una variante.
func (r *PriceRepo) ListByVariant(ctx context.Context, variantID string) ([]*entity.Price, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM prices p LEFT JOIN tax_classes t ON t.id = p.tax_class_id
		WHERE p.variant_id = $1 ORDER BY p.effective_from DESC`
	rows, err := r.pool.Query(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	defer rows.Close()

	var out []*entity.Price
	for rows.Next() {
		price, err := scanPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		out = append(out, price)
	}
	return out, rows.Err()
}

// SwapCurrent supersesión atómica del precio vigente: una transacción corta
// que cierra el precio viejo, inserta el nuevo con Current=true y deja el
// registro de auditoría. Ningún lector observa cero o dos precios vigentes.
func (r *PriceRepo) SwapCurrent(ctx context.Context, variantID, oldPriceID string, newPrice *entity.Price, change *entity.PriceChange) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin swap: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Cierra el viejo solo si sigue siendo el vigente; cero filas = otro
	// writer lo reemplazó primero.
	tag, err := tx.Exec(ctx, `
		UPDATE prices SET current = false, effective_to = $3
		WHERE id = $1 AND variant_id = $2 AND current = true`,
		oldPriceID, variantID, newPrice.EffectiveFrom,
	)
	if err != nil {
		return fmt.Errorf("cerrar precio %s: %w", oldPriceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: el precio %s ya no es el vigente de %s", domain.ErrConflict, oldPriceID, variantID)
	}

	if err := insertPrice(ctx, tx, newPrice); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO price_changes (id, promotion_id, old_price_id, new_price_id, changed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		change.ID, change.PromotionID, change.OldPriceID, change.NewPriceID, change.ChangedAt, change.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert price change: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit swap: %w", err)
	}
	return nil
}

// ListChangesByPromotion auditoría de cambios de precio generados por una promoción.
func (r *PriceRepo) ListChangesByPromotion(ctx context.Context, promotionID string) ([]*entity.PriceChange, error) {
	query := `
		SELECT id, promotion_id, old_price_id, new_price_id, changed_at, created_at
		FROM price_changes WHERE promotion_id = $1 ORDER BY changed_at DESC`
	rows, err := r.pool.Query(ctx, query, promotionID)
	if err != nil {
		return nil, fmt.Errorf("list price changes: %w", err)
	}
	defer rows.Close()

	var out []*entity.PriceChange
	for rows.Next() {
		var c entity.PriceChange
		if err := rows.Scan(&c.ID, &c.PromotionID, &c.OldPriceID, &c.NewPriceID, &c.ChangedAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan price change: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
