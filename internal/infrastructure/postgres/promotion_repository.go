package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var _ repository.PromotionRepository = (*PromotionRepo)(nil)

// PromotionRepo persistencia de promociones y sus reglas (agregado completo:
// la promoción se carga y guarda siempre con sus reglas).
type PromotionRepo struct {
	pool *pgxpool.Pool
}

// NewPromotionRepository construye el adaptador de promociones.
func NewPromotionRepository(pool *pgxpool.Pool) *PromotionRepo {
	return &PromotionRepo{pool: pool}
}

// Create persiste la promoción y sus reglas en una transacción.
func (r *PromotionRepo) Create(ctx context.Context, p *entity.Promotion) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create promotion: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO promotions (id, name, description, type, required_quantity, free_quantity,
			discount_value, start_date, end_date, cpa_compliant_display, sars_compliance_code,
			cpa_reference_number, compliance_approval_date, approved_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.Name, p.Description, p.Type, p.RequiredQuantity, p.FreeQuantity,
		p.DiscountValue, p.StartDate, p.EndDate, p.CPACompliantDisplay, p.SARSComplianceCode,
		p.CPAReferenceNumber, p.ComplianceApprovalDate, p.ApprovedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: promoción %s", domain.ErrDuplicate, p.ID)
		}
		return fmt.Errorf("insert promotion: %w", err)
	}

	for i := range p.Rules {
		if err := insertRule(ctx, tx, &p.Rules[i]); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create promotion: %w", err)
	}
	return nil
}

func insertRule(ctx context.Context, q Querier, rule *entity.Rule) error {
	_, err := q.Exec(ctx, `
		INSERT INTO promotion_rules (id, promotion_id, name, description, type, field, operator,
			value, value_type, value_format, priority, active, system_rule, parent_rule_id,
			logical_operator, child_rule_ids, compliance_section, cpa_compliant,
			regulatory_reference, compliance_approval_date, compliance_expiry_date,
			error_code, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25)`,
		rule.ID, rule.PromotionID, rule.Name, rule.Description, rule.Type, rule.Field, rule.Operator,
		rule.Value, rule.ValueType, rule.ValueFormat, rule.Priority, rule.Active, rule.SystemRule,
		nullIfEmpty(rule.ParentRuleID), rule.LogicalOperator, rule.ChildRuleIDs,
		rule.ComplianceSection, rule.CPACompliant, rule.RegulatoryReference,
		rule.ComplianceApprovalDate, rule.ComplianceExpiryDate,
		rule.ErrorCode, rule.ErrorMessage, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rule %s: %w", rule.ID, err)
	}
	return nil
}

// GetByID carga la promoción con todas sus reglas.
func (r *PromotionRepo) GetByID(ctx context.Context, id string) (*entity.Promotion, error) {
	query := `
		SELECT id, name, description, type, required_quantity, free_quantity, discount_value,
			start_date, end_date, cpa_compliant_display, sars_compliance_code,
			cpa_reference_number, compliance_approval_date, approved_by, created_at, updated_at
		FROM promotions WHERE id = $1`
	var p entity.Promotion
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Type, &p.RequiredQuantity, &p.FreeQuantity,
		&p.DiscountValue, &p.StartDate, &p.EndDate, &p.CPACompliantDisplay, &p.SARSComplianceCode,
		&p.CPAReferenceNumber, &p.ComplianceApprovalDate, &p.ApprovedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: promoción %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get promotion: %w", err)
	}

	rules, err := r.loadRules(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Rules = rules
	return &p, nil
}

func (r *PromotionRepo) loadRules(ctx context.Context, promotionID string) ([]entity.Rule, error) {
	query := `
		SELECT id, promotion_id, name, description, type, field, operator, value, value_type,
			value_format, priority, active, system_rule, parent_rule_id, logical_operator,
			child_rule_ids, compliance_section, cpa_compliant, regulatory_reference,
			compliance_approval_date, compliance_expiry_date, error_code, error_message,
			created_at, updated_at
		FROM promotion_rules WHERE promotion_id = $1 ORDER BY priority, id`
	rows, err := r.pool.Query(ctx, query, promotionID)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	defer rows.Close()

	var out []entity.Rule
	for rows.Next() {
		var rule entity.Rule
		var parentID *string
		if err := rows.Scan(
			&rule.ID, &rule.PromotionID, &rule.Name, &rule.Description, &rule.Type, &rule.Field,
			&rule.Operator, &rule.Value, &rule.ValueType, &rule.ValueFormat, &rule.Priority,
			&rule.Active, &rule.SystemRule, &parentID, &rule.LogicalOperator, &rule.ChildRuleIDs,
			&rule.ComplianceSection, &rule.CPACompliant, &rule.RegulatoryReference,
			&rule.ComplianceApprovalDate, &rule.ComplianceExpiryDate,
			&rule.ErrorCode, &rule.ErrorMessage, &rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		if parentID != nil {
			rule.ParentRuleID = *parentID
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

// List promociones paginadas (sin reglas; GetByID carga el agregado completo).
func (r *PromotionRepo) List(ctx context.Context, limit, offset int) ([]*entity.Promotion, error) {
	query := `
		SELECT id, name, description, type, required_quantity, free_quantity, discount_value,
			start_date, end_date, cpa_compliant_display, sars_compliance_code,
			cpa_reference_number, compliance_approval_date, approved_by, created_at, updated_at
		FROM promotions ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	var out []*entity.Promotion
	for rows.Next() {
		var p entity.Promotion
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Type, &p.RequiredQuantity, &p.FreeQuantity,
			&p.DiscountValue, &p.StartDate, &p.EndDate, &p.CPACompliantDisplay, &p.SARSComplianceCode,
			&p.CPAReferenceNumber, &p.ComplianceApprovalDate, &p.ApprovedBy, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Update actualiza la promoción y reemplaza sus reglas en una transacción.
func (r *PromotionRepo) Update(ctx context.Context, p *entity.Promotion) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update promotion: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE promotions SET name = $2, description = $3, type = $4, required_quantity = $5,
			free_quantity = $6, discount_value = $7, start_date = $8, end_date = $9,
			cpa_compliant_display = $10, updated_at = now()
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Type, p.RequiredQuantity,
		p.FreeQuantity, p.DiscountValue, p.StartDate, p.EndDate, p.CPACompliantDisplay,
	)
	if err != nil {
		return fmt.Errorf("update promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: promoción %s", domain.ErrNotFound, p.ID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM promotion_rules WHERE promotion_id = $1`, p.ID); err != nil {
		return fmt.Errorf("delete rules: %w", err)
	}
	for i := range p.Rules {
		if err := insertRule(ctx, tx, &p.Rules[i]); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update promotion: %w", err)
	}
	return nil
}

// Delete elimina la promoción y (por cascada) sus reglas.
func (r *PromotionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: promoción %s", domain.ErrNotFound, id)
	}
	return nil
}
