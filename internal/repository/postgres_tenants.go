package repository

import (
	"context"
	"database/sql"
	"fmt"

	"unithub/internal/domain"

	"github.com/google/uuid"
)

// PostgresTenantsRepository 租客 Repository（PostgreSQL）
type PostgresTenantsRepository struct {
	db *sql.DB
}

func NewPostgresTenantsRepository(db *sql.DB) *PostgresTenantsRepository {
	return &PostgresTenantsRepository{db: db}
}

// 确保实现了接口
var _ TenantsRepository = (*PostgresTenantsRepository)(nil)

const tenantColumns = `
	id::text,
	name,
	email,
	phone,
	unit_number,
	lease_start_date::text,
	lease_end_date::text,
	rent_amount::text,
	deposit_amount::text,
	emergency_contact,
	notes,
	created_at,
	updated_at`

func scanTenant(s rowScanner) (TenantRow, error) {
	var row TenantRow
	err := s.Scan(
		&row.ID,
		&row.Name,
		&row.Email,
		&row.Phone,
		&row.UnitNumber,
		&row.LeaseStartDate,
		&row.LeaseEndDate,
		&row.RentAmount,
		&row.DepositAmount,
		&row.EmergencyContact,
		&row.Notes,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	return row, err
}

func (r *PostgresTenantsRepository) queryTenants(ctx context.Context, op, query string, args ...any) ([]*domain.Tenant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	tenants := []*domain.Tenant{}
	for rows.Next() {
		row, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, MapTenant(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tenants: %w", err)
	}
	return tenants, nil
}

func (r *PostgresTenantsRepository) ListTenants(ctx context.Context, ownerID string) ([]*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + `
		FROM tenants
		WHERE owner_id = $1
		ORDER BY name ASC`
	return r.queryTenants(ctx, "list tenants", query, ownerID)
}

func (r *PostgresTenantsRepository) GetTenant(ctx context.Context, ownerID, id string) (*domain.Tenant, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := `SELECT ` + tenantColumns + `
		FROM tenants
		WHERE id = $1::uuid AND owner_id = $2`
	row, err := scanTenant(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, notFoundOr(err, "get tenant")
	}
	return MapTenant(row), nil
}

func (r *PostgresTenantsRepository) CreateTenant(ctx context.Context, ownerID string, in *domain.TenantInput) (*domain.Tenant, error) {
	query := `
		INSERT INTO tenants (
			id, owner_id, name, email, phone, unit_number,
			lease_start_date, lease_end_date, rent_amount, deposit_amount,
			emergency_contact, notes, created_at, updated_at
		) VALUES (
			$1::uuid, $2, $3, $4, $5, $6,
			$7::date, $8::date, $9::numeric, $10::numeric,
			NULLIF($11, ''), NULLIF($12, ''), NOW(), NOW()
		)
		RETURNING ` + tenantColumns

	row, err := scanTenant(r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		ownerID,
		in.Name,
		in.Email,
		in.Phone,
		in.UnitNumber,
		in.LeaseStartDate,
		in.LeaseEndDate,
		formatAmount(in.RentAmount),
		formatAmount(in.DepositAmount),
		in.EmergencyContact,
		in.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	return MapTenant(row), nil
}

func (r *PostgresTenantsRepository) UpdateTenant(ctx context.Context, ownerID, id string, in *domain.TenantInput) (*domain.Tenant, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := `
		UPDATE tenants SET
			name = $3,
			email = $4,
			phone = $5,
			unit_number = $6,
			lease_start_date = $7::date,
			lease_end_date = $8::date,
			rent_amount = $9::numeric,
			deposit_amount = $10::numeric,
			emergency_contact = NULLIF($11, ''),
			notes = NULLIF($12, ''),
			updated_at = NOW()
		WHERE id = $1::uuid AND owner_id = $2
		RETURNING ` + tenantColumns

	row, err := scanTenant(r.db.QueryRowContext(ctx, query,
		id,
		ownerID,
		in.Name,
		in.Email,
		in.Phone,
		in.UnitNumber,
		in.LeaseStartDate,
		in.LeaseEndDate,
		formatAmount(in.RentAmount),
		formatAmount(in.DepositAmount),
		in.EmergencyContact,
		in.Notes,
	))
	if err != nil {
		return nil, notFoundOr(err, "update tenant")
	}
	return MapTenant(row), nil
}

// DeleteTenant 依赖外键 ON DELETE CASCADE 删除关联记录
func (r *PostgresTenantsRepository) DeleteTenant(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tenants WHERE id = $1::uuid AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	return checkRowsAffected(result, "delete tenant")
}

func (r *PostgresTenantsRepository) CountTenants(ctx context.Context, ownerID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants WHERE owner_id = $1`, ownerID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count tenants: %w", err)
	}
	return total, nil
}

// ListRentAmounts 返回 NUMERIC 原文，由调用方做精确求和
func (r *PostgresTenantsRepository) ListRentAmounts(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT COALESCE(rent_amount::text, '0') FROM tenants WHERE owner_id = $1`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rent amounts: %w", err)
	}
	defer rows.Close()

	amounts := []string{}
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return nil, fmt.Errorf("failed to scan rent amount: %w", err)
		}
		amounts = append(amounts, amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rent amounts: %w", err)
	}
	return amounts, nil
}

func (r *PostgresTenantsRepository) ListRecentTenants(ctx context.Context, ownerID string, limit int) ([]*domain.Tenant, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `SELECT ` + tenantColumns + `
		FROM tenants
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	return r.queryTenants(ctx, "list recent tenants", query, ownerID, limit)
}
