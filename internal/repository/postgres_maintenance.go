package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"unithub/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresMaintenanceRepository 维修工单 Repository（PostgreSQL）
type PostgresMaintenanceRepository struct {
	db *sql.DB
}

func NewPostgresMaintenanceRepository(db *sql.DB) *PostgresMaintenanceRepository {
	return &PostgresMaintenanceRepository{db: db}
}

var _ MaintenanceRequestsRepository = (*PostgresMaintenanceRepository)(nil)

func maintenanceSelect(source string) string {
	return `
		SELECT
			m.id::text,
			m.tenant_id::text,
			t.name,
			t.unit_number,
			m.title,
			m.description,
			m.category,
			m.priority,
			m.status,
			m.estimated_cost::text,
			m.actual_cost::text,
			m.assigned_vendor,
			COALESCE(m.photos, '[]'::jsonb),
			m.completed_at,
			m.created_at,
			m.updated_at
		FROM ` + source + ` m
		LEFT JOIN tenants t ON t.id = m.tenant_id`
}

func scanMaintenanceRequest(s rowScanner) (MaintenanceRequestRow, error) {
	var row MaintenanceRequestRow
	err := s.Scan(
		&row.ID,
		&row.TenantID,
		&row.Tenant.Name,
		&row.Tenant.UnitNumber,
		&row.Title,
		&row.Description,
		&row.Category,
		&row.Priority,
		&row.Status,
		&row.EstimatedCost,
		&row.ActualCost,
		&row.AssignedVendor,
		&row.Photos,
		&row.CompletedAt,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	return row, err
}

func (r *PostgresMaintenanceRepository) queryMaintenance(ctx context.Context, op, query string, args ...any) ([]*domain.MaintenanceRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	requests := []*domain.MaintenanceRequest{}
	for rows.Next() {
		row, err := scanMaintenanceRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan maintenance request: %w", err)
		}
		requests = append(requests, MapMaintenanceRequest(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate maintenance requests: %w", err)
	}
	return requests, nil
}

func (r *PostgresMaintenanceRepository) ListMaintenanceRequests(ctx context.Context, ownerID string, filter MaintenanceFilter) ([]*domain.MaintenanceRequest, error) {
	where := newWhereBuilder("m.owner_id = $1", ownerID)
	if filter.TenantID != "" {
		if !validID(filter.TenantID) {
			return []*domain.MaintenanceRequest{}, nil
		}
		where.add("m.tenant_id = $%d::uuid", filter.TenantID)
	}
	if filter.Status != "" {
		where.add("m.status = $%d", filter.Status)
	}
	if filter.Priority != "" {
		where.add("m.priority = $%d", filter.Priority)
	}

	query := maintenanceSelect("maintenance_requests") + `
		` + where.clause() + `
		ORDER BY m.created_at DESC`
	return r.queryMaintenance(ctx, "list maintenance requests", query, where.args...)
}

func (r *PostgresMaintenanceRepository) GetMaintenanceRequest(ctx context.Context, ownerID, id string) (*domain.MaintenanceRequest, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := maintenanceSelect("maintenance_requests") + `
		WHERE m.id = $1::uuid AND m.owner_id = $2`
	row, err := scanMaintenanceRequest(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, notFoundOr(err, "get maintenance request")
	}
	return MapMaintenanceRequest(row), nil
}

func (r *PostgresMaintenanceRepository) CreateMaintenanceRequest(ctx context.Context, ownerID string, in *domain.MaintenanceRequestInput) (*domain.MaintenanceRequest, error) {
	status := in.Status
	if status == "" {
		status = domain.MaintenanceStatusOpen
	}
	query := `
		WITH ins AS (
			INSERT INTO maintenance_requests (
				id, owner_id, tenant_id, title, description, category, priority, status,
				estimated_cost, actual_cost, assigned_vendor, photos, created_at, updated_at
			) VALUES (
				$1::uuid, $2, $3::uuid, $4, $5, $6, $7, $8,
				$9::numeric, $10::numeric, NULLIF($11, ''), $12::jsonb, NOW(), NOW()
			)
			RETURNING *
		)` + maintenanceSelect("ins")

	row, err := scanMaintenanceRequest(r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		ownerID,
		in.TenantID,
		in.Title,
		in.Description,
		in.Category,
		in.Priority,
		status,
		formatOptionalAmount(in.EstimatedCost),
		formatOptionalAmount(in.ActualCost),
		in.AssignedVendor,
		encodeStringList(in.Photos),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create maintenance request: %w", err)
	}
	return MapMaintenanceRequest(row), nil
}

func (r *PostgresMaintenanceRepository) UpdateMaintenanceRequest(ctx context.Context, ownerID, id string, in *domain.MaintenanceRequestInput, completedAt *time.Time) (*domain.MaintenanceRequest, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var completed sql.NullTime
	if completedAt != nil {
		completed = sql.NullTime{Time: *completedAt, Valid: true}
	}
	query := `
		WITH upd AS (
			UPDATE maintenance_requests SET
				tenant_id = $3::uuid,
				title = $4,
				description = $5,
				category = $6,
				priority = $7,
				status = COALESCE(NULLIF($8, ''), status),
				estimated_cost = $9::numeric,
				actual_cost = $10::numeric,
				assigned_vendor = NULLIF($11, ''),
				photos = $12::jsonb,
				completed_at = $13,
				updated_at = NOW()
			WHERE id = $1::uuid AND owner_id = $2
			RETURNING *
		)` + maintenanceSelect("upd")

	row, err := scanMaintenanceRequest(r.db.QueryRowContext(ctx, query,
		id,
		ownerID,
		in.TenantID,
		in.Title,
		in.Description,
		in.Category,
		in.Priority,
		in.Status,
		formatOptionalAmount(in.EstimatedCost),
		formatOptionalAmount(in.ActualCost),
		in.AssignedVendor,
		encodeStringList(in.Photos),
		completed,
	))
	if err != nil {
		return nil, notFoundOr(err, "update maintenance request")
	}
	return MapMaintenanceRequest(row), nil
}

func (r *PostgresMaintenanceRepository) DeleteMaintenanceRequest(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM maintenance_requests WHERE id = $1::uuid AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete maintenance request: %w", err)
	}
	return checkRowsAffected(result, "delete maintenance request")
}

func (r *PostgresMaintenanceRepository) CountMaintenanceByStatus(ctx context.Context, ownerID string, statuses []string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM maintenance_requests WHERE owner_id = $1 AND status = ANY($2)`,
		ownerID, pq.Array(statuses),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count maintenance requests: %w", err)
	}
	return total, nil
}

func (r *PostgresMaintenanceRepository) ListRecentMaintenanceByStatus(ctx context.Context, ownerID string, statuses []string, limit int) ([]*domain.MaintenanceRequest, error) {
	if limit <= 0 {
		limit = 5
	}
	query := maintenanceSelect("maintenance_requests") + `
		WHERE m.owner_id = $1 AND m.status = ANY($2)
		ORDER BY m.created_at DESC
		LIMIT $3`
	return r.queryMaintenance(ctx, "list recent maintenance requests", query, ownerID, pq.Array(statuses), limit)
}
