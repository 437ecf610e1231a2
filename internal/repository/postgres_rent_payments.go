package repository

import (
	"context"
	"database/sql"
	"fmt"

	"unithub/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresRentPaymentsRepository 租金记录 Repository（PostgreSQL）
type PostgresRentPaymentsRepository struct {
	db *sql.DB
}

func NewPostgresRentPaymentsRepository(db *sql.DB) *PostgresRentPaymentsRepository {
	return &PostgresRentPaymentsRepository{db: db}
}

var _ RentPaymentsRepository = (*PostgresRentPaymentsRepository)(nil)

// rentPaymentSelect source 为 rent_payments 或 CTE 名（INSERT/UPDATE ... RETURNING *）
func rentPaymentSelect(source string) string {
	return `
		SELECT
			p.id::text,
			p.tenant_id::text,
			t.name,
			t.unit_number,
			p.amount::text,
			p.due_date::text,
			p.paid_date::text,
			p.status,
			p.payment_method,
			p.notes,
			p.created_at,
			p.updated_at
		FROM ` + source + ` p
		LEFT JOIN tenants t ON t.id = p.tenant_id`
}

func scanRentPayment(s rowScanner) (RentPaymentRow, error) {
	var row RentPaymentRow
	err := s.Scan(
		&row.ID,
		&row.TenantID,
		&row.Tenant.Name,
		&row.Tenant.UnitNumber,
		&row.Amount,
		&row.DueDate,
		&row.PaidDate,
		&row.Status,
		&row.PaymentMethod,
		&row.Notes,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	return row, err
}

func (r *PostgresRentPaymentsRepository) queryRentPayments(ctx context.Context, op, query string, args ...any) ([]*domain.RentPayment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	payments := []*domain.RentPayment{}
	for rows.Next() {
		row, err := scanRentPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rent payment: %w", err)
		}
		payments = append(payments, MapRentPayment(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rent payments: %w", err)
	}
	return payments, nil
}

func (r *PostgresRentPaymentsRepository) ListRentPayments(ctx context.Context, ownerID string, filter RentPaymentFilter) ([]*domain.RentPayment, error) {
	where := newWhereBuilder("p.owner_id = $1", ownerID)
	if filter.TenantID != "" {
		if !validID(filter.TenantID) {
			return []*domain.RentPayment{}, nil
		}
		where.add("p.tenant_id = $%d::uuid", filter.TenantID)
	}
	if len(filter.Statuses) > 0 {
		where.add("p.status = ANY($%d)", pq.Array(filter.Statuses))
	}

	query := rentPaymentSelect("rent_payments") + `
		` + where.clause() + `
		ORDER BY p.due_date DESC, p.created_at DESC`
	return r.queryRentPayments(ctx, "list rent payments", query, where.args...)
}

func (r *PostgresRentPaymentsRepository) GetRentPayment(ctx context.Context, ownerID, id string) (*domain.RentPayment, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := rentPaymentSelect("rent_payments") + `
		WHERE p.id = $1::uuid AND p.owner_id = $2`
	row, err := scanRentPayment(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, notFoundOr(err, "get rent payment")
	}
	return MapRentPayment(row), nil
}

func (r *PostgresRentPaymentsRepository) CreateRentPayment(ctx context.Context, ownerID string, in *domain.RentPaymentInput) (*domain.RentPayment, error) {
	query := `
		WITH ins AS (
			INSERT INTO rent_payments (
				id, owner_id, tenant_id, amount, due_date, paid_date,
				status, payment_method, notes, created_at, updated_at
			) VALUES (
				$1::uuid, $2, $3::uuid, $4::numeric, $5::date, NULLIF($6, '')::date,
				$7, NULLIF($8, ''), NULLIF($9, ''), NOW(), NOW()
			)
			RETURNING *
		)` + rentPaymentSelect("ins")

	row, err := scanRentPayment(r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		ownerID,
		in.TenantID,
		formatAmount(in.Amount),
		in.DueDate,
		in.PaidDate,
		in.Status,
		in.PaymentMethod,
		in.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create rent payment: %w", err)
	}
	return MapRentPayment(row), nil
}

func (r *PostgresRentPaymentsRepository) UpdateRentPayment(ctx context.Context, ownerID, id string, in *domain.RentPaymentInput) (*domain.RentPayment, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := `
		WITH upd AS (
			UPDATE rent_payments SET
				tenant_id = $3::uuid,
				amount = $4::numeric,
				due_date = $5::date,
				paid_date = NULLIF($6, '')::date,
				status = $7,
				payment_method = NULLIF($8, ''),
				notes = NULLIF($9, ''),
				updated_at = NOW()
			WHERE id = $1::uuid AND owner_id = $2
			RETURNING *
		)` + rentPaymentSelect("upd")

	row, err := scanRentPayment(r.db.QueryRowContext(ctx, query,
		id,
		ownerID,
		in.TenantID,
		formatAmount(in.Amount),
		in.DueDate,
		in.PaidDate,
		in.Status,
		in.PaymentMethod,
		in.Notes,
	))
	if err != nil {
		return nil, notFoundOr(err, "update rent payment")
	}
	return MapRentPayment(row), nil
}

// MarkRentPaymentPaid paymentMethod 为空时保留原值
func (r *PostgresRentPaymentsRepository) MarkRentPaymentPaid(ctx context.Context, ownerID, id, paidDate, paymentMethod string) (*domain.RentPayment, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := `
		WITH upd AS (
			UPDATE rent_payments SET
				status = 'paid',
				paid_date = $3::date,
				payment_method = COALESCE(NULLIF($4, ''), payment_method),
				updated_at = NOW()
			WHERE id = $1::uuid AND owner_id = $2
			RETURNING *
		)` + rentPaymentSelect("upd")

	row, err := scanRentPayment(r.db.QueryRowContext(ctx, query, id, ownerID, paidDate, paymentMethod))
	if err != nil {
		return nil, notFoundOr(err, "mark rent payment paid")
	}
	return MapRentPayment(row), nil
}

func (r *PostgresRentPaymentsRepository) DeleteRentPayment(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM rent_payments WHERE id = $1::uuid AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete rent payment: %w", err)
	}
	return checkRowsAffected(result, "delete rent payment")
}

func (r *PostgresRentPaymentsRepository) CountRentPaymentsByStatus(ctx context.Context, ownerID string, statuses []string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rent_payments WHERE owner_id = $1 AND status = ANY($2)`,
		ownerID, pq.Array(statuses),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count rent payments: %w", err)
	}
	return total, nil
}

func (r *PostgresRentPaymentsRepository) ListUpcomingRentPayments(ctx context.Context, ownerID, until string, limit int) ([]*domain.RentPayment, error) {
	if limit <= 0 {
		limit = 5
	}
	query := rentPaymentSelect("rent_payments") + `
		WHERE p.owner_id = $1
		  AND p.status = ANY($2)
		  AND p.due_date <= $3::date
		ORDER BY p.due_date ASC
		LIMIT $4`
	return r.queryRentPayments(ctx, "list upcoming rent payments", query,
		ownerID, pq.Array(domain.OutstandingPaymentStatuses), until, limit)
}
