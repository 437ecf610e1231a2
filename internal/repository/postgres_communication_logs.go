package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"unithub/internal/domain"

	"github.com/google/uuid"
)

// PostgresCommunicationLogsRepository 沟通记录 Repository（PostgreSQL）
type PostgresCommunicationLogsRepository struct {
	db *sql.DB
}

func NewPostgresCommunicationLogsRepository(db *sql.DB) *PostgresCommunicationLogsRepository {
	return &PostgresCommunicationLogsRepository{db: db}
}

var _ CommunicationLogsRepository = (*PostgresCommunicationLogsRepository)(nil)

func communicationLogSelect(source string) string {
	return `
		SELECT
			c.id::text,
			c.tenant_id::text,
			t.name,
			t.unit_number,
			c.type,
			c.subject,
			c.content,
			c.timestamp,
			c.created_at
		FROM ` + source + ` c
		LEFT JOIN tenants t ON t.id = c.tenant_id`
}

func scanCommunicationLog(s rowScanner) (CommunicationLogRow, error) {
	var row CommunicationLogRow
	err := s.Scan(
		&row.ID,
		&row.TenantID,
		&row.Tenant.Name,
		&row.Tenant.UnitNumber,
		&row.Type,
		&row.Subject,
		&row.Content,
		&row.Timestamp,
		&row.CreatedAt,
	)
	return row, err
}

func (r *PostgresCommunicationLogsRepository) ListCommunicationLogs(ctx context.Context, ownerID string, filter CommunicationLogFilter) ([]*domain.CommunicationLog, error) {
	where := newWhereBuilder("c.owner_id = $1", ownerID)
	if filter.TenantID != "" {
		if !validID(filter.TenantID) {
			return []*domain.CommunicationLog{}, nil
		}
		where.add("c.tenant_id = $%d::uuid", filter.TenantID)
	}
	if filter.Type != "" {
		where.add("c.type = $%d", filter.Type)
	}

	query := communicationLogSelect("communication_logs") + `
		` + where.clause() + `
		ORDER BY c.timestamp DESC`

	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list communication logs: %w", err)
	}
	defer rows.Close()

	logs := []*domain.CommunicationLog{}
	for rows.Next() {
		row, err := scanCommunicationLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan communication log: %w", err)
		}
		logs = append(logs, MapCommunicationLog(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate communication logs: %w", err)
	}
	return logs, nil
}

func (r *PostgresCommunicationLogsRepository) GetCommunicationLog(ctx context.Context, ownerID, id string) (*domain.CommunicationLog, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := communicationLogSelect("communication_logs") + `
		WHERE c.id = $1::uuid AND c.owner_id = $2`
	row, err := scanCommunicationLog(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, notFoundOr(err, "get communication log")
	}
	return MapCommunicationLog(row), nil
}

func (r *PostgresCommunicationLogsRepository) CreateCommunicationLog(ctx context.Context, ownerID string, in *domain.CommunicationLogInput, timestamp time.Time) (*domain.CommunicationLog, error) {
	query := `
		WITH ins AS (
			INSERT INTO communication_logs (
				id, owner_id, tenant_id, type, subject, content, timestamp, created_at
			) VALUES (
				$1::uuid, $2, $3::uuid, $4, $5, $6, $7, NOW()
			)
			RETURNING *
		)` + communicationLogSelect("ins")

	row, err := scanCommunicationLog(r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		ownerID,
		in.TenantID,
		in.Type,
		in.Subject,
		in.Content,
		timestamp,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create communication log: %w", err)
	}
	return MapCommunicationLog(row), nil
}

func (r *PostgresCommunicationLogsRepository) UpdateCommunicationLog(ctx context.Context, ownerID, id string, in *domain.CommunicationLogInput, timestamp time.Time) (*domain.CommunicationLog, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := `
		WITH upd AS (
			UPDATE communication_logs SET
				tenant_id = $3::uuid,
				type = $4,
				subject = $5,
				content = $6,
				timestamp = $7
			WHERE id = $1::uuid AND owner_id = $2
			RETURNING *
		)` + communicationLogSelect("upd")

	row, err := scanCommunicationLog(r.db.QueryRowContext(ctx, query,
		id, ownerID, in.TenantID, in.Type, in.Subject, in.Content, timestamp,
	))
	if err != nil {
		return nil, notFoundOr(err, "update communication log")
	}
	return MapCommunicationLog(row), nil
}

func (r *PostgresCommunicationLogsRepository) DeleteCommunicationLog(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM communication_logs WHERE id = $1::uuid AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete communication log: %w", err)
	}
	return checkRowsAffected(result, "delete communication log")
}
