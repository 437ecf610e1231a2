package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"unithub/internal/domain"

	"github.com/google/uuid"
)

// PostgresDocumentsRepository 文档 Repository（PostgreSQL）
type PostgresDocumentsRepository struct {
	db *sql.DB
}

func NewPostgresDocumentsRepository(db *sql.DB) *PostgresDocumentsRepository {
	return &PostgresDocumentsRepository{db: db}
}

var _ DocumentsRepository = (*PostgresDocumentsRepository)(nil)

func documentSelect(source string) string {
	return `
		SELECT
			d.id::text,
			d.tenant_id::text,
			t.name,
			t.unit_number,
			d.title,
			d.type,
			d.file_url,
			d.storage_path,
			d.file_name,
			d.content_type,
			d.file_size,
			d.extracted_data,
			d.created_at,
			d.updated_at
		FROM ` + source + ` d
		LEFT JOIN tenants t ON t.id = d.tenant_id`
}

func scanDocument(s rowScanner) (DocumentRow, error) {
	var row DocumentRow
	err := s.Scan(
		&row.ID,
		&row.TenantID,
		&row.Tenant.Name,
		&row.Tenant.UnitNumber,
		&row.Title,
		&row.Type,
		&row.FileURL,
		&row.StoragePath,
		&row.FileName,
		&row.ContentType,
		&row.FileSize,
		&row.ExtractedData,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	return row, err
}

func (r *PostgresDocumentsRepository) ListDocuments(ctx context.Context, ownerID string, filter DocumentFilter) ([]*domain.Document, error) {
	where := newWhereBuilder("d.owner_id = $1", ownerID)
	switch {
	case filter.PropertyOnly:
		where.addRaw("d.tenant_id IS NULL")
	case filter.TenantID != "":
		if !validID(filter.TenantID) {
			return []*domain.Document{}, nil
		}
		where.add("d.tenant_id = $%d::uuid", filter.TenantID)
	}
	if filter.Type != "" {
		where.add("d.type = $%d", filter.Type)
	}

	query := documentSelect("documents") + `
		` + where.clause() + `
		ORDER BY d.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []*domain.Document{}
	for rows.Next() {
		row, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, MapDocument(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

func (r *PostgresDocumentsRepository) GetDocument(ctx context.Context, ownerID, id string) (*domain.Document, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := documentSelect("documents") + `
		WHERE d.id = $1::uuid AND d.owner_id = $2`
	row, err := scanDocument(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, notFoundOr(err, "get document")
	}
	return MapDocument(row), nil
}

func (r *PostgresDocumentsRepository) CreateDocument(ctx context.Context, ownerID string, doc *NewDocument) (*domain.Document, error) {
	query := `
		WITH ins AS (
			INSERT INTO documents (
				id, owner_id, tenant_id, title, type, file_url,
				storage_path, file_name, content_type, file_size, created_at, updated_at
			) VALUES (
				$1::uuid, $2, NULLIF($3, '')::uuid, $4, $5, $6,
				NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10, NOW(), NOW()
			)
			RETURNING *
		)` + documentSelect("ins")

	row, err := scanDocument(r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		ownerID,
		doc.TenantID,
		doc.Title,
		doc.Type,
		doc.FileURL,
		doc.StoragePath,
		doc.FileName,
		doc.ContentType,
		doc.FileSize,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return MapDocument(row), nil
}

// UpdateDocument 只更新元数据，存储对象不变
func (r *PostgresDocumentsRepository) UpdateDocument(ctx context.Context, ownerID, id string, in *domain.DocumentInput) (*domain.Document, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := `
		WITH upd AS (
			UPDATE documents SET
				tenant_id = NULLIF($3, '')::uuid,
				title = $4,
				type = $5,
				file_url = $6,
				updated_at = NOW()
			WHERE id = $1::uuid AND owner_id = $2
			RETURNING *
		)` + documentSelect("upd")

	row, err := scanDocument(r.db.QueryRowContext(ctx, query, id, ownerID, in.TenantID, in.Title, in.Type, in.FileURL))
	if err != nil {
		return nil, notFoundOr(err, "update document")
	}
	return MapDocument(row), nil
}

func (r *PostgresDocumentsRepository) SetExtractedData(ctx context.Context, ownerID, id string, data map[string]any) (*domain.Document, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extracted data: %w", err)
	}
	query := `
		WITH upd AS (
			UPDATE documents SET
				extracted_data = $3::jsonb,
				updated_at = NOW()
			WHERE id = $1::uuid AND owner_id = $2
			RETURNING *
		)` + documentSelect("upd")

	row, err := scanDocument(r.db.QueryRowContext(ctx, query, id, ownerID, string(raw)))
	if err != nil {
		return nil, notFoundOr(err, "save extracted data")
	}
	return MapDocument(row), nil
}

func (r *PostgresDocumentsRepository) DeleteDocument(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = $1::uuid AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return checkRowsAffected(result, "delete document")
}

func (r *PostgresDocumentsRepository) ListStoragePaths(ctx context.Context, ownerID, tenantID string) ([]string, error) {
	if !validID(tenantID) {
		return []string{}, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT storage_path
		FROM documents
		WHERE owner_id = $1 AND tenant_id = $2::uuid
		  AND storage_path IS NOT NULL AND storage_path <> ''`,
		ownerID, tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage paths: %w", err)
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan storage path: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate storage paths: %w", err)
	}
	return paths, nil
}
