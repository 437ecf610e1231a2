package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"unithub/internal/domain"

	"github.com/google/uuid"
)

type MemoryDocumentsRepository struct {
	s *MemoryStore
}

var _ DocumentsRepository = (*MemoryDocumentsRepository)(nil)

func (r *MemoryDocumentsRepository) mapped(d *memDocument) *domain.Document {
	row := d.row
	if row.TenantID.Valid {
		row.Tenant = r.s.join(row.TenantID.String)
	}
	return MapDocument(row)
}

func (r *MemoryDocumentsRepository) ListDocuments(_ context.Context, ownerID string, filter DocumentFilter) ([]*domain.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := []*memDocument{}
	for _, d := range r.s.documents {
		if d.ownerID != ownerID {
			continue
		}
		switch {
		case filter.PropertyOnly:
			if d.row.TenantID.Valid {
				continue
			}
		case filter.TenantID != "":
			if d.row.TenantID.String != filter.TenantID {
				continue
			}
		}
		if filter.Type != "" && d.row.Type != filter.Type {
			continue
		}
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool {
		return newerFirst(all[i].row.CreatedAt, all[j].row.CreatedAt, all[i].seq, all[j].seq)
	})
	out := make([]*domain.Document, 0, len(all))
	for _, d := range all {
		out = append(out, r.mapped(d))
	}
	return out, nil
}

func (r *MemoryDocumentsRepository) GetDocument(_ context.Context, ownerID, id string) (*domain.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.documents[id]
	if !ok || d.ownerID != ownerID {
		return nil, ErrNotFound
	}
	return r.mapped(d), nil
}

func (r *MemoryDocumentsRepository) CreateDocument(_ context.Context, ownerID string, doc *NewDocument) (*domain.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	d := &memDocument{memMeta: r.s.nextMeta(ownerID)}
	d.row = DocumentRow{
		ID:          uuid.NewString(),
		TenantID:    nullString(doc.TenantID),
		Title:       doc.Title,
		Type:        doc.Type,
		FileURL:     doc.FileURL,
		StoragePath: nullString(doc.StoragePath),
		FileName:    nullString(doc.FileName),
		ContentType: nullString(doc.ContentType),
		FileSize:    sql.NullInt64{Int64: doc.FileSize, Valid: true},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.documents[d.row.ID] = d
	return r.mapped(d), nil
}

func (r *MemoryDocumentsRepository) UpdateDocument(_ context.Context, ownerID, id string, in *domain.DocumentInput) (*domain.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.documents[id]
	if !ok || d.ownerID != ownerID {
		return nil, ErrNotFound
	}
	d.row.TenantID = nullString(in.TenantID)
	d.row.Title = in.Title
	d.row.Type = in.Type
	d.row.FileURL = in.FileURL
	d.row.UpdatedAt = r.s.now()
	return r.mapped(d), nil
}

func (r *MemoryDocumentsRepository) SetExtractedData(_ context.Context, ownerID, id string, data map[string]any) (*domain.Document, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extracted data: %w", err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.documents[id]
	if !ok || d.ownerID != ownerID {
		return nil, ErrNotFound
	}
	d.row.ExtractedData = raw
	d.row.UpdatedAt = r.s.now()
	return r.mapped(d), nil
}

func (r *MemoryDocumentsRepository) DeleteDocument(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.documents[id]
	if !ok || d.ownerID != ownerID {
		return ErrNotFound
	}
	delete(r.s.documents, id)
	return nil
}

func (r *MemoryDocumentsRepository) ListStoragePaths(_ context.Context, ownerID, tenantID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	paths := []string{}
	for _, d := range r.s.documents {
		if d.ownerID != ownerID || d.row.TenantID.String != tenantID || !d.row.TenantID.Valid {
			continue
		}
		if d.row.StoragePath.Valid && d.row.StoragePath.String != "" {
			paths = append(paths, d.row.StoragePath.String)
		}
	}
	sort.Strings(paths)
	return paths, nil
}
