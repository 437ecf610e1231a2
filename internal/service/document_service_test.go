package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"unithub/internal/apperr"
	"unithub/internal/domain"
	"unithub/internal/repository"
	"unithub/internal/storage"
)

var errBoom = errors.New("boom")

type failingDocuments struct {
	*repository.MemoryDocumentsRepository
}

func (failingDocuments) CreateDocument(context.Context, string, *repository.NewDocument) (*domain.Document, error) {
	return nil, errBoom
}

// failingDeletes 删除总是失败的对象存储
type failingDeletes struct {
	*storage.LocalStore
}

func (failingDeletes) Delete(context.Context, string) error {
	return &storage.Error{Op: "delete", Message: "Access denied", Err: errBoom}
}

func upload(t *testing.T, env *testEnv, tenantID, fileName, body string) *domain.Document {
	t.Helper()
	doc, err := env.documents.Upload(context.Background(), testOwner, UploadDocumentRequest{
		TenantID: tenantID,
		Title:    "Lease agreement",
		Type:     domain.DocumentTypeLease,
		FileName: fileName,
		Size:     int64(len(body)),
		Body:     strings.NewReader(body),
	})
	require.NoError(t, err)
	return doc
}

func TestDocumentService_UploadTenantDocument(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createTenant(t, "Alice", "1A", 1200)

	doc := upload(t, env, tenant.ID, "Lease.PDF", "%PDF-1.7")
	assert.True(t, strings.HasPrefix(doc.StoragePath, tenant.ID+"/"))
	assert.True(t, strings.HasSuffix(doc.StoragePath, ".pdf"))
	assert.Equal(t, testBase+"/"+doc.StoragePath, doc.FileURL)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "Lease.PDF", doc.FileName)
	assert.Equal(t, int64(8), doc.FileSize)
	assert.Equal(t, "Alice", doc.TenantName)
	assert.Equal(t, []string{"tenant/created", "document/created"}, env.events.actions())
}

func TestDocumentService_UploadPropertyDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc := upload(t, env, "", "roof.jpg", "jpeg")
	assert.True(t, strings.HasPrefix(doc.StoragePath, "property/"))
	assert.Nil(t, doc.TenantID)
	assert.Equal(t, "Property", doc.TenantName)
	assert.Equal(t, "N/A", doc.UnitNumber)

	list, err := env.documents.List(ctx, ListDocumentsRequest{OwnerID: testOwner, PropertyOnly: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, doc.ID, list[0].ID)
}

func TestDocumentService_UploadValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.documents.Upload(ctx, testOwner, UploadDocumentRequest{Type: "contract"})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, "File is required\nTitle is required\nInvalid document type", err.Error())

	_, err = env.documents.Upload(ctx, testOwner, UploadDocumentRequest{
		TenantID: "7f1b7a5e-6d0c-4a8e-9a53-0a8f3b8a1c11",
		Title:    "Lease",
		Type:     domain.DocumentTypeLease,
		FileName: "lease.pdf",
		Body:     strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.Equal(t, "Tenant not found", err.Error())
}

func TestDocumentService_UploadRemovesOrphanOnInsertFailure(t *testing.T) {
	env := newTestEnv(t)
	env.wire(env.store.Tenants(), env.store.RentPayments(), env.store.MaintenanceRequests(),
		failingDocuments{env.store.Documents()}, env.objects)

	_, err := env.documents.Upload(context.Background(), testOwner, UploadDocumentRequest{
		Title:    "Inspection",
		Type:     domain.DocumentTypeInspection,
		FileName: "inspection.txt",
		Body:     strings.NewReader("all good"),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindBackend, apperr.KindOf(err))
	assert.Equal(t, "Failed to upload document", Message(OpUploadDocument, err))

	entries, err := filepathGlob(t, env, "property/*")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDocumentService_DownloadAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doc := upload(t, env, "", "notes.txt", "Boiler serviced")

	res, err := env.documents.Download(ctx, testOwner, doc.ID)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	assert.Equal(t, "Boiler serviced", string(body))
	assert.Equal(t, "notes.txt", res.FileName)
	assert.True(t, strings.HasPrefix(res.ContentType, "text/plain"))

	require.NoError(t, env.documents.Delete(ctx, testOwner, doc.ID))
	_, err = env.objects.Download(ctx, doc.StoragePath)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)

	_, err = env.documents.Download(ctx, testOwner, doc.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, "Document not found", err.Error())
}

func TestDocumentService_DeleteIgnoresObjectFailure(t *testing.T) {
	env := newTestEnv(t)
	env.wire(env.store.Tenants(), env.store.RentPayments(), env.store.MaintenanceRequests(),
		env.store.Documents(), failingDeletes{env.objects})
	ctx := context.Background()
	doc := upload(t, env, "", "notes.txt", "x")

	require.NoError(t, env.documents.Delete(ctx, testOwner, doc.ID))
	_, err := env.documents.Get(ctx, testOwner, doc.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDocumentService_MetadataOnlyDownload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.documents.Create(ctx, testOwner, domain.DocumentInput{
		Title:   "Floor plan",
		Type:    domain.DocumentTypeOther,
		FileURL: "https://example.com/plan.pdf",
	})
	require.NoError(t, err)

	_, err = env.documents.Download(ctx, testOwner, doc.ID)
	require.Error(t, err)
	assert.Equal(t, "Document has no stored file", err.Error())
}

func TestDownloadFileName(t *testing.T) {
	assert.Equal(t, "lease.pdf", DownloadFileName(&domain.Document{FileName: `C:\docs\lease.pdf`}))
	assert.Equal(t, "Unit-1A-lease.pdf", DownloadFileName(&domain.Document{Title: "Unit 1A lease", StoragePath: "t/x.pdf"}))
	assert.Equal(t, "document", DownloadFileName(&domain.Document{Title: "///"}))
}

func TestDocumentService_ExtractLeaseDataFromStoredText(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doc := upload(t, env, "", "lease.txt", "  Monthly rent: 1200  ")

	fields := map[string]any{"monthlyRent": "1200"}
	env.gen.On("ExtractLeaseFields", mock.Anything, "Monthly rent: 1200").Return(fields, nil).Once()

	updated, err := env.documents.ExtractLeaseData(ctx, testOwner, doc.ID, "")
	require.NoError(t, err)
	assert.Equal(t, fields, updated.ExtractedData)
	assert.Contains(t, env.events.actions(), "document/updated")
}

func TestDocumentService_ExtractLeaseDataRequiresText(t *testing.T) {
	env := newTestEnv(t)
	doc := upload(t, env, "", "lease.pdf", "%PDF")

	_, err := env.documents.ExtractLeaseData(context.Background(), testOwner, doc.ID, "   ")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, "Lease text is required", err.Error())
}
