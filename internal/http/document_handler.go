package httpapi

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"unithub/internal/domain"
	"unithub/internal/middleware"
	"unithub/internal/service"
)

// DocumentHandler 文档：元数据 CRUD、上传、下载、租约字段提取
type DocumentHandler struct {
	documents      *service.DocumentService
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewDocumentHandler(documents *service.DocumentService, maxUploadBytes int64, logger *zap.Logger) *DocumentHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &DocumentHandler{documents: documents, maxUploadBytes: maxUploadBytes, logger: logger}
}

// attachment Content-Disposition 值（非 ASCII 文件名按 RFC 2231 编码）
func attachment(fileName string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": fileName}); v != "" {
		return v
	}
	return "attachment"
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	docs, err := h.documents.List(r.Context(), service.ListDocumentsRequest{
		OwnerID:      ownerID,
		TenantID:     q.Get("tenantId"),
		PropertyOnly: parseBool(q.Get("propertyOnly"), false),
		Type:         q.Get("type"),
	})
	if err != nil {
		writeQueryError(w, service.OpListDocuments, err)
		return
	}
	writeJSON(w, http.StatusOK, Query(docs))
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	doc, err := h.documents.Get(r.Context(), ownerID, pathID(r))
	if err != nil {
		writeQueryError(w, service.OpGetDocument, err)
		return
	}
	writeJSON(w, http.StatusOK, Query(doc))
}

// Create multipart/form-data 时上传文件，否则按 JSON 只写元数据
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.upload(w, r, ownerID)
		return
	}

	var in domain.DocumentInput
	if !decodeAction(w, r, &in) {
		return
	}
	doc, err := h.documents.Create(r.Context(), ownerID, in)
	if err != nil {
		writeActionError(w, service.OpCreateDocument, err)
		return
	}
	writeJSON(w, http.StatusCreated, Action(doc))
}

func (h *DocumentHandler) upload(w http.ResponseWriter, r *http.Request, ownerID string) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ActionFail("File is too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, ActionFail(msgInvalidBody))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	req := service.UploadDocumentRequest{
		TenantID: r.FormValue("tenantId"),
		Title:    r.FormValue("title"),
		Type:     r.FormValue("type"),
	}
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		req.FileName = header.Filename
		req.ContentType = header.Header.Get("Content-Type")
		req.Size = header.Size
		req.Body = file
	case errors.Is(err, http.ErrMissingFile):
		// 由 service 报告 "File is required"
	default:
		writeJSON(w, http.StatusBadRequest, ActionFail(msgInvalidBody))
		return
	}

	doc, err := h.documents.Upload(r.Context(), ownerID, req)
	if err != nil {
		writeActionError(w, service.OpUploadDocument, err)
		return
	}
	writeJSON(w, http.StatusCreated, Action(doc))
}

func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var in domain.DocumentInput
	if !decodeAction(w, r, &in) {
		return
	}
	doc, err := h.documents.Update(r.Context(), ownerID, pathID(r), in)
	if err != nil {
		writeActionError(w, service.OpUpdateDocument, err)
		return
	}
	writeJSON(w, http.StatusOK, Action(doc))
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	if err := h.documents.Delete(r.Context(), ownerID, pathID(r)); err != nil {
		writeActionError(w, service.OpDeleteDocument, err)
		return
	}
	writeJSON(w, http.StatusOK, Action[any](nil))
}

// Download 以二进制流返回存储中的文件
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	res, err := h.documents.Download(r.Context(), ownerID, pathID(r))
	if err != nil {
		writeQueryError(w, service.OpDownloadDocument, err)
		return
	}
	defer res.Body.Close()

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", attachment(res.FileName))
	if res.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(res.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, res.Body); err != nil {
		// 响应头已发出，只能记录
		h.logger.Warn("Failed to stream document",
			zap.String("request_id", middleware.RequestIDFrom(r.Context())),
			zap.String("document_id", pathID(r)),
			zap.Error(err),
		)
	}
}

type extractRequest struct {
	Text string `json:"text"`
}

// Extract body 可为空：纯文本文档直接读取已存储的文件
func (h *DocumentHandler) Extract(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var req extractRequest
	if err := readBodyJSON(r, maxJSONBodyBytes, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeJSON(w, http.StatusBadRequest, ActionFail(msgInvalidBody))
		return
	}
	doc, err := h.documents.ExtractLeaseData(r.Context(), ownerID, pathID(r), req.Text)
	if err != nil {
		writeActionError(w, service.OpExtractLeaseData, err)
		return
	}
	writeJSON(w, http.StatusOK, Action(doc))
}
