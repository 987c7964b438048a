package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/socrates-learning/socrates-api/internal/api/shared"
	"github.com/socrates-learning/socrates-api/internal/service"
)

// maxUploadBytes caps a document upload at 10 MiB of form data.
const maxUploadBytes = 10 << 20

// DocumentHandler serves document upload and retrieval endpoints.
type DocumentHandler struct {
	documentService *service.DocumentService
	logger          *slog.Logger
}

// NewDocumentHandler creates a document handler.
func NewDocumentHandler(documentService *service.DocumentService, logger *slog.Logger) *DocumentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger.With(slog.String("component", "document_handler")),
	}
}

// Upload handles POST /api/profiles/{id}/documents. The document
// travels as the "file" field of a multipart form. On success the
// document is stored and a planning job enqueued; the plan itself is
// produced asynchronously, so the response carries no stages.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid profile ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "failed to read upload", err)
		return
	}

	doc, err := h.documentService.Upload(
		r.Context(),
		profileID,
		header.Filename,
		header.Header.Get("Content-Type"),
		content)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewDocumentResponse(doc))
}

// List handles GET /api/profiles/{id}/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid profile ID")
		return
	}

	docs, err := h.documentService.ListByProfile(r.Context(), profileID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, NewDocumentResponse(doc))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Get handles GET /api/documents/{id}. The full document, raw text
// included.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, err := h.documentService.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, doc)
}

// Stages handles GET /api/documents/{id}/stages. An empty array means
// the reading plan has not been produced yet.
func (h *DocumentHandler) Stages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid document ID")
		return
	}

	stages, err := h.documentService.Stages(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stages)
}

// Summary handles GET /api/documents/{id}/summary.
func (h *DocumentHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid document ID")
		return
	}

	summary, err := h.documentService.Summary(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
