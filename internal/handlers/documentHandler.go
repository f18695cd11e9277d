package handlers

import (
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/DocStoreAPI/internal/adapter"
	"github.com/akolanti/DocStoreAPI/internal/api"
	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
	"github.com/akolanti/DocStoreAPI/internal/rag"
	"github.com/akolanti/DocStoreAPI/internal/registry"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

var (
	docHandlerInstance *DocStoreHandler //private singleton
	onceDoc            sync.Once
	logDH              *logger_i.Logger
)

type DocStoreHandler struct {
	store   rag.Store
	records docModel.RecordStore
}

func InitDocStoreHandler(store rag.Store, records docModel.RecordStore) {
	onceDoc.Do(func() {
		docHandlerInstance = &DocStoreHandler{store: store, records: records}

		logDH = logger_i.NewLogger("DocStoreHandler")
		logDH.Info("Starting document store handler")
	})
}

// IngestDocumentHandler godoc
// @Summary      Ingest a document
// @Description  Classifies the document with the LLM, stores the cleaned file and indexes it into the matching collection. Accepts a server-side file path or inline content.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      api.IngestRequest  true  "Document path or inline content"
// @Success      200      {object}  api.IngestResponse "Document classified and indexed"
// @Failure      400      {object}  api.ErrorResponse  "Missing document path and content"
// @Failure      500      {object}  api.ErrorResponse  "Ingestion failed"
// @Router       /ingest [post]
func IngestDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		var requestData api.IngestRequest
		if !decodeJsonBody(w, r, &requestData) {
			return
		}
		if requestData.DocumentPath == "" && requestData.DocumentContent == "" {
			WriteErrorResponse(w, http.StatusBadRequest, requestData.RequestId, "Either documentPath or documentContent must be provided")
			return
		}

		result := docHandlerInstance.store.Ingest(r.Context(), docModel.IngestInput{
			Path:      requestData.DocumentPath,
			Content:   requestData.DocumentContent,
			RequestID: requestData.RequestId,
		})
		if !result.Success {
			WriteErrorResponse(w, http.StatusInternalServerError, requestData.RequestId, "Document ingestion failed: "+result.Error)
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToIngestResponse(result, requestData.RequestId))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// QueryDocumentsHandler godoc
// @Summary      Search documents
// @Description  Runs a similarity search across the requested collections and returns ranked matches above the score threshold.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest   true  "Query text plus optional collection filter and thresholds"
// @Success      200      {object}  api.QueryResponse  "Ranked results, possibly empty"
// @Failure      400      {object}  api.ErrorResponse  "Missing query text"
// @Failure      503      {object}  api.ErrorResponse  "Vector store unreachable"
// @Router       /query [post]
func QueryDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		var requestData api.QueryRequest
		if !decodeJsonBody(w, r, &requestData) {
			return
		}
		if requestData.QueryText == "" {
			WriteErrorResponse(w, http.StatusBadRequest, requestData.RequestId, "queryText is required")
			return
		}

		if !docHandlerInstance.store.Connected(r.Context()) {
			logDH.Error("Vector store is not reachable")
			WriteErrorResponse(w, http.StatusServiceUnavailable, requestData.RequestId, "Vector store service is not available")
			return
		}

		minScore := float32(config.DefaultSearchMinScore)
		if requestData.MinScore != nil {
			minScore = *requestData.MinScore
		}

		results, err := docHandlerInstance.store.Search(r.Context(), requestData.QueryText, requestData.CollectionTypes, requestData.TopK, minScore)
		if err != nil {
			logDH.Error("Query failed", "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, requestData.RequestId, "Query failed")
			return
		}

		response := api.QueryResponse{
			Success:      true,
			Results:      adapter.ToSearchResults(results),
			TotalResults: len(results),
			RequestId:    requestData.RequestId,
		}
		if len(results) == 0 && !docHandlerInstance.store.IsReady(r.Context()) {
			response.Message = "No documents available for search. Please ingest documents first."
		}
		writeJsonResponse(w, http.StatusOK, response)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// ListDocumentsHandler godoc
// @Summary      List ingested documents
// @Description  Pages through document metadata, optionally filtered by collection type and filename pattern.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      api.DocumentListRequest   true  "Filters and paging"
// @Success      200      {object}  api.DocumentListResponse
// @Failure      400      {object}  api.ErrorResponse  "Unknown collection type"
// @Router       /documents/list [post]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		var requestData api.DocumentListRequest
		if !decodeJsonBody(w, r, &requestData) {
			return
		}
		if requestData.CollectionType != "" && !registry.IsKnown(requestData.CollectionType) {
			WriteErrorResponse(w, http.StatusBadRequest, requestData.RequestId, "Unknown collection type: "+requestData.CollectionType)
			return
		}

		limit := requestData.Limit
		if limit <= 0 {
			limit = config.DefaultDocumentListLimit
		}
		offset := requestData.Offset
		if offset < 0 {
			offset = 0
		}

		recordQuery := docModel.RecordQuery{
			FilenamePattern: requestData.FilenamePattern,
			CollectionType:  requestData.CollectionType,
			Limit:           limit,
			Offset:          offset,
		}

		total, err := docHandlerInstance.records.Count(r.Context(), recordQuery)
		if err != nil {
			logDH.Error("Failed to count documents", "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, requestData.RequestId, "Failed to list documents")
			return
		}
		documents, err := docHandlerInstance.records.Search(r.Context(), recordQuery)
		if err != nil {
			logDH.Error("Failed to list documents", "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, requestData.RequestId, "Failed to list documents")
			return
		}

		writeJsonResponse(w, http.StatusOK, api.DocumentListResponse{
			Success:   true,
			Documents: adapter.ToDocumentItems(documents),
			Total:     total,
			RequestId: requestData.RequestId,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// DocumentContentHandler godoc
// @Summary      Fetch stored document content
// @Description  Returns the stored file body for a document, looked up by id or by filename. Falls back to the abstract when the file is missing.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      api.DocumentContentRequest   true  "Document id or filename"
// @Success      200      {object}  api.DocumentContentResponse
// @Failure      400      {object}  api.ErrorResponse  "Missing id and filename"
// @Failure      404      {object}  api.ErrorResponse  "Document not found"
// @Router       /documents/content [post]
func DocumentContentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		var requestData api.DocumentContentRequest
		if !decodeJsonBody(w, r, &requestData) {
			return
		}
		if requestData.DocumentId == "" && requestData.Filename == "" {
			WriteErrorResponse(w, http.StatusBadRequest, requestData.RequestId, "Either documentId or filename must be provided")
			return
		}

		var record docModel.DocumentRecord
		var err error
		if requestData.DocumentId != "" {
			record, err = docHandlerInstance.records.GetByID(r.Context(), requestData.DocumentId)
		} else {
			record, err = docHandlerInstance.records.GetByFilename(r.Context(), requestData.Filename)
		}
		if errors.Is(err, docModel.ErrNotFound) {
			WriteErrorResponse(w, http.StatusNotFound, requestData.RequestId, "Document not found")
			return
		}
		if err != nil {
			logDH.Error("Failed to load document record", "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, requestData.RequestId, "Failed to get document content")
			return
		}

		content := readDocumentContent(record)
		writeJsonResponse(w, http.StatusOK, api.DocumentContentResponse{
			Success:    true,
			DocumentId: record.ID,
			Filename:   record.Filename,
			Content:    content,
			FileSize:   int64(len(content)),
			RequestId:  requestData.RequestId,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document
// @Description  Removes the document everywhere: vector points, index retriever, metadata record and the stored file.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      api.DeleteDocumentRequest   true  "Document id"
// @Success      200      {object}  api.DeleteDocumentResponse
// @Failure      400      {object}  api.ErrorResponse  "Missing document id"
// @Failure      404      {object}  api.ErrorResponse  "Document not found"
// @Router       /documents/delete [post]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		var requestData api.DeleteDocumentRequest
		if !decodeJsonBody(w, r, &requestData) {
			return
		}
		if requestData.DocumentId == "" {
			WriteErrorResponse(w, http.StatusBadRequest, requestData.RequestId, "documentId is required")
			return
		}

		deleted, err := docHandlerInstance.store.DeleteDocument(r.Context(), requestData.DocumentId)
		if err != nil {
			logDH.Error("Failed to delete document", "documentId", requestData.DocumentId, "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, requestData.RequestId, "Failed to delete document")
			return
		}
		if !deleted {
			WriteErrorResponse(w, http.StatusNotFound, requestData.RequestId, "Document not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, api.DeleteDocumentResponse{
			Success:   true,
			Message:   "Successfully deleted document: " + requestData.DocumentId,
			RequestId: requestData.RequestId,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// ResetCollectionsHandler godoc
// @Summary      Reset collections
// @Description  Drops and recreates one collection, or every collection when no type is given. Metadata records and stored files are cleaned up too.
// @Tags         Collections
// @Accept       json
// @Produce      json
// @Param        request  body      api.ResetRequest   true  "Collection type, empty for all"
// @Success      200      {object}  api.ResetResponse
// @Failure      400      {object}  api.ErrorResponse  "Unknown collection type"
// @Failure      500      {object}  api.ErrorResponse  "Reset failed"
// @Router       /collections/reset [post]
func ResetCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		var requestData api.ResetRequest
		if !decodeJsonBody(w, r, &requestData) {
			return
		}
		if requestData.CollectionType != "" && !registry.IsKnown(requestData.CollectionType) {
			WriteErrorResponse(w, http.StatusBadRequest, requestData.RequestId, "Unknown collection type: "+requestData.CollectionType)
			return
		}

		var success bool
		var message string
		if requestData.CollectionType == "" {
			success = docHandlerInstance.store.ResetAll(r.Context())
			message = "Successfully reset all collections"
		} else {
			success = docHandlerInstance.store.ResetCollection(r.Context(), requestData.CollectionType)
			message = "Successfully reset collection: " + requestData.CollectionType
		}
		if !success {
			WriteErrorResponse(w, http.StatusInternalServerError, requestData.RequestId, "Failed to reset collection")
			return
		}

		writeJsonResponse(w, http.StatusOK, api.ResetResponse{
			Success:   true,
			Message:   message,
			RequestId: requestData.RequestId,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// StatusHandler godoc
// @Summary      Document store status
// @Description  Reports backend connectivity, per-collection point counts, retriever availability and metadata statistics.
// @Tags         Status
// @Produce      json
// @Success      200  {object}  api.StatusResponse
// @Router       /status [get]
func StatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		status := docHandlerInstance.store.Status(r.Context())
		writeJsonResponse(w, http.StatusOK, adapter.ToStatusResponse(status, docHandlerInstance.store.IsReady(r.Context())))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// HealthHandler godoc
// @Summary      Liveness check
// @Description  Cheap health probe: backend connectivity and active retriever count, no statistics queries.
// @Tags         Status
// @Produce     json
// @Success      200  {object}  api.HealthResponse
// @Router       /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		connected := docHandlerInstance.store.Connected(r.Context())
		active := docHandlerInstance.store.ActiveRetrievers()

		health := api.HealthResponse{
			Status:               "healthy",
			Connected:            connected,
			RetrieverCount:       len(active),
			AvailableCollections: active,
		}
		if !connected {
			health.Status = "unhealthy"
		}
		writeJsonResponse(w, http.StatusOK, health)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// readDocumentContent returns the stored file body, falling back to the
// abstract or description when the file is gone.
func readDocumentContent(record docModel.DocumentRecord) string {
	if record.FilePath != "" {
		if data, err := os.ReadFile(record.FilePath); err == nil {
			return string(data)
		}
		logDH.Warn("Failed to read document file", "path", record.FilePath)
	}
	if record.FileAbstract != "" {
		return record.FileAbstract
	}
	if record.FileDescription != "" {
		return record.FileDescription
	}
	return "Document content is not available"
}
