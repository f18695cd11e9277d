package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/akolanti/DocStoreAPI/internal/adapter"
	"github.com/akolanti/DocStoreAPI/internal/adapter/utils"
	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/domain/jobModel"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

var logRH = logger_i.NewLogger("RequestHandler")

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func decodeJsonBody(w http.ResponseWriter, r *http.Request, requestData any) bool {
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logRH.Error("Couldn't close the request body reader :", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(requestData); err != nil {
		logRH.Warn("Bad request body: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return false
	}
	return true
}

func validateId(id string, traceId string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	return GetJobStatus(id, traceId)
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}

func getTraceId(ctx context.Context) string {
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		return trace
	}
	return ""
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, requestId string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(requestId, error))
}

// stagingDirectory carves out a fresh per-upload directory so staged files
// keep their original names without colliding.
func stagingDirectory() (string, error) {
	if err := os.MkdirAll(config.TempDir, 0750); err != nil {
		return "", err
	}
	return os.MkdirTemp(config.TempDir, "upload_")
}

func queueIngestJob(request *http.Request, w http.ResponseWriter, requestId string, sourceName string, stagedPath string) {
	newJob := newJobData{
		id:         utils.GetNewUUID(),
		requestId:  requestId,
		traceId:    getTraceId(request.Context()),
		sourceName: sourceName,
		stagedPath: stagedPath,
	}
	CreateNewJob(newJob)
	res := adapter.ToInitJobResponse(newJob.id)
	writeJsonResponse(w, http.StatusAccepted, res)
}
