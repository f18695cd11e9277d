package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/DocStoreAPI/internal/handlers"
	"github.com/akolanti/DocStoreAPI/internal/metrics"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var IngestDocumentHandler = Wrap(handlers.IngestDocumentHandler)
var UploadDocumentHandler = Wrap(handlers.UploadDocumentHandler)
var GetJobStatusHandler = Wrap(handlers.GetJobStatusHandler)
var QueryDocumentsHandler = Wrap(handlers.QueryDocumentsHandler)
var ListDocumentsHandler = Wrap(handlers.ListDocumentsHandler)
var DocumentContentHandler = Wrap(handlers.DocumentContentHandler)
var DeleteDocumentHandler = Wrap(handlers.DeleteDocumentHandler)
var ResetCollectionsHandler = Wrap(handlers.ResetCollectionsHandler)
var StatusHandler = Wrap(handlers.StatusHandler)
var HealthHandler = Wrap(handlers.HealthHandler)

var CreateSessionHandler = Wrap(handlers.CreateSessionHandler)
var ListSessionsHandler = Wrap(handlers.ListSessionsHandler)
var GetSessionHandler = Wrap(handlers.GetSessionHandler)
var UpdateSessionHandler = Wrap(handlers.UpdateSessionHandler)
var DeleteSessionHandler = Wrap(handlers.DeleteSessionHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}
func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	//TODO:make this cleaner
	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		return re //stop here if rate limit fails
	}
	re = limitBody(re)

	return re
}
