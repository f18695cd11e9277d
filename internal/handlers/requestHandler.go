package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akolanti/DocStoreAPI/internal/adapter"
	"github.com/akolanti/DocStoreAPI/internal/adapter/utils"
)

// technically i dont need this
// but i want to eventually remove jobHandler from handlers and set it in another package
// so in anticipation for that this struct exists
type newJobData struct {
	id         string
	requestId  string
	traceId    string
	sourceName string
	stagedPath string
}

// UploadDocumentHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, stages it to a temporary directory, and queues a background ingestion job.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document   formData  file    true   "The document to classify and index"
// @Param        requestId  formData  string  false  "Caller supplied request id"
// @Success      202  {object}  api.InitJobResponse  "Accepted - job queued"
// @Failure      400  {object}  api.ErrorResponse    "Missing file or bad form data"
// @Failure      500  {object}  api.ErrorResponse    "Storage or write error"
// @Router       /upload [post]
func UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		const maxUploadSize = 32 << 20 //32mb
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		requestId := r.FormValue("requestId")

		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, requestId, "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		//strip any path the client sent along
		sourceName := filepath.Base(fileMetadata.Filename)
		if sourceName == "." || sourceName == string(filepath.Separator) {
			WriteErrorResponse(w, http.StatusBadRequest, requestId, "Missing file name")
			return
		}

		targetDir, err := stagingDirectory()
		if err != nil {
			logRH.Error("Couldn't create staging directory :", "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, requestId, "Storage error")
			return
		}

		stagedPath := filepath.Join(targetDir, sourceName)
		destinationFileWriter, err := os.Create(stagedPath)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, requestId, "Storage error")
			return
		}
		defer destinationFileWriter.Close()

		if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, requestId, "Write error")
			return
		}

		queueIngestJob(r, w, requestId, sourceName, stagedPath)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// GetJobStatusHandler godoc
// @Summary      Get ingestion job status
// @Description  Retrieves the current status and result of a queued or finished ingestion job using its ID.
// @Tags         Jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse    "The current state of the job"
// @Failure      404  {object}  api.ErrorResponse  "Job not found"
// @Router       /jobs/{id} [get]
func GetJobStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, getTraceId(r.Context()))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}
