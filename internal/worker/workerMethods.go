package worker

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
	jobmodel "github.com/akolanti/DocStoreAPI/internal/domain/jobModel"
	"github.com/akolanti/DocStoreAPI/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.JobExecutionTimeout)
	defer cancel()
	log := logger.With("traceId", job.TraceId, "jobId", job.Id)
	log.Debug("Processing job")

	job.Status = jobmodel.JobStatusRunning
	job.CurrentStep = jobmodel.IngestProcessing
	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	result := _docStore.Ingest(ctx, docModel.IngestInput{
		Path:      job.JobPayload.StagedPath,
		RequestID: job.RequestId,
	})
	job.Result = &result
	discardStagedFile(job.JobPayload.StagedPath)

	job.EndTime = time.Now()
	if result.Success {
		job.Status = jobmodel.JobStatusComplete
		job.CurrentStep = jobmodel.Complete
		log.Debug("Job completed", "documentId", result.DocumentID, "collectionType", result.CollectionType)
	} else {
		job.Status = jobmodel.JobStatusError
		job.CurrentStep = jobmodel.Error
		job.Error = jobmodel.JobError{Code: http.StatusInternalServerError, Message: result.Error}
		log.Error("Job failed", "err", result.Error)
	}
	saveJobState(ctx, job, job.Status)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

// discardStagedFile removes the staged upload once the job consumed it. The
// per-upload parent directory is removed too, but never the shared temp root.
func discardStagedFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to remove staged upload", "path", path, "err", err)
	}
	if dir := filepath.Dir(path); dir != filepath.Clean(config.TempDir) {
		_ = os.Remove(dir)
	}
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}
