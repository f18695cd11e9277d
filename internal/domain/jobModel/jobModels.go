package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit       InternalStatus = "IngestInit"
	IngestProcessing InternalStatus = "IngestProcessing"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"
)

// Job is one queued document ingestion. The payload points at the staged
// upload; Result is filled once the store accepted or rejected the document.
type Job struct {
	Id          string                 `json:"id"`
	RequestId   string                 `json:"request_id,omitempty"`
	TraceId     string                 `json:"trace_id"`
	JobPayload  JobPayload             `json:"job_payload"`
	Result      *docModel.IngestResult `json:"result,omitempty"`
	Error       JobError               `json:"error,omitempty"`
	CreatedTime time.Time              `json:"created_time"`
	EndTime     time.Time              `json:"end_time,omitempty"`
	Status      JobStatus              `json:"status"`
	CurrentStep InternalStatus         `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	SourceName string `json:"source_name,omitempty"`
	StagedPath string `json:"staged_path,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
