package adapter

import (
	"fmt"

	"github.com/akolanti/DocStoreAPI/internal/api"
	"github.com/akolanti/DocStoreAPI/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("jobs/%s", id), //pass "jobs/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	var resultPtr *api.IngestResponse
	if job.Result != nil {
		result := ToIngestResponse(*job.Result, job.RequestId)
		resultPtr = &result
	}

	return api.JobResponse{
		Id:          job.Id,
		Status:      string(job.Status),
		CurrentStep: string(job.CurrentStep),
		StartTime:   job.CreatedTime,
		EndTime:     job.EndTime,
		Error:       errorPtr,
		Result:      resultPtr,
	}
}

func BadRequest(requestId string, error string) api.ErrorResponse {
	return api.ErrorResponse{
		Success:   false,
		Error:     error,
		RequestId: requestId,
	}
}
