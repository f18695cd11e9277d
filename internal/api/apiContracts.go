package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id          string            `json:"id" example:"job_cz109"`
	Status      string            `json:"status" example:"RUNNING"`
	CurrentStep string            `json:"currentStep" example:"IngestProcessing"`
	Result      *IngestResponse   `json:"result,omitempty"`
	Error       *JobOutgoingError `json:"error,omitempty"`
	StartTime   time.Time         `json:"startTime"`
	EndTime     time.Time         `json:"endTime,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"canRetry" example:"false"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"statusUrl"`
}

type ErrorResponse struct {
	Success   bool   `json:"success" example:"false"`
	Error     string `json:"error" example:"Bad Request"`
	RequestId string `json:"requestId,omitempty"`
}

type IngestResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	DocumentId      string `json:"documentId"`
	Filename        string `json:"filename"`
	FilePath        string `json:"filePath"`
	FileSize        int64  `json:"fileSize"`
	FileDescription string `json:"fileDescription"`
	FileAbstract    string `json:"fileAbstract"`
	CollectionType  string `json:"collectionType" example:"resumes"`
	RequestId       string `json:"requestId,omitempty"`
}

type SearchResultItem struct {
	Content        string            `json:"content"`
	Score          float32           `json:"score" example:"0.87"`
	CollectionType string            `json:"collectionType" example:"resumes"`
	Source         string            `json:"source"`
	DocumentId     string            `json:"documentId,omitempty"`
	Rank           int               `json:"rank" example:"1"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type QueryResponse struct {
	Success      bool               `json:"success"`
	Results      []SearchResultItem `json:"results"`
	TotalResults int                `json:"totalResults"`
	Message      string             `json:"message,omitempty"`
	RequestId    string             `json:"requestId,omitempty"`
}

type DocumentItem struct {
	DocumentId      string    `json:"documentId"`
	Filename        string    `json:"filename"`
	FilePath        string    `json:"filePath"`
	CollectionType  string    `json:"collectionType"`
	FileSize        int64     `json:"fileSize"`
	FileDescription string    `json:"fileDescription"`
	FileAbstract    string    `json:"fileAbstract"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type DocumentListResponse struct {
	Success   bool           `json:"success"`
	Documents []DocumentItem `json:"documents"`
	Total     int64          `json:"total"`
	RequestId string         `json:"requestId,omitempty"`
}

type DocumentContentResponse struct {
	Success    bool   `json:"success"`
	DocumentId string `json:"documentId"`
	Filename   string `json:"filename"`
	Content    string `json:"content"`
	FileSize   int64  `json:"fileSize"`
	RequestId  string `json:"requestId,omitempty"`
}

type DeleteDocumentResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestId string `json:"requestId,omitempty"`
}

type ResetResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestId string `json:"requestId,omitempty"`
}

type CollectionStatusItem struct {
	Type          string `json:"type" example:"resumes"`
	Name          string `json:"name" example:"resumes_collection"`
	Description   string `json:"description"`
	PointCount    uint64 `json:"pointCount"`
	HasRetriever  bool   `json:"hasRetriever"`
	DocumentCount int64  `json:"documentCount"`
	TotalSize     int64  `json:"totalSize"`
}

type StatusResponse struct {
	Success        bool                   `json:"success"`
	IsReady        bool                   `json:"isReady"`
	Connected      bool                   `json:"connected"`
	Collections    []CollectionStatusItem `json:"collections"`
	TotalDocuments int64                  `json:"totalDocuments"`
}

type HealthResponse struct {
	Status               string   `json:"status" example:"healthy"`
	Connected            bool     `json:"connected"`
	RetrieverCount       int      `json:"retrieverCount"`
	AvailableCollections []string `json:"availableCollections"`
}

type SessionResponse struct {
	ReqId     string         `json:"reqId"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type SessionListResponse struct {
	Success  bool              `json:"success"`
	Sessions []SessionResponse `json:"sessions"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

type SessionDeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// requests---------------------

type IngestRequest struct {
	RequestId       string `json:"requestId,omitempty"`
	DocumentPath    string `json:"documentPath,omitempty"`
	DocumentContent string `json:"documentContent,omitempty"`
}

type QueryRequest struct {
	RequestId       string   `json:"requestId,omitempty"`
	QueryText       string   `json:"queryText" validate:"required"`
	CollectionTypes []string `json:"collectionTypes,omitempty"`
	TopK            int      `json:"topK,omitempty"`
	MinScore        *float32 `json:"minScore,omitempty"`
}

type DocumentListRequest struct {
	RequestId       string `json:"requestId,omitempty"`
	CollectionType  string `json:"collectionType,omitempty"`
	FilenamePattern string `json:"filenamePattern,omitempty"`
	Limit           int    `json:"limit,omitempty"`
	Offset          int    `json:"offset,omitempty"`
}

type DocumentContentRequest struct {
	RequestId  string `json:"requestId,omitempty"`
	DocumentId string `json:"documentId,omitempty"`
	Filename   string `json:"filename,omitempty"`
}

type DeleteDocumentRequest struct {
	RequestId  string `json:"requestId,omitempty"`
	DocumentId string `json:"documentId" validate:"required"`
}

type ResetRequest struct {
	RequestId      string `json:"requestId,omitempty"`
	CollectionType string `json:"collectionType,omitempty"`
}

type SessionCreateRequest struct {
	ReqId string         `json:"reqId" validate:"required"`
	Data  map[string]any `json:"data,omitempty"`
}

type SessionUpdateRequest struct {
	Data map[string]any `json:"data"`
}
