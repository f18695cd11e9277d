package adapter

import (
	"github.com/akolanti/DocStoreAPI/internal/api"
	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
	"github.com/akolanti/DocStoreAPI/internal/domain/sessionModel"
)

func ToIngestResponse(result docModel.IngestResult, requestId string) api.IngestResponse {
	response := api.IngestResponse{
		Success:         result.Success,
		DocumentId:      result.DocumentID,
		Filename:        result.Filename,
		FilePath:        result.FilePath,
		FileSize:        result.FileSize,
		FileDescription: result.Description,
		FileAbstract:    result.Abstract,
		CollectionType:  result.CollectionType,
		RequestId:       requestId,
	}
	if result.Success {
		response.Message = "Successfully ingested document"
	} else {
		response.Message = result.Error
	}
	return response
}

func ToSearchResults(results []docModel.SearchResult) []api.SearchResultItem {
	items := make([]api.SearchResultItem, 0, len(results))
	for _, result := range results {
		items = append(items, api.SearchResultItem{
			Content:        result.Content,
			Score:          result.Score,
			CollectionType: result.CollectionType,
			Source:         result.Source,
			DocumentId:     result.DocumentID,
			Rank:           result.Rank,
			Metadata:       result.Metadata,
		})
	}
	return items
}

func ToDocumentItems(records []docModel.DocumentRecord) []api.DocumentItem {
	items := make([]api.DocumentItem, 0, len(records))
	for _, record := range records {
		items = append(items, api.DocumentItem{
			DocumentId:      record.ID,
			Filename:        record.Filename,
			FilePath:        record.FilePath,
			CollectionType:  record.CollectionType,
			FileSize:        record.FileSize,
			FileDescription: record.FileDescription,
			FileAbstract:    record.FileAbstract,
			CreatedAt:       record.CreatedAt,
			UpdatedAt:       record.UpdatedAt,
		})
	}
	return items
}

func ToStatusResponse(status docModel.StoreStatus, isReady bool) api.StatusResponse {
	collections := make([]api.CollectionStatusItem, 0, len(status.Collections))
	for _, info := range status.Collections {
		item := api.CollectionStatusItem{
			Type:         info.Type,
			Name:         info.Name,
			Description:  info.Description,
			PointCount:   info.PointCount,
			HasRetriever: info.HasRetriever,
		}
		if stats, ok := status.Statistics.Collections[info.Type]; ok {
			item.DocumentCount = stats.DocumentCount
			item.TotalSize = stats.TotalSize
		}
		collections = append(collections, item)
	}

	return api.StatusResponse{
		Success:        true,
		IsReady:        isReady,
		Connected:      status.Connected,
		Collections:    collections,
		TotalDocuments: status.Statistics.TotalDocuments,
	}
}

func ToSessionResponse(session sessionModel.Session) api.SessionResponse {
	return api.SessionResponse{
		ReqId:     session.ReqID,
		Data:      session.Data,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

func ToSessionListResponse(sessions []sessionModel.Session, total int64, limit int, offset int) api.SessionListResponse {
	items := make([]api.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, ToSessionResponse(session))
	}
	return api.SessionListResponse{
		Success:  true,
		Sessions: items,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
}
