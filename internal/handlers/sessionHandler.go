package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/akolanti/DocStoreAPI/internal/adapter"
	"github.com/akolanti/DocStoreAPI/internal/adapter/utils"
	"github.com/akolanti/DocStoreAPI/internal/api"
	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/domain/sessionModel"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

var (
	sessionHandlerInstance *SessionHandler //private singleton
	onceSession            sync.Once
	logSH                  *logger_i.Logger
)

type SessionHandler struct {
	sessions sessionModel.SessionStore
}

func InitSessionHandler(store sessionModel.SessionStore) {
	onceSession.Do(func() {
		sessionHandlerInstance = &SessionHandler{sessions: store}

		logSH = logger_i.NewLogger("SessionHandler")
		logSH.Info("Starting session handler")
	})
}

// CreateSessionHandler godoc
// @Summary      Create a session
// @Description  Creates a request-scoped session keyed by the caller's request id. Fails when the id is already taken.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        request  body      api.SessionCreateRequest  true  "Request id and optional data blob"
// @Success      201      {object}  api.SessionResponse
// @Failure      400      {object}  api.ErrorResponse  "Missing request id"
// @Failure      409      {object}  api.ErrorResponse  "Session already exists"
// @Router       /sessions [post]
func CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		var requestData api.SessionCreateRequest
		if !decodeJsonBody(w, r, &requestData) {
			return
		}
		if requestData.ReqId == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "reqId is required")
			return
		}

		err := sessionHandlerInstance.sessions.Create(r.Context(), requestData.ReqId, requestData.Data)
		if errors.Is(err, sessionModel.ErrAlreadyExists) {
			WriteErrorResponse(w, http.StatusConflict, requestData.ReqId, "Session already exists: "+requestData.ReqId)
			return
		}
		if err != nil {
			logSH.Error("Failed to create session", "reqId", requestData.ReqId, "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, requestData.ReqId, "Failed to create session")
			return
		}

		session, err := sessionHandlerInstance.sessions.Get(r.Context(), requestData.ReqId)
		if err != nil {
			logSH.Error("Failed to load created session", "reqId", requestData.ReqId, "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, requestData.ReqId, "Failed to create session")
			return
		}

		writeJsonResponse(w, http.StatusCreated, adapter.ToSessionResponse(session))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// GetSessionHandler godoc
// @Summary      Get a session
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session request id"
// @Success      200  {object}  api.SessionResponse
// @Failure      404  {object}  api.ErrorResponse  "Session not found"
// @Router       /sessions/{id} [get]
func GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		id := utils.GetChiURLParam(r, "id")

		session, err := sessionHandlerInstance.sessions.Get(r.Context(), id)
		if errors.Is(err, sessionModel.ErrNotFound) {
			WriteErrorResponse(w, http.StatusNotFound, id, "Session not found: "+id)
			return
		}
		if err != nil {
			logSH.Error("Failed to get session", "reqId", id, "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, id, "Failed to get session")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(session))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// UpdateSessionHandler godoc
// @Summary      Update session data
// @Description  Replaces the session's data blob and bumps its recency.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Session request id"
// @Param        request  body      api.SessionUpdateRequest  true  "New data blob"
// @Success      200      {object}  api.SessionResponse
// @Failure      404      {object}  api.ErrorResponse  "Session not found"
// @Router       /sessions/{id} [put]
func UpdateSessionHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		id := utils.GetChiURLParam(r, "id")

		var requestData api.SessionUpdateRequest
		if !decodeJsonBody(w, r, &requestData) {
			return
		}

		err := sessionHandlerInstance.sessions.Update(r.Context(), id, requestData.Data)
		if errors.Is(err, sessionModel.ErrNotFound) {
			WriteErrorResponse(w, http.StatusNotFound, id, "Session not found: "+id)
			return
		}
		if err != nil {
			logSH.Error("Failed to update session", "reqId", id, "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, id, "Failed to update session")
			return
		}

		session, err := sessionHandlerInstance.sessions.Get(r.Context(), id)
		if err != nil {
			logSH.Error("Failed to load updated session", "reqId", id, "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, id, "Failed to update session")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(session))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// DeleteSessionHandler godoc
// @Summary      Delete a session
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session request id"
// @Success      200  {object}  api.SessionDeleteResponse
// @Failure      404  {object}  api.ErrorResponse  "Session not found"
// @Router       /sessions/{id} [delete]
func DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		id := utils.GetChiURLParam(r, "id")

		if !sessionHandlerInstance.sessions.Delete(r.Context(), id) {
			WriteErrorResponse(w, http.StatusNotFound, id, "Session not found: "+id)
			return
		}

		writeJsonResponse(w, http.StatusOK, api.SessionDeleteResponse{
			Success: true,
			Message: "Session deleted successfully",
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// ListSessionsHandler godoc
// @Summary      List sessions
// @Description  Newest-first session listing with limit/offset paging.
// @Tags         Sessions
// @Produce      json
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {object}  api.SessionListResponse
// @Router       /sessions [get]
func ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		limit := queryIntParam(r, "limit", config.DefaultSessionPageSize)
		if limit <= 0 {
			limit = config.DefaultSessionPageSize
		}
		offset := queryIntParam(r, "offset", 0)
		if offset < 0 {
			offset = 0
		}

		sessions, err := sessionHandlerInstance.sessions.List(r.Context(), limit, offset)
		if err != nil {
			logSH.Error("Failed to list sessions", "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Failed to list sessions")
			return
		}
		total, err := sessionHandlerInstance.sessions.Count(r.Context())
		if err != nil {
			logSH.Error("Failed to count sessions", "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Failed to list sessions")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToSessionListResponse(sessions, total, limit, offset))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

func queryIntParam(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
