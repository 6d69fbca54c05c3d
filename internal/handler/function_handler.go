package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ai-interview-coach-be/internal/dto"
	"ai-interview-coach-be/internal/pkg/apperror"
	"ai-interview-coach-be/internal/pkg/serverutils"
	"ai-interview-coach-be/internal/service"

	"github.com/google/uuid"
)

// FunctionHandler adapts the interview service to plain net/http so the same
// operations can be deployed as single-purpose cloud functions. Routes:
//
//	POST /start-session
//	POST /submit-response   body: {session_id, response}
//	GET  /session/{id}
//	POST /end-session       body: {session_id}
type FunctionHandler struct {
	interviewService service.IInterviewService
}

func NewFunctionHandler(interviewService service.IInterviewService) *FunctionHandler {
	return &FunctionHandler{
		interviewService: interviewService,
	}
}

func (h *FunctionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/start-session":
		h.startSession(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/submit-response":
		h.submitResponse(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/session/"):
		h.getSession(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/end-session":
		h.endSession(w, r)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *FunctionHandler) startSession(w http.ResponseWriter, r *http.Request) {
	userId, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req dto.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		writeServiceError(w, err)
		return
	}

	res, err := h.interviewService.StartSession(r.Context(), userId, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *FunctionHandler) submitResponse(w http.ResponseWriter, r *http.Request) {
	userId, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var body struct {
		SessionId string `json:"session_id"`
		Response  string `json:"response"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sessionId, ok := parseSessionId(w, body.SessionId)
	if !ok {
		return
	}

	req := dto.SubmitResponseRequest{Response: body.Response}
	if err := serverutils.ValidateRequest(req); err != nil {
		writeServiceError(w, err)
		return
	}

	res, err := h.interviewService.SubmitResponse(r.Context(), userId, sessionId, &req)
	if err != nil {
		var limitErr *dto.LimitExceededError
		if errors.As(err, &limitErr) {
			writeJSON(w, http.StatusTooManyRequests, limitErr)
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *FunctionHandler) getSession(w http.ResponseWriter, r *http.Request) {
	userId, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	sessionId, ok := parseSessionId(w, strings.TrimPrefix(r.URL.Path, "/session/"))
	if !ok {
		return
	}

	res, err := h.interviewService.GetSession(r.Context(), userId, sessionId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *FunctionHandler) endSession(w http.ResponseWriter, r *http.Request) {
	userId, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var body struct {
		SessionId string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sessionId, ok := parseSessionId(w, body.SessionId)
	if !ok {
		return
	}

	res, err := h.interviewService.EndSession(r.Context(), userId, sessionId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *FunctionHandler) authenticate(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return uuid.Nil, false
	}

	userIdStr, err := serverutils.VerifyToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return uuid.Nil, false
	}

	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return uuid.Nil, false
	}
	return userId, true
}

func parseSessionId(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session_id")
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeServiceError(w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		writeError(w, apperror.StatusCode(appErr.Kind), appErr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}
