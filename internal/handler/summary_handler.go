package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ansmoon/bbogle/internal/middleware"
	"github.com/ansmoon/bbogle/internal/model"
	"github.com/ansmoon/bbogle/internal/summary"
)

// SummaryServiceInterface 는 AI 작업 핸들러가 필요로 하는 서비스 인터페이스.
type SummaryServiceInterface interface {
	RequestRetrospective(ctx context.Context, userID, projectID int) (string, error)
	RequestExperience(ctx context.Context, userID, projectID int) (string, error)
	RequestDiarySummary(ctx context.Context, userID, diaryID int) (string, error)
	GetResult(ctx context.Context, jobID string) ([]byte, error)
}

// SummaryHandler 는 AI 요약 작업 관련 HTTP 핸들러.
// 작업은 비동기로 처리되며, 발행 시 받은 작업 ID로 결과를 폴링한다.
type SummaryHandler struct {
	service SummaryServiceInterface
}

// NewSummaryHandler 는 SummaryHandler를 생성한다.
func NewSummaryHandler(service SummaryServiceInterface) *SummaryHandler {
	return &SummaryHandler{service: service}
}

// extractExperienceRequest 는 경험 추출 요청 본문.
type extractExperienceRequest struct {
	ProjectID int `json:"projectId"`
}

// jobAcceptedResponse 는 작업 접수 응답.
type jobAcceptedResponse struct {
	JobID string `json:"jobId"`
}

// RequestRetrospective 는 프로젝트 회고 요약 작업을 발행한다.
// POST /api/projects/{id}/retrospective
func (h *SummaryHandler) RequestRetrospective(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	projectID, err := parseIDParam(r, "id")
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	jobID, err := h.service.RequestRetrospective(r.Context(), userID, projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusAccepted, jobAcceptedResponse{JobID: jobID})
}

// RequestExperience 는 종료된 프로젝트에서 경험 추출 작업을 발행한다.
// POST /api/activities/extract
func (h *SummaryHandler) RequestExperience(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req extractExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	jobID, err := h.service.RequestExperience(r.Context(), userID, req.ProjectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusAccepted, jobAcceptedResponse{JobID: jobID})
}

// RequestDiarySummary 는 개발일지 하나의 요약 작업을 발행한다.
// POST /api/diaries/{id}/summary
func (h *SummaryHandler) RequestDiarySummary(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	diaryID, err := parseIDParam(r, "id")
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	jobID, err := h.service.RequestDiarySummary(r.Context(), userID, diaryID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusAccepted, jobAcceptedResponse{JobID: jobID})
}

// GetResult 는 작업 결과를 조회한다. 아직 도착하지 않았으면 202를 반환한다.
// GET /api/jobs/{jobID}
func (h *SummaryHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	result, err := h.service.GetResult(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, summary.ErrResultNotFound) {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		handleServiceError(w, err)
		return
	}

	// 결과는 처리측이 만든 JSON 그대로 전달한다
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(result)
}
