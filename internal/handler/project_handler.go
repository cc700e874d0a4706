package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ansmoon/bbogle/internal/middleware"
	"github.com/ansmoon/bbogle/internal/model"
)

// dateLayout 은 요청/응답에서 날짜를 표현하는 형식.
const dateLayout = "2006-01-02"

// ProjectServiceInterface 는 프로젝트 핸들러가 필요로 하는 서비스 인터페이스.
type ProjectServiceInterface interface {
	Create(ctx context.Context, userID int, project *model.Project) (*model.Project, error)
	List(ctx context.Context, userID int) ([]*model.Project, error)
	ListInProgress(ctx context.Context, userID int) ([]*model.Project, error)
	Get(ctx context.Context, userID, projectID int) (*model.Project, error)
	Update(ctx context.Context, userID int, project *model.Project) (*model.Project, error)
	End(ctx context.Context, userID, projectID int, summary string) error
	UpdateNotification(ctx context.Context, userID, projectID int, status bool) error
	Delete(ctx context.Context, userID, projectID int) error
}

// ProjectHandler 는 프로젝트 관련 HTTP 핸들러.
type ProjectHandler struct {
	service ProjectServiceInterface
}

// NewProjectHandler 는 ProjectHandler를 생성한다.
func NewProjectHandler(service ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// projectRequest 는 프로젝트 등록/수정 요청 본문.
type projectRequest struct {
	Title              string                 `json:"title"`
	Image              string                 `json:"image"`
	Description        string                 `json:"description"`
	StartDate          string                 `json:"startDate"`
	EndDate            string                 `json:"endDate"`
	MemberCount        int                    `json:"memberCount"`
	Roles              []string               `json:"roles"`
	Skills             []string               `json:"skills"`
	NotificationStatus bool                   `json:"notificationStatus"`
	NotificationTime   model.NotificationTime `json:"notificationTime"`
}

// endProjectRequest 는 프로젝트 종료 요청 본문.
type endProjectRequest struct {
	Summary string `json:"summary"`
}

// updateNotificationRequest 는 알림 설정 변경 요청 본문.
type updateNotificationRequest struct {
	Status bool `json:"status"`
}

// projectResponse 는 프로젝트 정보 API 응답.
type projectResponse struct {
	ID                 int                    `json:"id"`
	Title              string                 `json:"title"`
	Image              string                 `json:"image"`
	Description        string                 `json:"description"`
	StartDate          string                 `json:"startDate"`
	EndDate            string                 `json:"endDate"`
	MemberCount        int                    `json:"memberCount"`
	Roles              []string               `json:"roles"`
	Skills             []string               `json:"skills"`
	Status             string                 `json:"status"`
	NotificationStatus bool                   `json:"notificationStatus"`
	NotificationTime   model.NotificationTime `json:"notificationTime"`
	Summary            string                 `json:"summary,omitempty"`
}

func (req *projectRequest) toModel() (*model.Project, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, err
	}
	return &model.Project{
		Title:              req.Title,
		Image:              req.Image,
		Description:        req.Description,
		StartDate:          startDate,
		EndDate:            endDate,
		MemberCount:        req.MemberCount,
		Roles:              req.Roles,
		Skills:             req.Skills,
		NotificationStatus: req.NotificationStatus,
		NotificationTime:   req.NotificationTime,
	}, nil
}

func toProjectResponse(project *model.Project) projectResponse {
	return projectResponse{
		ID:                 project.ID,
		Title:              project.Title,
		Image:              project.Image,
		Description:        project.Description,
		StartDate:          project.StartDate.Format(dateLayout),
		EndDate:            project.EndDate.Format(dateLayout),
		MemberCount:        project.MemberCount,
		Roles:              project.Roles,
		Skills:             project.Skills,
		Status:             string(project.Status),
		NotificationStatus: project.NotificationStatus,
		NotificationTime:   project.NotificationTime,
		Summary:            project.Summary,
	}
}

func toProjectResponses(projects []*model.Project) []projectResponse {
	responses := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, toProjectResponse(p))
	}
	return responses
}

// parseIDParam 은 URL 경로의 숫자 ID 파라미터를 해석한다.
func parseIDParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}

// Create 는 프로젝트를 등록한다.
// POST /api/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}
	if req.Title == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	project, err := req.toModel()
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	created, err := h.service.Create(r.Context(), userID, project)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toProjectResponse(created))
}

// List 는 회원의 전체 프로젝트를 조회한다.
// GET /api/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	projects, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toProjectResponses(projects))
}

// ListInProgress 는 진행중인 프로젝트만 조회한다.
// GET /api/projects/in-progress
func (h *ProjectHandler) ListInProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	projects, err := h.service.ListInProgress(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toProjectResponses(projects))
}

// Get 은 프로젝트 상세를 조회한다.
// GET /api/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	project, err := h.service.Get(r.Context(), userID, projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toProjectResponse(project))
}

// Update 는 프로젝트 정보를 수정한다. 상태와 회고 요약은 이 경로로 바꿀 수 없다.
// PATCH /api/projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	project, err := req.toModel()
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}
	project.ID = projectID

	updated, err := h.service.Update(r.Context(), userID, project)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toProjectResponse(updated))
}

// End 는 프로젝트를 종료 상태로 바꾸고 회고 요약을 저장한다.
// PATCH /api/projects/{id}/end
func (h *ProjectHandler) End(w http.ResponseWriter, r *http.Request) {
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

	var req endProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if err := h.service.End(r.Context(), userID, projectID, req.Summary); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateNotification 은 개발일지 작성 알림 설정을 켜거나 끈다.
// PATCH /api/projects/{id}/notification
func (h *ProjectHandler) UpdateNotification(w http.ResponseWriter, r *http.Request) {
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

	var req updateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if err := h.service.UpdateNotification(r.Context(), userID, projectID, req.Status); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete 는 프로젝트를 삭제한다. 연결된 개발일지는 함께 삭제된다.
// DELETE /api/projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Delete(r.Context(), userID, projectID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
