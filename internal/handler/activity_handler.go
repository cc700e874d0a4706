package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ansmoon/bbogle/internal/middleware"
	"github.com/ansmoon/bbogle/internal/model"
)

// ActivityServiceInterface 는 경험 핸들러가 필요로 하는 서비스 인터페이스.
type ActivityServiceInterface interface {
	Create(ctx context.Context, userID int, activity *model.Activity, keywordIDs []int) (*model.Activity, error)
	Search(ctx context.Context, userID int, cond model.ActivitySearchCond) ([]*model.Activity, error)
	ListByProject(ctx context.Context, userID, projectID int) ([]*model.Activity, error)
	Get(ctx context.Context, userID, activityID int) (*model.Activity, error)
	Update(ctx context.Context, userID int, activity *model.Activity, keywordIDs []int) (*model.Activity, error)
	Delete(ctx context.Context, userID, activityID int) error
	ListKeywords(ctx context.Context) ([]*model.Keyword, error)
}

// ActivityHandler 는 경험(이력서 블록) 관련 HTTP 핸들러.
type ActivityHandler struct {
	service ActivityServiceInterface
}

// NewActivityHandler 는 ActivityHandler를 생성한다.
func NewActivityHandler(service ActivityServiceInterface) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// activityRequest 는 경험 등록/수정 요청 본문.
// ProjectID가 0이면 프로젝트 미연결 경험이다.
type activityRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	ProjectID int    `json:"projectId"`
	Keywords  []int  `json:"keywords"`
}

// activitySearchRequest 는 경험 검색 요청 본문.
type activitySearchRequest struct {
	Word     string `json:"word"`
	Keywords []int  `json:"keywords"`
	Projects []int  `json:"projects"`
}

// keywordResponse 는 키워드 API 응답.
type keywordResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
}

// activityResponse 는 경험 API 응답.
type activityResponse struct {
	ID        int               `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	StartDate string            `json:"startDate"`
	EndDate   string            `json:"endDate"`
	ProjectID int               `json:"projectId"`
	Keywords  []keywordResponse `json:"keywords"`
}

func (req *activityRequest) toModel() (*model.Activity, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, err
	}
	return &model.Activity{
		Title:     req.Title,
		Content:   req.Content,
		StartDate: startDate,
		EndDate:   endDate,
		ProjectID: req.ProjectID,
	}, nil
}

func toActivityResponse(activity *model.Activity) activityResponse {
	keywords := make([]keywordResponse, 0, len(activity.Keywords))
	for _, k := range activity.Keywords {
		keywords = append(keywords, keywordResponse{
			ID:   k.ID,
			Name: k.Name,
			Type: int(k.Type),
		})
	}
	return activityResponse{
		ID:        activity.ID,
		Title:     activity.Title,
		Content:   activity.Content,
		StartDate: activity.StartDate.Format(dateLayout),
		EndDate:   activity.EndDate.Format(dateLayout),
		ProjectID: activity.ProjectID,
		Keywords:  keywords,
	}
}

func toActivityResponses(activities []*model.Activity) []activityResponse {
	responses := make([]activityResponse, 0, len(activities))
	for _, a := range activities {
		responses = append(responses, toActivityResponse(a))
	}
	return responses
}

// Create 는 경험을 등록한다.
// POST /api/activities
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}
	if req.Title == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	activity, err := req.toModel()
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	created, err := h.service.Create(r.Context(), userID, activity, req.Keywords)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toActivityResponse(created))
}

// CreateForProject 는 AI 추출 결과에서 선택한 경험들을 프로젝트에 일괄 등록한다.
// 요청 본문은 경험 배열이며, 각 경험의 projectId는 URL의 프로젝트 ID로 강제된다.
// POST /api/projects/{id}/activities
func (h *ActivityHandler) CreateForProject(w http.ResponseWriter, r *http.Request) {
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

	var reqs []activityRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}
	if len(reqs) == 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	// 전체를 먼저 검증한 뒤 등록한다. 중간 실패로 일부만 저장되는 것을 줄인다.
	activities := make([]*model.Activity, 0, len(reqs))
	for _, req := range reqs {
		if req.Title == "" {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
			return
		}
		activity, err := req.toModel()
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
			return
		}
		activity.ProjectID = projectID
		activities = append(activities, activity)
	}

	responses := make([]activityResponse, 0, len(activities))
	for i, activity := range activities {
		created, err := h.service.Create(r.Context(), userID, activity, reqs[i].Keywords)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		responses = append(responses, toActivityResponse(created))
	}

	writeJSONResponse(w, http.StatusCreated, responses)
}

// Search 는 검색어/키워드/프로젝트 조건으로 경험을 조회한다.
// 조건이 모두 비어 있으면 전체 조회가 된다.
// POST /api/activities/search
func (h *ActivityHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req activitySearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	activities, err := h.service.Search(r.Context(), userID, model.ActivitySearchCond{
		Word:     req.Word,
		Keywords: req.Keywords,
		Projects: req.Projects,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toActivityResponses(activities))
}

// ListByProject 는 프로젝트에 연결된 경험 목록을 조회한다.
// GET /api/projects/{id}/activities
func (h *ActivityHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
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

	activities, err := h.service.ListByProject(r.Context(), userID, projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toActivityResponses(activities))
}

// Get 은 경험 상세를 조회한다.
// GET /api/activities/{id}
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	activityID, err := parseIDParam(r, "id")
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	activity, err := h.service.Get(r.Context(), userID, activityID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toActivityResponse(activity))
}

// Update 는 경험을 수정한다.
// PATCH /api/activities/{id}
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	activityID, err := parseIDParam(r, "id")
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	activity, err := req.toModel()
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}
	activity.ID = activityID

	updated, err := h.service.Update(r.Context(), userID, activity, req.Keywords)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toActivityResponse(updated))
}

// Delete 는 경험을 삭제한다.
// DELETE /api/activities/{id}
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	activityID, err := parseIDParam(r, "id")
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if err := h.service.Delete(r.Context(), userID, activityID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListKeywords 는 경험에 부착 가능한 키워드 전체 목록을 조회한다.
// GET /api/keywords
func (h *ActivityHandler) ListKeywords(w http.ResponseWriter, r *http.Request) {
	keywords, err := h.service.ListKeywords(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]keywordResponse, 0, len(keywords))
	for _, k := range keywords {
		responses = append(responses, keywordResponse{
			ID:   k.ID,
			Name: k.Name,
			Type: int(k.Type),
		})
	}
	writeJSONResponse(w, http.StatusOK, responses)
}
