package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ansmoon/bbogle/internal/middleware"
	"github.com/ansmoon/bbogle/internal/model"
)

// DiaryServiceInterface 는 개발일지 핸들러가 필요로 하는 서비스 인터페이스.
type DiaryServiceInterface interface {
	Create(ctx context.Context, userID, projectID int, diary *model.Diary) (*model.Diary, error)
	ListByProject(ctx context.Context, userID, projectID int) ([]*model.Diary, error)
	Get(ctx context.Context, userID, diaryID int) (*model.Diary, error)
	Update(ctx context.Context, userID int, diary *model.Diary) (*model.Diary, error)
	Delete(ctx context.Context, userID, diaryID int) error
	ListQuestions(ctx context.Context) ([]*model.Question, error)
}

// DiaryHandler 는 개발일지 관련 HTTP 핸들러.
type DiaryHandler struct {
	service DiaryServiceInterface
}

// NewDiaryHandler 는 DiaryHandler를 생성한다.
func NewDiaryHandler(service DiaryServiceInterface) *DiaryHandler {
	return &DiaryHandler{service: service}
}

// answerPayload 는 질문 하나에 대한 답변의 요청/응답 표현.
type answerPayload struct {
	QuestionID int    `json:"questionId"`
	Answer     string `json:"answer"`
}

// diaryRequest 는 개발일지 작성/수정 요청 본문.
type diaryRequest struct {
	Title   string          `json:"title"`
	Answers []answerPayload `json:"answers"`
}

// diaryResponse 는 개발일지 API 응답.
type diaryResponse struct {
	ID        int             `json:"id"`
	ProjectID int             `json:"projectId"`
	Title     string          `json:"title"`
	Answers   []answerPayload `json:"answers"`
	CreatedAt string          `json:"createdAt"`
}

// questionResponse 는 개발일지 질문 API 응답.
type questionResponse struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

func (req *diaryRequest) toModel() *model.Diary {
	answers := make([]model.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, model.Answer{
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
		})
	}
	return &model.Diary{
		Title:   req.Title,
		Answers: answers,
	}
}

func toDiaryResponse(diary *model.Diary) diaryResponse {
	answers := make([]answerPayload, 0, len(diary.Answers))
	for _, a := range diary.Answers {
		answers = append(answers, answerPayload{
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
		})
	}
	return diaryResponse{
		ID:        diary.ID,
		ProjectID: diary.ProjectID,
		Title:     diary.Title,
		Answers:   answers,
		CreatedAt: diary.CreatedAt.Format(time.RFC3339),
	}
}

// Create 는 프로젝트에 개발일지를 작성한다.
// POST /api/projects/{id}/diaries
func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req diaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}
	if req.Title == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	created, err := h.service.Create(r.Context(), userID, projectID, req.toModel())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toDiaryResponse(created))
}

// ListByProject 는 프로젝트의 개발일지 목록을 조회한다.
// GET /api/projects/{id}/diaries
func (h *DiaryHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
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

	diaries, err := h.service.ListByProject(r.Context(), userID, projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]diaryResponse, 0, len(diaries))
	for _, d := range diaries {
		responses = append(responses, toDiaryResponse(d))
	}
	writeJSONResponse(w, http.StatusOK, responses)
}

// Get 은 개발일지 상세를 조회한다.
// GET /api/diaries/{id}
func (h *DiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	diary, err := h.service.Get(r.Context(), userID, diaryID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toDiaryResponse(diary))
}

// Update 는 개발일지를 수정한다.
// PATCH /api/diaries/{id}
func (h *DiaryHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req diaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	diary := req.toModel()
	diary.ID = diaryID

	updated, err := h.service.Update(r.Context(), userID, diary)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toDiaryResponse(updated))
}

// Delete 는 개발일지를 삭제한다.
// DELETE /api/diaries/{id}
func (h *DiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Delete(r.Context(), userID, diaryID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListQuestions 는 개발일지 작성용 고정 질문 목록을 조회한다.
// GET /api/questions
func (h *DiaryHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.ListQuestions(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, questionResponse{
			ID:          q.ID,
			Description: q.Description,
		})
	}
	writeJSONResponse(w, http.StatusOK, responses)
}
