package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ansmoon/bbogle/internal/model"
)

// mockDiaryService 는 DiaryServiceInterface의 모의 구현.
type mockDiaryService struct {
	createFn        func(ctx context.Context, userID, projectID int, diary *model.Diary) (*model.Diary, error)
	listByProjectFn func(ctx context.Context, userID, projectID int) ([]*model.Diary, error)
	getFn           func(ctx context.Context, userID, diaryID int) (*model.Diary, error)
	updateFn        func(ctx context.Context, userID int, diary *model.Diary) (*model.Diary, error)
	deleteFn        func(ctx context.Context, userID, diaryID int) error
	listQuestionsFn func(ctx context.Context) ([]*model.Question, error)
}

func (m *mockDiaryService) Create(ctx context.Context, userID, projectID int, diary *model.Diary) (*model.Diary, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, projectID, diary)
	}
	return diary, nil
}

func (m *mockDiaryService) ListByProject(ctx context.Context, userID, projectID int) ([]*model.Diary, error) {
	if m.listByProjectFn != nil {
		return m.listByProjectFn(ctx, userID, projectID)
	}
	return nil, nil
}

func (m *mockDiaryService) Get(ctx context.Context, userID, diaryID int) (*model.Diary, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, diaryID)
	}
	return nil, nil
}

func (m *mockDiaryService) Update(ctx context.Context, userID int, diary *model.Diary) (*model.Diary, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, diary)
	}
	return diary, nil
}

func (m *mockDiaryService) Delete(ctx context.Context, userID, diaryID int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, diaryID)
	}
	return nil
}

func (m *mockDiaryService) ListQuestions(ctx context.Context) ([]*model.Question, error) {
	if m.listQuestionsFn != nil {
		return m.listQuestionsFn(ctx)
	}
	return nil, nil
}

func TestDiaryHandler_Create_Success(t *testing.T) {
	svc := &mockDiaryService{
		createFn: func(ctx context.Context, userID, projectID int, diary *model.Diary) (*model.Diary, error) {
			if projectID != 3 {
				t.Errorf("projectID = %d, want 3", projectID)
			}
			if len(diary.Answers) != 2 {
				t.Fatalf("answers = %d, want 2", len(diary.Answers))
			}
			if diary.Answers[0].QuestionID != 1 {
				t.Errorf("questionId = %d, want 1", diary.Answers[0].QuestionID)
			}
			diary.ID = 10
			diary.ProjectID = projectID
			return diary, nil
		},
	}
	h := NewDiaryHandler(svc)

	body := `{"title":"7월 1일 일지","answers":[{"questionId":1,"answer":"로그인 구현"},{"questionId":2,"answer":""}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/projects/3/diaries", bytes.NewBufferString(body))
	req = withUserID(req, 7)
	req = withChiURLParam(req, "id", "3")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var resp diaryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 10 {
		t.Errorf("id = %d, want 10", resp.ID)
	}
	if resp.ProjectID != 3 {
		t.Errorf("projectId = %d, want 3", resp.ProjectID)
	}
}

func TestDiaryHandler_Create_EndedProject(t *testing.T) {
	svc := &mockDiaryService{
		createFn: func(ctx context.Context, userID, projectID int, diary *model.Diary) (*model.Diary, error) {
			return nil, model.NewProjectEndedError(projectID)
		},
	}
	h := NewDiaryHandler(svc)

	body := `{"title":"일지","answers":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/projects/3/diaries", bytes.NewBufferString(body))
	req = withUserID(req, 7)
	req = withChiURLParam(req, "id", "3")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDiaryHandler_Get_NotFound(t *testing.T) {
	svc := &mockDiaryService{
		getFn: func(ctx context.Context, userID, diaryID int) (*model.Diary, error) {
			return nil, model.NewDiaryNotFoundError(diaryID)
		},
	}
	h := NewDiaryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/diaries/99", nil)
	req = withUserID(req, 7)
	req = withChiURLParam(req, "id", "99")
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestDiaryHandler_ListQuestions(t *testing.T) {
	svc := &mockDiaryService{
		listQuestionsFn: func(ctx context.Context) ([]*model.Question, error) {
			return []*model.Question{
				{ID: 1, Description: "오늘 어떤 작업을 했나요?"},
				{ID: 2, Description: "어떤 문제를 겪었나요?"},
			}, nil
		},
	}
	h := NewDiaryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
	w := httptest.NewRecorder()

	h.ListQuestions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp []questionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("questions = %d, want 2", len(resp))
	}
	if resp[0].Description != "오늘 어떤 작업을 했나요?" {
		t.Errorf("description = %q", resp[0].Description)
	}
}
