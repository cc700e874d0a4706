package diary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ansmoon/bbogle/internal/model"
	"github.com/ansmoon/bbogle/internal/security"
)

type mockDiaryRepo struct {
	createFunc          func(ctx context.Context, diary *model.Diary) error
	findByIDFunc        func(ctx context.Context, id int) (*model.Diary, error)
	listByProjectIDFunc func(ctx context.Context, projectID int) ([]*model.Diary, error)
	updateFunc          func(ctx context.Context, diary *model.Diary) error
	deleteFunc          func(ctx context.Context, id int) error
}

func (m *mockDiaryRepo) Create(ctx context.Context, diary *model.Diary) error {
	return m.createFunc(ctx, diary)
}

func (m *mockDiaryRepo) FindByID(ctx context.Context, id int) (*model.Diary, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockDiaryRepo) ListByProjectID(ctx context.Context, projectID int) ([]*model.Diary, error) {
	return m.listByProjectIDFunc(ctx, projectID)
}

func (m *mockDiaryRepo) Update(ctx context.Context, diary *model.Diary) error {
	return m.updateFunc(ctx, diary)
}

func (m *mockDiaryRepo) Delete(ctx context.Context, id int) error {
	return m.deleteFunc(ctx, id)
}

// projectFinderRepo 는 FindByID만 동작하는 프로젝트 리포지터리 목.
type projectFinderRepo struct {
	findByIDFunc func(ctx context.Context, id int) (*model.Project, error)
}

func (m *projectFinderRepo) Create(ctx context.Context, project *model.Project) error { return nil }
func (m *projectFinderRepo) FindByID(ctx context.Context, id int) (*model.Project, error) {
	return m.findByIDFunc(ctx, id)
}
func (m *projectFinderRepo) ListByUserID(ctx context.Context, userID int) ([]*model.Project, error) {
	return nil, nil
}
func (m *projectFinderRepo) ListInProgressByUserID(ctx context.Context, userID int) ([]*model.Project, error) {
	return nil, nil
}
func (m *projectFinderRepo) Update(ctx context.Context, project *model.Project) error { return nil }
func (m *projectFinderRepo) End(ctx context.Context, id int, summary string) error    { return nil }
func (m *projectFinderRepo) UpdateNotification(ctx context.Context, id int, status bool) error {
	return nil
}
func (m *projectFinderRepo) Delete(ctx context.Context, id int) error { return nil }
func (m *projectFinderRepo) ListDueForNotification(ctx context.Context, hour, minute int) ([]*model.Project, error) {
	return nil, nil
}

type mockQuestionRepo struct {
	listAllFunc func(ctx context.Context) ([]*model.Question, error)
}

func (m *mockQuestionRepo) ListAll(ctx context.Context) ([]*model.Question, error) {
	return m.listAllFunc(ctx)
}

func ownedInProgressProject(userID int) *projectFinderRepo {
	return &projectFinderRepo{
		findByIDFunc: func(ctx context.Context, id int) (*model.Project, error) {
			return &model.Project{ID: id, UserID: userID, Status: model.ProjectStatusInProgress}, nil
		},
	}
}

func TestCreateSanitizesAnswers(t *testing.T) {
	var created *model.Diary
	diaryRepo := &mockDiaryRepo{
		createFunc: func(ctx context.Context, diary *model.Diary) error {
			diary.ID = 1
			created = diary
			return nil
		},
	}

	svc := NewService(diaryRepo, ownedInProgressProject(7), nil, security.NewContentSanitizer())

	_, err := svc.Create(context.Background(), 7, 10, &model.Diary{
		Title: "오늘의 일지",
		Answers: []model.Answer{
			{QuestionID: 1, Answer: `<p>구현 완료</p><script>alert('xss')</script>`},
		},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if strings.Contains(created.Answers[0].Answer, "<script") {
		t.Errorf("answer not sanitized: %q", created.Answers[0].Answer)
	}
	if !strings.Contains(created.Answers[0].Answer, "구현 완료") {
		t.Errorf("answer content lost: %q", created.Answers[0].Answer)
	}
}

func TestCreateRejectsEndedProject(t *testing.T) {
	projectRepo := &projectFinderRepo{
		findByIDFunc: func(ctx context.Context, id int) (*model.Project, error) {
			return &model.Project{ID: id, UserID: 7, Status: model.ProjectStatusEnded}, nil
		},
	}
	svc := NewService(nil, projectRepo, nil, security.NewContentSanitizer())

	_, err := svc.Create(context.Background(), 7, 10, &model.Diary{Title: "일지"})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Create() error = %v, want APIError", err)
	}
	if apiErr.Code != model.ErrCodeProjectEnded {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeProjectEnded)
	}
}

func TestGetHidesOtherOwnersDiary(t *testing.T) {
	diaryRepo := &mockDiaryRepo{
		findByIDFunc: func(ctx context.Context, id int) (*model.Diary, error) {
			return &model.Diary{ID: id, ProjectID: 10}, nil
		},
	}
	projectRepo := &projectFinderRepo{
		findByIDFunc: func(ctx context.Context, id int) (*model.Project, error) {
			return &model.Project{ID: id, UserID: 99}, nil
		},
	}
	svc := NewService(diaryRepo, projectRepo, nil, security.NewContentSanitizer())

	_, err := svc.Get(context.Background(), 7, 5)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Get() error = %v, want APIError", err)
	}
	if apiErr.Code != model.ErrCodeDiaryNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeDiaryNotFound)
	}
}

func TestListQuestions(t *testing.T) {
	questionRepo := &mockQuestionRepo{
		listAllFunc: func(ctx context.Context) ([]*model.Question, error) {
			return []*model.Question{
				{ID: 1, Description: "오늘 한 일은 무엇인가요?"},
				{ID: 2, Description: "어떤 문제를 겪었나요?"},
			}, nil
		},
	}
	svc := NewService(nil, nil, questionRepo, security.NewContentSanitizer())

	questions, err := svc.ListQuestions(context.Background())
	if err != nil {
		t.Fatalf("ListQuestions() error = %v", err)
	}
	if len(questions) != 2 {
		t.Errorf("len(questions) = %d, want 2", len(questions))
	}
}
