package project

import (
	"context"
	"errors"
	"testing"

	"github.com/ansmoon/bbogle/internal/model"
)

type mockProjectRepo struct {
	createFunc                 func(ctx context.Context, project *model.Project) error
	findByIDFunc               func(ctx context.Context, id int) (*model.Project, error)
	listByUserIDFunc           func(ctx context.Context, userID int) ([]*model.Project, error)
	listInProgressByUserIDFunc func(ctx context.Context, userID int) ([]*model.Project, error)
	updateFunc                 func(ctx context.Context, project *model.Project) error
	endFunc                    func(ctx context.Context, id int, summary string) error
	updateNotificationFunc     func(ctx context.Context, id int, status bool) error
	deleteFunc                 func(ctx context.Context, id int) error
	listDueForNotification     func(ctx context.Context, hour, minute int) ([]*model.Project, error)
}

func (m *mockProjectRepo) Create(ctx context.Context, project *model.Project) error {
	return m.createFunc(ctx, project)
}

func (m *mockProjectRepo) FindByID(ctx context.Context, id int) (*model.Project, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockProjectRepo) ListByUserID(ctx context.Context, userID int) ([]*model.Project, error) {
	return m.listByUserIDFunc(ctx, userID)
}

func (m *mockProjectRepo) ListInProgressByUserID(ctx context.Context, userID int) ([]*model.Project, error) {
	return m.listInProgressByUserIDFunc(ctx, userID)
}

func (m *mockProjectRepo) Update(ctx context.Context, project *model.Project) error {
	return m.updateFunc(ctx, project)
}

func (m *mockProjectRepo) End(ctx context.Context, id int, summary string) error {
	return m.endFunc(ctx, id, summary)
}

func (m *mockProjectRepo) UpdateNotification(ctx context.Context, id int, status bool) error {
	return m.updateNotificationFunc(ctx, id, status)
}

func (m *mockProjectRepo) Delete(ctx context.Context, id int) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockProjectRepo) ListDueForNotification(ctx context.Context, hour, minute int) ([]*model.Project, error) {
	return m.listDueForNotification(ctx, hour, minute)
}

func TestCreateSetsOwnerAndStatus(t *testing.T) {
	var created *model.Project
	repo := &mockProjectRepo{
		createFunc: func(ctx context.Context, project *model.Project) error {
			project.ID = 10
			created = project
			return nil
		},
	}
	svc := NewService(repo)

	project, err := svc.Create(context.Background(), 7, &model.Project{Title: "뽀글 백엔드"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.UserID != 7 {
		t.Errorf("UserID = %d, want 7", created.UserID)
	}
	if created.Status != model.ProjectStatusInProgress {
		t.Errorf("Status = %q, want %q", created.Status, model.ProjectStatusInProgress)
	}
	if project.ID != 10 {
		t.Errorf("ID = %d, want 10", project.ID)
	}
}

func TestGetRejectsOtherOwner(t *testing.T) {
	repo := &mockProjectRepo{
		findByIDFunc: func(ctx context.Context, id int) (*model.Project, error) {
			return &model.Project{ID: id, UserID: 99}, nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Get(context.Background(), 7, 10)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Get() error = %v, want APIError", err)
	}
	// 다른 회원 소유는 존재 여부를 숨기기 위해 NotFound로 응답한다
	if apiErr.Code != model.ErrCodeProjectNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeProjectNotFound)
	}
}

func TestEndRejectsAlreadyEnded(t *testing.T) {
	repo := &mockProjectRepo{
		findByIDFunc: func(ctx context.Context, id int) (*model.Project, error) {
			return &model.Project{ID: id, UserID: 7, Status: model.ProjectStatusEnded}, nil
		},
	}
	svc := NewService(repo)

	err := svc.End(context.Background(), 7, 10, "회고 요약")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("End() error = %v, want APIError", err)
	}
	if apiErr.Code != model.ErrCodeProjectEnded {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeProjectEnded)
	}
}

func TestEndStoresSummary(t *testing.T) {
	var gotSummary string
	repo := &mockProjectRepo{
		findByIDFunc: func(ctx context.Context, id int) (*model.Project, error) {
			return &model.Project{ID: id, UserID: 7, Status: model.ProjectStatusInProgress}, nil
		},
		endFunc: func(ctx context.Context, id int, summary string) error {
			gotSummary = summary
			return nil
		},
	}
	svc := NewService(repo)

	if err := svc.End(context.Background(), 7, 10, "3개월간의 회고"); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if gotSummary != "3개월간의 회고" {
		t.Errorf("summary = %q, want %q", gotSummary, "3개월간의 회고")
	}
}

func TestUpdatePreservesStatusAndSummary(t *testing.T) {
	var updated *model.Project
	repo := &mockProjectRepo{
		findByIDFunc: func(ctx context.Context, id int) (*model.Project, error) {
			return &model.Project{
				ID:      id,
				UserID:  7,
				Status:  model.ProjectStatusEnded,
				Summary: "기존 요약",
			}, nil
		},
		updateFunc: func(ctx context.Context, project *model.Project) error {
			updated = project
			return nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), 7, &model.Project{ID: 10, Title: "새 제목", Status: model.ProjectStatusInProgress})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Status != model.ProjectStatusEnded {
		t.Errorf("Status = %q, want preserved %q", updated.Status, model.ProjectStatusEnded)
	}
	if updated.Summary != "기존 요약" {
		t.Errorf("Summary = %q, want preserved %q", updated.Summary, "기존 요약")
	}
}

func TestDeleteUnknownProject(t *testing.T) {
	repo := &mockProjectRepo{
		findByIDFunc: func(ctx context.Context, id int) (*model.Project, error) {
			return nil, nil
		},
	}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), 7, 404)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Delete() error = %v, want APIError", err)
	}
	if apiErr.Code != model.ErrCodeProjectNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeProjectNotFound)
	}
}
