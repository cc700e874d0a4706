package notify

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ansmoon/bbogle/internal/metrics"
	"github.com/ansmoon/bbogle/internal/model"
)

type mockProjectRepo struct {
	listDueFunc func(ctx context.Context, hour, minute int) ([]*model.Project, error)
}

func (m *mockProjectRepo) Create(ctx context.Context, project *model.Project) error { return nil }
func (m *mockProjectRepo) FindByID(ctx context.Context, id int) (*model.Project, error) {
	return nil, nil
}
func (m *mockProjectRepo) ListByUserID(ctx context.Context, userID int) ([]*model.Project, error) {
	return nil, nil
}
func (m *mockProjectRepo) ListInProgressByUserID(ctx context.Context, userID int) ([]*model.Project, error) {
	return nil, nil
}
func (m *mockProjectRepo) Update(ctx context.Context, project *model.Project) error { return nil }
func (m *mockProjectRepo) End(ctx context.Context, id int, summary string) error    { return nil }
func (m *mockProjectRepo) UpdateNotification(ctx context.Context, id int, status bool) error {
	return nil
}
func (m *mockProjectRepo) Delete(ctx context.Context, id int) error { return nil }
func (m *mockProjectRepo) ListDueForNotification(ctx context.Context, hour, minute int) ([]*model.Project, error) {
	return m.listDueFunc(ctx, hour, minute)
}

type mockNotifier struct {
	notified []int
	err      error
}

func (m *mockNotifier) Notify(ctx context.Context, project *model.Project) error {
	if m.err != nil {
		return m.err
	}
	m.notified = append(m.notified, project.ID)
	return nil
}

func newTestScheduler(repo *mockProjectRepo, notifier Notifier) *Scheduler {
	collector := metrics.NewCollector(prometheus.NewRegistry())
	return NewScheduler(repo, notifier, collector, slog.Default())
}

func TestRunOnceNotifiesDueProjects(t *testing.T) {
	repo := &mockProjectRepo{
		listDueFunc: func(ctx context.Context, hour, minute int) ([]*model.Project, error) {
			if hour != 21 || minute != 30 {
				t.Errorf("queried hour/minute = %d:%d, want 21:30", hour, minute)
			}
			return []*model.Project{
				{ID: 1, UserID: 7, Title: "뽀글"},
				{ID: 2, UserID: 8, Title: "사이드"},
			}, nil
		},
	}
	notifier := &mockNotifier{}
	s := newTestScheduler(repo, notifier)

	now := time.Date(2024, 11, 1, 21, 30, 0, 0, time.Local)
	if err := s.RunOnce(context.Background(), now); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	if len(notifier.notified) != 2 {
		t.Errorf("notified %d projects, want 2", len(notifier.notified))
	}
}

func TestRunOnceSkipsSameMinute(t *testing.T) {
	calls := 0
	repo := &mockProjectRepo{
		listDueFunc: func(ctx context.Context, hour, minute int) ([]*model.Project, error) {
			calls++
			return nil, nil
		},
	}
	s := newTestScheduler(repo, &mockNotifier{})

	now := time.Date(2024, 11, 1, 9, 0, 0, 0, time.Local)
	if err := s.RunOnce(context.Background(), now); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	// 같은 분의 두 번째 호출은 조회하지 않는다
	if err := s.RunOnce(context.Background(), now.Add(10*time.Second)); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("repository queried %d times, want 1", calls)
	}

	// 다음 분에는 다시 조회한다
	if err := s.RunOnce(context.Background(), now.Add(time.Minute)); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("repository queried %d times, want 2", calls)
	}
}

func TestRunOnceContinuesAfterNotifyError(t *testing.T) {
	repo := &mockProjectRepo{
		listDueFunc: func(ctx context.Context, hour, minute int) ([]*model.Project, error) {
			return []*model.Project{{ID: 1}, {ID: 2}}, nil
		},
	}
	notifier := &mockNotifier{err: errors.New("push channel down")}
	s := newTestScheduler(repo, notifier)

	// 개별 발송 실패는 사이클 전체를 실패시키지 않는다
	if err := s.RunOnce(context.Background(), time.Now()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
}
