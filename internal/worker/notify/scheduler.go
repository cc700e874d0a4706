// Package notify 는 개발일지 작성 알림의 백그라운드 처리를 제공한다.
// 1분 간격 티커로 알림 시각이 도래한 프로젝트를 찾아 알림을 발송한다.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/ansmoon/bbogle/internal/metrics"
	"github.com/ansmoon/bbogle/internal/model"
	"github.com/ansmoon/bbogle/internal/repository"
)

// Notifier 는 알림 발송의 인터페이스.
// 실제 푸시 채널(웹 푸시 등) 연동은 이 인터페이스 뒤에 둔다.
type Notifier interface {
	// Notify 는 프로젝트 소유 회원에게 개발일지 작성 알림을 보낸다.
	Notify(ctx context.Context, project *model.Project) error
}

// LogNotifier 는 알림을 구조화 로그로 기록하는 기본 구현.
type LogNotifier struct{}

// Notify 는 알림 내용을 로그로 남긴다.
func (LogNotifier) Notify(ctx context.Context, project *model.Project) error {
	slog.Info("개발일지 작성 알림",
		slog.Int("user_id", project.UserID),
		slog.Int("project_id", project.ID),
		slog.String("project_title", project.Title),
	)
	return nil
}

// Scheduler 는 분 단위로 알림 대상 프로젝트를 찾아 알림을 발송한다.
// 같은 분에 중복 실행되지 않도록 마지막 실행 시각(시/분)을 기억한다.
type Scheduler struct {
	projectRepo repository.ProjectRepository
	notifier    Notifier
	metrics     metrics.MetricsCollector
	logger      *slog.Logger

	lastHour   int
	lastMinute int
	ran        bool
}

// NewScheduler 는 Scheduler의 새 인스턴스를 생성한다.
func NewScheduler(
	projectRepo repository.ProjectRepository,
	notifier Notifier,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		projectRepo: projectRepo,
		notifier:    notifier,
		metrics:     collector,
		logger:      logger,
	}
}

// Start 는 지정 간격의 티커로 스케줄러를 기동한다.
// 컨텍스트 취소까지 실행을 계속한다.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("알림 스케줄러 시작",
		slog.Duration("interval", interval),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("알림 스케줄러 중지")
			return
		case now := <-ticker.C:
			if err := s.RunOnce(ctx, now); err != nil {
				s.logger.Error("알림 사이클 실행 실패",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce 는 현재 시각(시/분)과 알림 시각이 일치하는 진행중 프로젝트를 찾아
// 알림을 발송한다. 같은 분에 두 번 호출되면 두 번째는 건너뛴다.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) error {
	hour, minute := now.Hour(), now.Minute()
	if s.ran && s.lastHour == hour && s.lastMinute == minute {
		return nil
	}
	s.lastHour, s.lastMinute = hour, minute
	s.ran = true

	projects, err := s.projectRepo.ListDueForNotification(ctx, hour, minute)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		return nil
	}

	s.logger.Info("알림 대상 프로젝트 발견",
		slog.Int("count", len(projects)),
		slog.Int("hour", hour),
		slog.Int("minute", minute),
	)

	for _, project := range projects {
		if err := s.notifier.Notify(ctx, project); err != nil {
			s.logger.Error("알림 발송 실패",
				slog.Int("project_id", project.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		s.metrics.RecordNotificationSent()
	}

	return nil
}

// compile-time interface check
var _ Notifier = LogNotifier{}
