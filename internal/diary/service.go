// Package diary 는 개발일지 관리의 도메인 로직을 제공한다.
package diary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ansmoon/bbogle/internal/model"
	"github.com/ansmoon/bbogle/internal/repository"
	"github.com/ansmoon/bbogle/internal/security"
)

// Service 는 개발일지 관리의 서비스 레이어.
// 일지는 항상 프로젝트에 속하므로 소유권 확인은 프로젝트를 경유한다.
type Service struct {
	diaryRepo    repository.DiaryRepository
	projectRepo  repository.ProjectRepository
	questionRepo repository.QuestionRepository
	sanitizer    security.ContentSanitizerService
}

// NewService 는 Service의 새 인스턴스를 생성한다.
func NewService(
	diaryRepo repository.DiaryRepository,
	projectRepo repository.ProjectRepository,
	questionRepo repository.QuestionRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		diaryRepo:    diaryRepo,
		projectRepo:  projectRepo,
		questionRepo: questionRepo,
		sanitizer:    sanitizer,
	}
}

// Create 는 프로젝트에 새 개발일지를 생성한다.
// 종료된 프로젝트에는 일지를 작성할 수 없다.
func (s *Service) Create(ctx context.Context, userID, projectID int, diary *model.Diary) (*model.Diary, error) {
	project, err := s.findOwnedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status == model.ProjectStatusEnded {
		return nil, model.NewProjectEndedError(projectID)
	}

	diary.ProjectID = projectID
	s.sanitizeAnswers(diary)

	if err := s.diaryRepo.Create(ctx, diary); err != nil {
		return nil, fmt.Errorf("개발일지 생성에 실패했습니다: %w", err)
	}

	slog.Info("개발일지 작성",
		slog.Int("user_id", userID),
		slog.Int("project_id", projectID),
		slog.Int("diary_id", diary.ID),
	)
	return diary, nil
}

// ListByProject 는 프로젝트의 개발일지를 최신 작성순으로 반환한다.
func (s *Service) ListByProject(ctx context.Context, userID, projectID int) ([]*model.Diary, error) {
	if _, err := s.findOwnedProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	diaries, err := s.diaryRepo.ListByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("개발일지 목록 조회에 실패했습니다: %w", err)
	}
	return diaries, nil
}

// Get 은 회원 소유 프로젝트의 개발일지 하나를 답변과 함께 조회한다.
func (s *Service) Get(ctx context.Context, userID, diaryID int) (*model.Diary, error) {
	return s.findOwned(ctx, userID, diaryID)
}

// Update 는 개발일지 제목과 답변들을 갱신한다.
func (s *Service) Update(ctx context.Context, userID int, diary *model.Diary) (*model.Diary, error) {
	existing, err := s.findOwned(ctx, userID, diary.ID)
	if err != nil {
		return nil, err
	}

	diary.ProjectID = existing.ProjectID
	s.sanitizeAnswers(diary)

	if err := s.diaryRepo.Update(ctx, diary); err != nil {
		return nil, fmt.Errorf("개발일지 수정에 실패했습니다: %w", err)
	}

	return s.findOwned(ctx, userID, diary.ID)
}

// Delete 는 개발일지를 삭제한다.
func (s *Service) Delete(ctx context.Context, userID, diaryID int) error {
	if _, err := s.findOwned(ctx, userID, diaryID); err != nil {
		return err
	}

	if err := s.diaryRepo.Delete(ctx, diaryID); err != nil {
		return fmt.Errorf("개발일지 삭제에 실패했습니다: %w", err)
	}
	return nil
}

// ListQuestions 는 개발일지 작성 화면에 표시되는 고정 질문을 반환한다.
func (s *Service) ListQuestions(ctx context.Context) ([]*model.Question, error) {
	questions, err := s.questionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("질문 목록 조회에 실패했습니다: %w", err)
	}
	return questions, nil
}

// findOwned 는 개발일지를 조회하고 프로젝트 소유권까지 확인한다.
func (s *Service) findOwned(ctx context.Context, userID, diaryID int) (*model.Diary, error) {
	diary, err := s.diaryRepo.FindByID(ctx, diaryID)
	if err != nil {
		return nil, fmt.Errorf("개발일지 조회에 실패했습니다: %w", err)
	}
	if diary == nil {
		return nil, model.NewDiaryNotFoundError(diaryID)
	}

	if _, err := s.findOwnedProject(ctx, userID, diary.ProjectID); err != nil {
		// 프로젝트 소유권이 없으면 일지 존재 여부도 숨긴다
		return nil, model.NewDiaryNotFoundError(diaryID)
	}
	return diary, nil
}

// findOwnedProject 는 프로젝트 조회와 소유권 확인을 수행한다.
func (s *Service) findOwnedProject(ctx context.Context, userID, projectID int) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("프로젝트 조회에 실패했습니다: %w", err)
	}
	if project == nil || project.UserID != userID {
		return nil, model.NewProjectNotFoundError(projectID)
	}
	return project, nil
}

// sanitizeAnswers 는 저장 전에 모든 답변 본문을 새니타이즈한다.
func (s *Service) sanitizeAnswers(diary *model.Diary) {
	for i := range diary.Answers {
		diary.Answers[i].Answer = s.sanitizer.Sanitize(diary.Answers[i].Answer)
	}
}
