// Package activity 는 경험(이력서 소재) 관리의 도메인 로직을 제공한다.
package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ansmoon/bbogle/internal/model"
	"github.com/ansmoon/bbogle/internal/repository"
	"github.com/ansmoon/bbogle/internal/security"
)

// Service 는 경험 관리의 서비스 레이어.
// 수동 등록, 검색, 수정, 삭제와 프로젝트별 경험 조회를 제공한다.
type Service struct {
	activityRepo repository.ActivityRepository
	projectRepo  repository.ProjectRepository
	keywordRepo  repository.KeywordRepository
	sanitizer    security.ContentSanitizerService
}

// NewService 는 Service의 새 인스턴스를 생성한다.
func NewService(
	activityRepo repository.ActivityRepository,
	projectRepo repository.ProjectRepository,
	keywordRepo repository.KeywordRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		activityRepo: activityRepo,
		projectRepo:  projectRepo,
		keywordRepo:  keywordRepo,
		sanitizer:    sanitizer,
	}
}

// Create 는 회원의 새 경험을 등록한다.
// 프로젝트 연결이 지정된 경우 소유권을 확인하고,
// 키워드 ID들은 존재하는 것만 연결한다.
func (s *Service) Create(ctx context.Context, userID int, activity *model.Activity, keywordIDs []int) (*model.Activity, error) {
	if activity.ProjectID != 0 {
		if err := s.checkProjectOwned(ctx, userID, activity.ProjectID); err != nil {
			return nil, err
		}
	}

	keywords, err := s.resolveKeywords(ctx, keywordIDs)
	if err != nil {
		return nil, err
	}

	activity.UserID = userID
	activity.Keywords = keywords
	activity.Content = s.sanitizer.Sanitize(activity.Content)

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("경험 등록에 실패했습니다: %w", err)
	}

	slog.Info("경험 등록",
		slog.Int("user_id", userID),
		slog.Int("activity_id", activity.ID),
	)
	return activity, nil
}

// Search 는 검색 조건에 맞는 회원의 경험을 반환한다.
// 조건이 모두 비어 있으면 전체 조회가 된다.
func (s *Service) Search(ctx context.Context, userID int, cond model.ActivitySearchCond) ([]*model.Activity, error) {
	activities, err := s.activityRepo.Search(ctx, userID, cond)
	if err != nil {
		return nil, fmt.Errorf("경험 검색에 실패했습니다: %w", err)
	}
	return activities, nil
}

// ListByProject 는 특정 프로젝트에 연결된 회원의 경험을 반환한다.
func (s *Service) ListByProject(ctx context.Context, userID, projectID int) ([]*model.Activity, error) {
	if err := s.checkProjectOwned(ctx, userID, projectID); err != nil {
		return nil, err
	}

	activities, err := s.activityRepo.ListByProjectID(ctx, userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("프로젝트 경험 조회에 실패했습니다: %w", err)
	}
	return activities, nil
}

// Get 은 회원 소유의 경험 하나를 키워드와 함께 조회한다.
func (s *Service) Get(ctx context.Context, userID, activityID int) (*model.Activity, error) {
	return s.findOwned(ctx, userID, activityID)
}

// Update 는 경험 정보와 키워드 연결을 갱신한다.
func (s *Service) Update(ctx context.Context, userID int, activity *model.Activity, keywordIDs []int) (*model.Activity, error) {
	if _, err := s.findOwned(ctx, userID, activity.ID); err != nil {
		return nil, err
	}
	if activity.ProjectID != 0 {
		if err := s.checkProjectOwned(ctx, userID, activity.ProjectID); err != nil {
			return nil, err
		}
	}

	keywords, err := s.resolveKeywords(ctx, keywordIDs)
	if err != nil {
		return nil, err
	}

	activity.UserID = userID
	activity.Keywords = keywords
	activity.Content = s.sanitizer.Sanitize(activity.Content)

	if err := s.activityRepo.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("경험 수정에 실패했습니다: %w", err)
	}

	return s.findOwned(ctx, userID, activity.ID)
}

// Delete 는 경험을 삭제한다.
func (s *Service) Delete(ctx context.Context, userID, activityID int) error {
	if _, err := s.findOwned(ctx, userID, activityID); err != nil {
		return err
	}

	if err := s.activityRepo.Delete(ctx, activityID); err != nil {
		return fmt.Errorf("경험 삭제에 실패했습니다: %w", err)
	}
	return nil
}

// ListKeywords 는 경험에 부착할 수 있는 전체 키워드를 반환한다.
func (s *Service) ListKeywords(ctx context.Context) ([]*model.Keyword, error) {
	keywords, err := s.keywordRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("키워드 목록 조회에 실패했습니다: %w", err)
	}
	return keywords, nil
}

// findOwned 는 경험을 조회하고 소유권을 확인한다.
func (s *Service) findOwned(ctx context.Context, userID, activityID int) (*model.Activity, error) {
	activity, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("경험 조회에 실패했습니다: %w", err)
	}
	if activity == nil || activity.UserID != userID {
		return nil, model.NewActivityNotFoundError(activityID)
	}
	return activity, nil
}

// checkProjectOwned 는 프로젝트 존재와 소유권을 확인한다.
func (s *Service) checkProjectOwned(ctx context.Context, userID, projectID int) error {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("프로젝트 조회에 실패했습니다: %w", err)
	}
	if project == nil || project.UserID != userID {
		return model.NewProjectNotFoundError(projectID)
	}
	return nil
}

// resolveKeywords 는 키워드 ID들을 실제 키워드로 해석한다.
// 존재하지 않는 ID는 무시된다.
func (s *Service) resolveKeywords(ctx context.Context, keywordIDs []int) ([]model.Keyword, error) {
	if len(keywordIDs) == 0 {
		return nil, nil
	}

	found, err := s.keywordRepo.FindByIDs(ctx, keywordIDs)
	if err != nil {
		return nil, fmt.Errorf("키워드 조회에 실패했습니다: %w", err)
	}

	keywords := make([]model.Keyword, len(found))
	for i, kw := range found {
		keywords[i] = *kw
	}
	return keywords, nil
}
