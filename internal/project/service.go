// Package project 는 프로젝트 관리의 도메인 로직을 제공한다.
package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ansmoon/bbogle/internal/model"
	"github.com/ansmoon/bbogle/internal/repository"
)

// Service 는 프로젝트 관리의 서비스 레이어.
// 생성, 조회, 수정, 종료, 알림 설정, 삭제의 비즈니스 로직을 제공한다.
// 모든 조회와 변경은 인증된 회원 소유의 프로젝트로 한정된다.
type Service struct {
	projectRepo repository.ProjectRepository
}

// NewService 는 Service의 새 인스턴스를 생성한다.
func NewService(projectRepo repository.ProjectRepository) *Service {
	return &Service{projectRepo: projectRepo}
}

// Create 는 회원의 새 프로젝트를 진행중 상태로 생성한다.
func (s *Service) Create(ctx context.Context, userID int, project *model.Project) (*model.Project, error) {
	project.UserID = userID
	project.Status = model.ProjectStatusInProgress

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("프로젝트 생성에 실패했습니다: %w", err)
	}

	slog.Info("프로젝트 생성",
		slog.Int("user_id", userID),
		slog.Int("project_id", project.ID),
	)
	return project, nil
}

// List 는 회원의 전체 프로젝트를 반환한다.
func (s *Service) List(ctx context.Context, userID int) ([]*model.Project, error) {
	projects, err := s.projectRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("프로젝트 목록 조회에 실패했습니다: %w", err)
	}
	return projects, nil
}

// ListInProgress 는 회원의 진행중 프로젝트만 반환한다.
func (s *Service) ListInProgress(ctx context.Context, userID int) ([]*model.Project, error) {
	projects, err := s.projectRepo.ListInProgressByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("진행중 프로젝트 조회에 실패했습니다: %w", err)
	}
	return projects, nil
}

// Get 은 회원 소유의 프로젝트 하나를 조회한다.
// 존재하지 않거나 다른 회원 소유이면 NotFound를 반환한다.
func (s *Service) Get(ctx context.Context, userID, projectID int) (*model.Project, error) {
	return s.findOwned(ctx, userID, projectID)
}

// Update 는 프로젝트 기본 정보와 역할/스킬 리스트를 갱신한다.
func (s *Service) Update(ctx context.Context, userID int, project *model.Project) (*model.Project, error) {
	existing, err := s.findOwned(ctx, userID, project.ID)
	if err != nil {
		return nil, err
	}

	// 상태와 요약은 이 경로로 변경하지 않는다
	project.UserID = existing.UserID
	project.Status = existing.Status
	project.Summary = existing.Summary

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("프로젝트 수정에 실패했습니다: %w", err)
	}

	return s.findOwned(ctx, userID, project.ID)
}

// End 는 프로젝트를 종료 상태로 전환하고 회고 요약을 저장한다.
// 이미 종료된 프로젝트에는 ProjectEnded 에러를 반환한다.
func (s *Service) End(ctx context.Context, userID, projectID int, summary string) error {
	project, err := s.findOwned(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if project.Status == model.ProjectStatusEnded {
		return model.NewProjectEndedError(projectID)
	}

	if err := s.projectRepo.End(ctx, projectID, summary); err != nil {
		return fmt.Errorf("프로젝트 종료에 실패했습니다: %w", err)
	}

	slog.Info("프로젝트 종료",
		slog.Int("user_id", userID),
		slog.Int("project_id", projectID),
	)
	return nil
}

// UpdateNotification 은 개발일지 작성 알림의 ON/OFF 상태를 토글한다.
func (s *Service) UpdateNotification(ctx context.Context, userID, projectID int, status bool) error {
	if _, err := s.findOwned(ctx, userID, projectID); err != nil {
		return err
	}

	if err := s.projectRepo.UpdateNotification(ctx, projectID, status); err != nil {
		return fmt.Errorf("알림 설정 변경에 실패했습니다: %w", err)
	}
	return nil
}

// Delete 는 프로젝트를 삭제한다. 연관 개발일지는 함께 삭제된다.
func (s *Service) Delete(ctx context.Context, userID, projectID int) error {
	if _, err := s.findOwned(ctx, userID, projectID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("프로젝트 삭제에 실패했습니다: %w", err)
	}

	slog.Info("프로젝트 삭제",
		slog.Int("user_id", userID),
		slog.Int("project_id", projectID),
	)
	return nil
}

// findOwned 는 프로젝트를 조회하고 소유권을 확인한다.
// 다른 회원 소유는 존재 여부를 노출하지 않도록 NotFound로 취급한다.
func (s *Service) findOwned(ctx context.Context, userID, projectID int) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("프로젝트 조회에 실패했습니다: %w", err)
	}
	if project == nil || project.UserID != userID {
		return nil, model.NewProjectNotFoundError(projectID)
	}
	return project, nil
}
