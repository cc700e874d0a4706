// Package user 는 회원 관리의 도메인 로직을 제공한다.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ansmoon/bbogle/internal/model"
	"github.com/ansmoon/bbogle/internal/repository"
)

// SessionRevoker 는 회원의 리프레시 기록 삭제 인터페이스.
// session.Store의 부분집합으로 정의한다.
type SessionRevoker interface {
	DeleteRefresh(ctx context.Context, subject string) error
}

// Service 는 회원 관리의 서비스 레이어.
// 내 정보 조회, 프로필 변경, 탈퇴 처리의 비즈니스 로직을 제공한다.
type Service struct {
	userRepo repository.UserRepository
	revoker  SessionRevoker
}

// NewService 는 Service의 새 인스턴스를 생성한다.
func NewService(userRepo repository.UserRepository, revoker SessionRevoker) *Service {
	return &Service{
		userRepo: userRepo,
		revoker:  revoker,
	}
}

// GetMe 는 인증된 회원 본인의 정보를 반환한다.
func (s *Service) GetMe(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("회원 조회에 실패했습니다: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// UpdateNickname 은 회원의 닉네임을 변경한다.
func (s *Service) UpdateNickname(ctx context.Context, userID int, nickname string) (*model.User, error) {
	if _, err := s.GetMe(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateNickname(ctx, userID, nickname); err != nil {
		return nil, fmt.Errorf("닉네임 변경에 실패했습니다: %w", err)
	}
	return s.GetMe(ctx, userID)
}

// UpdateProfileImage 는 회원의 프로필 이미지를 변경한다.
func (s *Service) UpdateProfileImage(ctx context.Context, userID int, profileImage string) (*model.User, error) {
	if _, err := s.GetMe(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateProfileImage(ctx, userID, profileImage); err != nil {
		return nil, fmt.Errorf("프로필 이미지 변경에 실패했습니다: %w", err)
	}
	return s.GetMe(ctx, userID)
}

// Withdraw 는 회원의 탈퇴 처리를 실행한다.
// 세션 저장소의 리프레시 기록을 먼저 무효화한 뒤 회원 레코드를 삭제한다.
// 연관된 projects, diaries, activities는 CASCADE로 삭제된다.
func (s *Service) Withdraw(ctx context.Context, userID int) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("회원 조회에 실패했습니다: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("탈퇴 처리 시작",
		slog.Int("user_id", userID),
		slog.Int64("kakao_id", user.KakaoID),
	)

	subject := strconv.FormatInt(user.KakaoID, 10)
	if err := s.revoker.DeleteRefresh(ctx, subject); err != nil {
		return fmt.Errorf("세션 무효화에 실패했습니다: %w", err)
	}

	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("회원 삭제에 실패했습니다: %w", err)
	}

	slog.Info("탈퇴 처리 완료", slog.Int("user_id", userID))
	return nil
}
