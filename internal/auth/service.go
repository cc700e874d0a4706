// Package auth 는 카카오 OAuth 인증 플로우와 토큰 기반 세션 관리를 제공한다.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ansmoon/bbogle/internal/model"
	"github.com/ansmoon/bbogle/internal/repository"
	"github.com/ansmoon/bbogle/internal/session"
)

// ErrUserNotProvisioned 는 인증에 성공한 카카오 계정에 대응하는
// 내부 회원 레코드가 없는 경우 반환된다. 프로비저닝 버그이므로 복구 대상이 아니다.
var ErrUserNotProvisioned = errors.New("authenticated kakao account has no internal user record")

// ErrRefreshMismatch 는 제시된 리프레시 토큰이 세션 저장소의 기록과 다른 경우 반환된다.
var ErrRefreshMismatch = errors.New("refresh token does not match stored record")

// OAuthProvider 는 OAuth 인증 제공자의 인터페이스.
type OAuthProvider interface {
	// GetLoginURL 은 OAuth 인증 URL을 생성한다.
	GetLoginURL(state string) string
	// ExchangeCode 는 인가 코드를 토큰으로 교환하고 타입 확정된 주체 정보를 반환한다.
	ExchangeCode(ctx context.Context, code string) (*Principal, error)
}

// TokenIssuer 는 자격증명 발급자의 인터페이스.
// internal/token.Issuer가 구현한다.
type TokenIssuer interface {
	IssueAccess(subject string) (string, error)
	IssueRefresh(subject string) (string, error)
	RefreshTokenValidity() time.Duration
	ParseSubject(tokenStr string) (string, error)
}

// RefreshStore 는 세션 저장소의 인터페이스.
// internal/session.Store가 구현한다.
type RefreshStore interface {
	SaveRefresh(ctx context.Context, subject, refreshToken string, ttl time.Duration) error
	GetRefresh(ctx context.Context, subject string) (string, error)
	DeleteRefresh(ctx context.Context, subject string) error
}

// TokenPair 는 로그인 완료 시 발급되는 자격증명 쌍.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service 는 인증 비즈니스 로직을 제공한다.
// 토큰 발급자와 세션 저장소는 프로세스 기동 시 생성되어 생성자로 주입된다.
type Service struct {
	oauth    OAuthProvider
	userRepo repository.UserRepository
	issuer   TokenIssuer
	store    RefreshStore
}

// NewService 는 Service를 생성한다.
func NewService(
	oauth OAuthProvider,
	userRepo repository.UserRepository,
	issuer TokenIssuer,
	store RefreshStore,
) *Service {
	return &Service{
		oauth:    oauth,
		userRepo: userRepo,
		issuer:   issuer,
		store:    store,
	}
}

// GetLoginURL 은 OAuth 인증 URL을 생성한다.
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// HandleCallback 은 OAuth 콜백을 처리하고 자격증명 쌍을 발급한다.
// 미가입 카카오 계정이면 회원 레코드를 먼저 생성한 뒤 로그인을 완료한다.
func (s *Service) HandleCallback(ctx context.Context, code string) (*TokenPair, error) {
	principal, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	if err := s.registerIfAbsent(ctx, principal); err != nil {
		return nil, err
	}

	return s.CompleteLogin(ctx, principal)
}

// CompleteLogin 은 인증 완료 플로우를 실행한다.
//  1. 카카오 ID를 내부 회원으로 해석한다. 없으면 프로비저닝 오류로 즉시 실패하며
//     이후 단계(토큰 발급, 저장소 기록)는 수행하지 않는다.
//  2. subject로 스코프된 액세스/리프레시 자격증명을 발급한다.
//  3. 리프레시 자격증명을 subject 키로 세션 저장소에 기록한다.
//     TTL은 리프레시 자격증명의 유효 기간과 같고, 기존 기록은 덮어쓴다.
func (s *Service) CompleteLogin(ctx context.Context, principal *Principal) (*TokenPair, error) {
	user, err := s.userRepo.FindByKakaoID(ctx, principal.KakaoID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: kakao_id=%d", ErrUserNotProvisioned, principal.KakaoID)
	}

	subject := strconv.FormatInt(user.KakaoID, 10)

	accessToken, err := s.issuer.IssueAccess(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refreshToken, err := s.issuer.IssueRefresh(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if err := s.store.SaveRefresh(ctx, subject, refreshToken, s.issuer.RefreshTokenValidity()); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	slog.Info("로그인 완료",
		slog.String("subject", subject),
		slog.Int("user_id", user.ID),
	)

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh 는 리프레시 자격증명으로 새 액세스 자격증명을 발급한다.
// 토큰 서명/만료 검증에 실패하거나, 세션 저장소의 기록이 없거나,
// 제시된 토큰이 기록과 다르면 에러를 반환한다.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	subject, err := s.issuer.ParseSubject(refreshToken)
	if err != nil {
		return "", fmt.Errorf("invalid refresh token: %w", err)
	}

	stored, err := s.store.GetRefresh(ctx, subject)
	if err != nil {
		if errors.Is(err, session.ErrRefreshNotFound) {
			return "", fmt.Errorf("%w: subject=%s", session.ErrRefreshNotFound, subject)
		}
		return "", fmt.Errorf("failed to load stored refresh token: %w", err)
	}
	if stored != refreshToken {
		return "", ErrRefreshMismatch
	}

	accessToken, err := s.issuer.IssueAccess(subject)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}

	slog.Info("액세스 토큰 재발급", slog.String("subject", subject))

	return accessToken, nil
}

// Logout 은 subject의 리프레시 기록을 세션 저장소에서 제거한다.
func (s *Service) Logout(ctx context.Context, subject string) error {
	if err := s.store.DeleteRefresh(ctx, subject); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	slog.Info("로그아웃 완료", slog.String("subject", subject))
	return nil
}

// registerIfAbsent 는 최초 로그인한 카카오 계정의 회원 레코드를 생성한다.
// 이미 가입된 계정이면 아무것도 하지 않는다.
func (s *Service) registerIfAbsent(ctx context.Context, principal *Principal) error {
	user, err := s.userRepo.FindByKakaoID(ctx, principal.KakaoID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user != nil {
		return nil
	}

	newUser := &model.User{
		KakaoID:      principal.KakaoID,
		Nickname:     principal.Nickname,
		Email:        principal.Email,
		ProfileImage: principal.ProfileImage,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("신규 회원 가입",
		slog.Int64("kakao_id", principal.KakaoID),
		slog.Int("user_id", newUser.ID),
	)
	return nil
}
