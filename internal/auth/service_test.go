package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ansmoon/bbogle/internal/model"
	"github.com/ansmoon/bbogle/internal/session"
)

type mockOAuthProvider struct {
	getLoginURLFunc  func(state string) string
	exchangeCodeFunc func(ctx context.Context, code string) (*Principal, error)
}

func (m *mockOAuthProvider) GetLoginURL(state string) string {
	return m.getLoginURLFunc(state)
}

func (m *mockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*Principal, error) {
	return m.exchangeCodeFunc(ctx, code)
}

type mockUserRepo struct {
	findByIDFunc           func(ctx context.Context, id int) (*model.User, error)
	findByKakaoIDFunc      func(ctx context.Context, kakaoID int64) (*model.User, error)
	createFunc             func(ctx context.Context, user *model.User) error
	updateNicknameFunc     func(ctx context.Context, id int, nickname string) error
	updateProfileImageFunc func(ctx context.Context, id int, profileImage string) error
	deleteByIDFunc         func(ctx context.Context, id int) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockUserRepo) FindByKakaoID(ctx context.Context, kakaoID int64) (*model.User, error) {
	return m.findByKakaoIDFunc(ctx, kakaoID)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.createFunc(ctx, user)
}

func (m *mockUserRepo) UpdateNickname(ctx context.Context, id int, nickname string) error {
	return m.updateNicknameFunc(ctx, id, nickname)
}

func (m *mockUserRepo) UpdateProfileImage(ctx context.Context, id int, profileImage string) error {
	return m.updateProfileImageFunc(ctx, id, profileImage)
}

func (m *mockUserRepo) DeleteByID(ctx context.Context, id int) error {
	return m.deleteByIDFunc(ctx, id)
}

type mockIssuer struct {
	issueAccessFunc  func(subject string) (string, error)
	issueRefreshFunc func(subject string) (string, error)
	refreshValidity  time.Duration
	parseSubjectFunc func(tokenStr string) (string, error)
}

func (m *mockIssuer) IssueAccess(subject string) (string, error) {
	return m.issueAccessFunc(subject)
}

func (m *mockIssuer) IssueRefresh(subject string) (string, error) {
	return m.issueRefreshFunc(subject)
}

func (m *mockIssuer) RefreshTokenValidity() time.Duration {
	return m.refreshValidity
}

func (m *mockIssuer) ParseSubject(tokenStr string) (string, error) {
	return m.parseSubjectFunc(tokenStr)
}

type mockRefreshStore struct {
	saveRefreshFunc   func(ctx context.Context, subject, refreshToken string, ttl time.Duration) error
	getRefreshFunc    func(ctx context.Context, subject string) (string, error)
	deleteRefreshFunc func(ctx context.Context, subject string) error
}

func (m *mockRefreshStore) SaveRefresh(ctx context.Context, subject, refreshToken string, ttl time.Duration) error {
	return m.saveRefreshFunc(ctx, subject, refreshToken, ttl)
}

func (m *mockRefreshStore) GetRefresh(ctx context.Context, subject string) (string, error) {
	return m.getRefreshFunc(ctx, subject)
}

func (m *mockRefreshStore) DeleteRefresh(ctx context.Context, subject string) error {
	return m.deleteRefreshFunc(ctx, subject)
}

func TestCompleteLogin(t *testing.T) {
	user := &model.User{ID: 7, KakaoID: 12345, Nickname: "뽀글"}

	userRepo := &mockUserRepo{
		findByKakaoIDFunc: func(ctx context.Context, kakaoID int64) (*model.User, error) {
			if kakaoID != 12345 {
				return nil, nil
			}
			return user, nil
		},
	}

	var savedSubject, savedToken string
	var savedTTL time.Duration
	store := &mockRefreshStore{
		saveRefreshFunc: func(ctx context.Context, subject, refreshToken string, ttl time.Duration) error {
			savedSubject = subject
			savedToken = refreshToken
			savedTTL = ttl
			return nil
		},
	}

	issuer := &mockIssuer{
		issueAccessFunc: func(subject string) (string, error) {
			return "access-" + subject, nil
		},
		issueRefreshFunc: func(subject string) (string, error) {
			return "refresh-" + subject, nil
		},
		refreshValidity: 14 * 24 * time.Hour,
	}

	svc := NewService(nil, userRepo, issuer, store)

	pair, err := svc.CompleteLogin(context.Background(), &Principal{KakaoID: 12345})
	if err != nil {
		t.Fatalf("CompleteLogin() error = %v", err)
	}

	if pair.AccessToken != "access-12345" {
		t.Errorf("AccessToken = %q, want %q", pair.AccessToken, "access-12345")
	}
	if pair.RefreshToken != "refresh-12345" {
		t.Errorf("RefreshToken = %q, want %q", pair.RefreshToken, "refresh-12345")
	}

	// 저장소에는 subject 키로 리프레시 토큰이 유효 기간 TTL과 함께 기록되어야 한다
	if savedSubject != "12345" {
		t.Errorf("saved subject = %q, want %q", savedSubject, "12345")
	}
	if savedToken != "refresh-12345" {
		t.Errorf("saved token = %q, want %q", savedToken, "refresh-12345")
	}
	if savedTTL != 14*24*time.Hour {
		t.Errorf("saved TTL = %v, want %v", savedTTL, 14*24*time.Hour)
	}
}

func TestCompleteLoginUserNotProvisioned(t *testing.T) {
	userRepo := &mockUserRepo{
		findByKakaoIDFunc: func(ctx context.Context, kakaoID int64) (*model.User, error) {
			return nil, nil
		},
	}

	issued := false
	issuer := &mockIssuer{
		issueAccessFunc: func(subject string) (string, error) {
			issued = true
			return "access", nil
		},
		issueRefreshFunc: func(subject string) (string, error) {
			issued = true
			return "refresh", nil
		},
	}

	saved := false
	store := &mockRefreshStore{
		saveRefreshFunc: func(ctx context.Context, subject, refreshToken string, ttl time.Duration) error {
			saved = true
			return nil
		},
	}

	svc := NewService(nil, userRepo, issuer, store)

	_, err := svc.CompleteLogin(context.Background(), &Principal{KakaoID: 99999})
	if !errors.Is(err, ErrUserNotProvisioned) {
		t.Fatalf("CompleteLogin() error = %v, want ErrUserNotProvisioned", err)
	}

	// 실패 시 토큰 발급이나 저장소 기록이 일어나면 안 된다
	if issued {
		t.Error("token was issued for unprovisioned user")
	}
	if saved {
		t.Error("session store was written for unprovisioned user")
	}
}

func TestHandleCallbackRegistersNewUser(t *testing.T) {
	oauth := &mockOAuthProvider{
		exchangeCodeFunc: func(ctx context.Context, code string) (*Principal, error) {
			return &Principal{
				KakaoID:  54321,
				Nickname: "신규회원",
				Email:    "new@example.com",
			}, nil
		},
	}

	var created *model.User
	userRepo := &mockUserRepo{
		findByKakaoIDFunc: func(ctx context.Context, kakaoID int64) (*model.User, error) {
			if created != nil && created.KakaoID == kakaoID {
				return created, nil
			}
			return nil, nil
		},
		createFunc: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			created = user
			return nil
		},
	}

	issuer := &mockIssuer{
		issueAccessFunc:  func(subject string) (string, error) { return "access", nil },
		issueRefreshFunc: func(subject string) (string, error) { return "refresh", nil },
		refreshValidity:  time.Hour,
	}
	store := &mockRefreshStore{
		saveRefreshFunc: func(ctx context.Context, subject, refreshToken string, ttl time.Duration) error {
			return nil
		},
	}

	svc := NewService(oauth, userRepo, issuer, store)

	pair, err := svc.HandleCallback(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("HandleCallback() error = %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}

	if created == nil {
		t.Fatal("expected new user to be created")
	}
	if created.KakaoID != 54321 {
		t.Errorf("created KakaoID = %d, want 54321", created.KakaoID)
	}
	if created.Nickname != "신규회원" {
		t.Errorf("created Nickname = %q, want %q", created.Nickname, "신규회원")
	}
}

func TestHandleCallbackExchangeError(t *testing.T) {
	oauth := &mockOAuthProvider{
		exchangeCodeFunc: func(ctx context.Context, code string) (*Principal, error) {
			return nil, errors.New("token endpoint returned 400")
		},
	}

	svc := NewService(oauth, nil, nil, nil)

	if _, err := svc.HandleCallback(context.Background(), "bad-code"); err == nil {
		t.Fatal("expected error for failed code exchange")
	}
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		parseErr   error
		stored     string
		storeErr   error
		wantErr    bool
		wantErrIs  error
		wantAccess string
	}{
		{
			name:       "저장된 토큰과 일치하면 새 액세스 토큰 발급",
			token:      "refresh-ok",
			stored:     "refresh-ok",
			wantAccess: "access-12345",
		},
		{
			name:      "저장된 토큰과 다르면 거부",
			token:     "refresh-stale",
			stored:    "refresh-current",
			wantErr:   true,
			wantErrIs: ErrRefreshMismatch,
		},
		{
			name:      "저장소에 기록이 없으면 거부",
			token:     "refresh-ok",
			storeErr:  session.ErrRefreshNotFound,
			wantErr:   true,
			wantErrIs: session.ErrRefreshNotFound,
		},
		{
			name:     "서명 검증 실패 시 거부",
			token:    "garbage",
			parseErr: errors.New("invalid signature"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := &mockIssuer{
				parseSubjectFunc: func(tokenStr string) (string, error) {
					if tt.parseErr != nil {
						return "", tt.parseErr
					}
					return "12345", nil
				},
				issueAccessFunc: func(subject string) (string, error) {
					return "access-" + subject, nil
				},
			}
			store := &mockRefreshStore{
				getRefreshFunc: func(ctx context.Context, subject string) (string, error) {
					if tt.storeErr != nil {
						return "", tt.storeErr
					}
					return tt.stored, nil
				},
			}

			svc := NewService(nil, nil, issuer, store)

			access, err := svc.Refresh(context.Background(), tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.wantErrIs != nil && !errors.Is(err, tt.wantErrIs) {
					t.Errorf("error = %v, want %v", err, tt.wantErrIs)
				}
				return
			}
			if err != nil {
				t.Fatalf("Refresh() error = %v", err)
			}
			if access != tt.wantAccess {
				t.Errorf("access token = %q, want %q", access, tt.wantAccess)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	var deleted string
	store := &mockRefreshStore{
		deleteRefreshFunc: func(ctx context.Context, subject string) error {
			deleted = subject
			return nil
		},
	}

	svc := NewService(nil, nil, nil, store)

	if err := svc.Logout(context.Background(), "12345"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if deleted != "12345" {
		t.Errorf("deleted subject = %q, want %q", deleted, "12345")
	}
}
