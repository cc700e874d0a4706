package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ansmoon/bbogle/internal/model"
)

// mockUserService 는 UserServiceInterface의 모의 구현.
type mockUserService struct {
	getMeFn              func(ctx context.Context, userID int) (*model.User, error)
	updateNicknameFn     func(ctx context.Context, userID int, nickname string) (*model.User, error)
	updateProfileImageFn func(ctx context.Context, userID int, profileImage string) (*model.User, error)
	withdrawFn           func(ctx context.Context, userID int) error
}

func (m *mockUserService) GetMe(ctx context.Context, userID int) (*model.User, error) {
	if m.getMeFn != nil {
		return m.getMeFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockUserService) UpdateNickname(ctx context.Context, userID int, nickname string) (*model.User, error) {
	if m.updateNicknameFn != nil {
		return m.updateNicknameFn(ctx, userID, nickname)
	}
	return nil, nil
}

func (m *mockUserService) UpdateProfileImage(ctx context.Context, userID int, profileImage string) (*model.User, error) {
	if m.updateProfileImageFn != nil {
		return m.updateProfileImageFn(ctx, userID, profileImage)
	}
	return nil, nil
}

func (m *mockUserService) Withdraw(ctx context.Context, userID int) error {
	if m.withdrawFn != nil {
		return m.withdrawFn(ctx, userID)
	}
	return nil
}

func TestUserHandler_GetMe(t *testing.T) {
	svc := &mockUserService{
		getMeFn: func(ctx context.Context, userID int) (*model.User, error) {
			if userID != 7 {
				t.Errorf("userID = %d, want 7", userID)
			}
			return &model.User{ID: 7, Nickname: "뽀글이", Email: "bbogle@example.com"}, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req = withUserID(req, 7)
	w := httptest.NewRecorder()

	h.GetMe(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp userResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Nickname != "뽀글이" {
		t.Errorf("nickname = %q, want %q", resp.Nickname, "뽀글이")
	}
}

func TestUserHandler_GetMe_Unauthorized(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()

	h.GetMe(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestUserHandler_UpdateNickname(t *testing.T) {
	svc := &mockUserService{
		updateNicknameFn: func(ctx context.Context, userID int, nickname string) (*model.User, error) {
			if nickname != "새닉네임" {
				t.Errorf("nickname = %q, want %q", nickname, "새닉네임")
			}
			return &model.User{ID: userID, Nickname: nickname}, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/users/nickname", bytes.NewBufferString(`{"nickname":"새닉네임"}`))
	req = withUserID(req, 7)
	w := httptest.NewRecorder()

	h.UpdateNickname(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestUserHandler_UpdateNickname_Empty(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodPatch, "/api/users/nickname", bytes.NewBufferString(`{"nickname":""}`))
	req = withUserID(req, 7)
	w := httptest.NewRecorder()

	h.UpdateNickname(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUserHandler_Withdraw(t *testing.T) {
	var withdrawn int
	svc := &mockUserService{
		withdrawFn: func(ctx context.Context, userID int) error {
			withdrawn = userID
			return nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/users", nil)
	req = withUserID(req, 7)
	w := httptest.NewRecorder()

	h.Withdraw(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if withdrawn != 7 {
		t.Errorf("withdrawn userID = %d, want 7", withdrawn)
	}
}
