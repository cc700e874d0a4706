package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ansmoon/bbogle/internal/middleware"
	"github.com/ansmoon/bbogle/internal/model"
)

// UserServiceInterface 는 회원 핸들러가 필요로 하는 서비스 인터페이스.
type UserServiceInterface interface {
	GetMe(ctx context.Context, userID int) (*model.User, error)
	UpdateNickname(ctx context.Context, userID int, nickname string) (*model.User, error)
	UpdateProfileImage(ctx context.Context, userID int, profileImage string) (*model.User, error)
	Withdraw(ctx context.Context, userID int) error
}

// UserHandler 는 회원 정보 관련 HTTP 핸들러.
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler 는 UserHandler를 생성한다.
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// updateNicknameRequest 는 닉네임 변경 요청 본문.
type updateNicknameRequest struct {
	Nickname string `json:"nickname"`
}

// updateProfileImageRequest 는 프로필 이미지 변경 요청 본문.
type updateProfileImageRequest struct {
	ProfileImage string `json:"profileImage"`
}

// userResponse 는 회원 정보 API 응답.
type userResponse struct {
	ID           int    `json:"id"`
	Nickname     string `json:"nickname"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:           user.ID,
		Nickname:     user.Nickname,
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
	}
}

// GetMe 는 로그인한 회원 본인의 정보를 조회한다.
// GET /api/users
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	user, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(user))
}

// UpdateNickname 은 닉네임을 변경한다.
// PATCH /api/users/nickname
func (h *UserHandler) UpdateNickname(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req updateNicknameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}
	if req.Nickname == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	user, err := h.service.UpdateNickname(r.Context(), userID, req.Nickname)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(user))
}

// UpdateProfileImage 는 프로필 이미지를 변경한다.
// PATCH /api/users/profile-image
func (h *UserHandler) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req updateProfileImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	user, err := h.service.UpdateProfileImage(r.Context(), userID, req.ProfileImage)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(user))
}

// Withdraw 는 회원 탈퇴를 처리한다. 세션 무효화 후 회원 데이터를 삭제한다.
// DELETE /api/users
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.service.Withdraw(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
