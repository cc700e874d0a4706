package user

import (
	"context"
	"errors"
	"testing"

	"github.com/ansmoon/bbogle/internal/model"
)

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

type mockRevoker struct {
	deleteRefreshFunc func(ctx context.Context, subject string) error
}

func (m *mockRevoker) DeleteRefresh(ctx context.Context, subject string) error {
	return m.deleteRefreshFunc(ctx, subject)
}

func TestGetMe(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id int) (*model.User, error) {
			if id != 7 {
				return nil, nil
			}
			return &model.User{ID: 7, Nickname: "뽀글"}, nil
		},
	}
	svc := NewService(repo, nil)

	user, err := svc.GetMe(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetMe() error = %v", err)
	}
	if user.Nickname != "뽀글" {
		t.Errorf("Nickname = %q, want %q", user.Nickname, "뽀글")
	}

	_, err = svc.GetMe(context.Background(), 404)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("GetMe(404) error = %v, want USER_NOT_FOUND", err)
	}
}

func TestUpdateNickname(t *testing.T) {
	nickname := "처음"
	repo := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id int) (*model.User, error) {
			return &model.User{ID: id, Nickname: nickname}, nil
		},
		updateNicknameFunc: func(ctx context.Context, id int, newNickname string) error {
			nickname = newNickname
			return nil
		},
	}
	svc := NewService(repo, nil)

	user, err := svc.UpdateNickname(context.Background(), 7, "바뀐닉네임")
	if err != nil {
		t.Fatalf("UpdateNickname() error = %v", err)
	}
	if user.Nickname != "바뀐닉네임" {
		t.Errorf("Nickname = %q, want %q", user.Nickname, "바뀐닉네임")
	}
}

func TestWithdrawRevokesSessionThenDeletes(t *testing.T) {
	var order []string
	repo := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id int) (*model.User, error) {
			return &model.User{ID: id, KakaoID: 12345}, nil
		},
		deleteByIDFunc: func(ctx context.Context, id int) error {
			order = append(order, "delete_user")
			return nil
		},
	}
	revoker := &mockRevoker{
		deleteRefreshFunc: func(ctx context.Context, subject string) error {
			if subject != "12345" {
				t.Errorf("subject = %q, want %q", subject, "12345")
			}
			order = append(order, "revoke_session")
			return nil
		},
	}
	svc := NewService(repo, revoker)

	if err := svc.Withdraw(context.Background(), 7); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}

	// 세션 무효화가 회원 삭제보다 먼저 수행되어야 한다
	if len(order) != 2 || order[0] != "revoke_session" || order[1] != "delete_user" {
		t.Errorf("order = %v, want [revoke_session delete_user]", order)
	}
}

func TestWithdrawUnknownUser(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id int) (*model.User, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, nil)

	err := svc.Withdraw(context.Background(), 404)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("Withdraw() error = %v, want USER_NOT_FOUND", err)
	}
}
