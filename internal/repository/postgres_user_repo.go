package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ansmoon/bbogle/internal/model"
)

// PostgresUserRepo 는 PostgreSQL을 사용한 회원 리포지토리.
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo 는 PostgresUserRepo를 생성한다.
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID 는 지정 ID의 회원을 조회한다. 없으면 nil을 반환한다.
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, kakao_id, nickname, email, profile_image, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.KakaoID, &user.Nickname, &user.Email, &user.ProfileImage, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// FindByKakaoID 는 카카오 subject 식별자로 회원을 조회한다. 없으면 nil을 반환한다.
func (r *PostgresUserRepo) FindByKakaoID(ctx context.Context, kakaoID int64) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, kakao_id, nickname, email, profile_image, created_at, updated_at
		 FROM users WHERE kakao_id = $1`,
		kakaoID,
	).Scan(&user.ID, &user.KakaoID, &user.Nickname, &user.Email, &user.ProfileImage, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by kakao ID: %w", err)
	}

	return user, nil
}

// Create 는 회원을 생성하고 발번된 내부 ID를 채워 넣는다.
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (kakao_id, nickname, email, profile_image)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		user.KakaoID, user.Nickname, user.Email, user.ProfileImage,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// UpdateNickname 은 회원의 닉네임을 변경한다.
func (r *PostgresUserRepo) UpdateNickname(ctx context.Context, id int, nickname string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET nickname = $1, updated_at = now() WHERE id = $2`,
		nickname, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update nickname: %w", err)
	}
	return requireRowsAffected(result, "user", id)
}

// UpdateProfileImage 는 회원의 프로필 이미지를 변경한다.
func (r *PostgresUserRepo) UpdateProfileImage(ctx context.Context, id int, profileImage string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET profile_image = $1, updated_at = now() WHERE id = $2`,
		profileImage, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile image: %w", err)
	}
	return requireRowsAffected(result, "user", id)
}

// DeleteByID 는 지정 ID의 회원을 삭제한다.
// 연관된 projects, diaries, activities는 CASCADE로 삭제된다.
func (r *PostgresUserRepo) DeleteByID(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRowsAffected(result, "user", id)
}

// requireRowsAffected 는 변경된 행이 0건이면 not found 에러를 반환한다.
func requireRowsAffected(result sql.Result, entity string, id int) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s not found: %d", entity, id)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
