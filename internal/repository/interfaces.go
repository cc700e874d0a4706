// Package repository 는 데이터 영속화 인터페이스를 정의한다.
package repository

import (
	"context"

	"github.com/ansmoon/bbogle/internal/model"
)

// UserRepository 는 회원 데이터의 영속화 인터페이스.
// 카카오 OAuth subject(kakao_id)와 내부 회원 레코드의 매핑을 담당한다.
type UserRepository interface {
	// FindByID 는 지정 ID의 회원을 조회한다. 없으면 nil을 반환한다.
	FindByID(ctx context.Context, id int) (*model.User, error)

	// FindByKakaoID 는 카카오 subject 식별자로 회원을 조회한다. 없으면 nil을 반환한다.
	FindByKakaoID(ctx context.Context, kakaoID int64) (*model.User, error)

	// Create 는 회원을 생성하고 발번된 내부 ID를 채워 넣는다.
	Create(ctx context.Context, user *model.User) error

	// UpdateNickname 은 회원의 닉네임을 변경한다.
	UpdateNickname(ctx context.Context, id int, nickname string) error

	// UpdateProfileImage 는 회원의 프로필 이미지를 변경한다.
	UpdateProfileImage(ctx context.Context, id int, profileImage string) error

	// DeleteByID 는 지정 ID의 회원을 삭제한다.
	// 연관된 projects, diaries, activities는 CASCADE로 삭제된다.
	DeleteByID(ctx context.Context, id int) error
}

// ProjectRepository 는 프로젝트 데이터의 영속화 인터페이스.
type ProjectRepository interface {
	// Create 는 프로젝트와 역할/스킬 리스트를 동일 트랜잭션으로 생성한다.
	Create(ctx context.Context, project *model.Project) error

	// FindByID 는 지정 ID의 프로젝트를 역할/스킬 리스트와 함께 조회한다.
	// 없으면 nil을 반환한다.
	FindByID(ctx context.Context, id int) (*model.Project, error)

	// ListByUserID 는 회원의 전체 프로젝트를 최신 생성순으로 반환한다.
	ListByUserID(ctx context.Context, userID int) ([]*model.Project, error)

	// ListInProgressByUserID 는 회원의 진행중 프로젝트만 반환한다.
	ListInProgressByUserID(ctx context.Context, userID int) ([]*model.Project, error)

	// Update 는 프로젝트 기본 정보와 역할/스킬 리스트를 동일 트랜잭션으로 갱신한다.
	Update(ctx context.Context, project *model.Project) error

	// End 는 프로젝트 상태를 종료로 변경하고 AI 회고 요약을 저장한다.
	End(ctx context.Context, id int, summary string) error

	// UpdateNotification 은 알림 ON/OFF 상태를 변경한다.
	UpdateNotification(ctx context.Context, id int, status bool) error

	// Delete 는 지정 ID의 프로젝트를 삭제한다.
	// 연관된 diaries, project_roles, project_skills는 CASCADE로 삭제된다.
	Delete(ctx context.Context, id int) error

	// ListDueForNotification 은 알림이 켜진 진행중 프로젝트 중
	// 알림 시각이 지정 시/분과 일치하는 것을 반환한다. 알림 워커에서 사용한다.
	ListDueForNotification(ctx context.Context, hour, minute int) ([]*model.Project, error)
}

// DiaryRepository 는 개발일지 데이터의 영속화 인터페이스.
type DiaryRepository interface {
	// Create 는 개발일지와 답변들을 동일 트랜잭션으로 생성한다.
	Create(ctx context.Context, diary *model.Diary) error

	// FindByID 는 지정 ID의 개발일지를 답변들과 함께 조회한다. 없으면 nil을 반환한다.
	FindByID(ctx context.Context, id int) (*model.Diary, error)

	// ListByProjectID 는 프로젝트의 개발일지를 최신 작성순으로 반환한다.
	ListByProjectID(ctx context.Context, projectID int) ([]*model.Diary, error)

	// Update 는 개발일지 제목과 답변들을 동일 트랜잭션으로 갱신한다.
	Update(ctx context.Context, diary *model.Diary) error

	// Delete 는 지정 ID의 개발일지를 삭제한다. 답변들은 CASCADE로 삭제된다.
	Delete(ctx context.Context, id int) error
}

// QuestionRepository 는 개발일지 질문의 조회 인터페이스.
// 질문은 마이그레이션으로 시딩되는 읽기 전용 데이터이다.
type QuestionRepository interface {
	// ListAll 은 전체 질문을 ID 순으로 반환한다.
	ListAll(ctx context.Context) ([]*model.Question, error)
}

// ActivityRepository 는 경험 데이터의 영속화 인터페이스.
type ActivityRepository interface {
	// Create 는 경험과 키워드 연결을 동일 트랜잭션으로 생성한다.
	Create(ctx context.Context, activity *model.Activity) error

	// FindByID 는 지정 ID의 경험을 키워드와 함께 조회한다. 없으면 nil을 반환한다.
	FindByID(ctx context.Context, id int) (*model.Activity, error)

	// Search 는 검색 조건(검색어, 키워드 ID, 프로젝트 ID)에 맞는 회원의 경험을 반환한다.
	// 조건이 모두 비어 있으면 전체 조회가 된다.
	Search(ctx context.Context, userID int, cond model.ActivitySearchCond) ([]*model.Activity, error)

	// ListByProjectID 는 특정 프로젝트에 연결된 회원의 경험을 반환한다.
	ListByProjectID(ctx context.Context, userID, projectID int) ([]*model.Activity, error)

	// Update 는 경험 정보와 키워드 연결을 동일 트랜잭션으로 갱신한다.
	Update(ctx context.Context, activity *model.Activity) error

	// Delete 는 지정 ID의 경험을 삭제한다. 키워드 연결은 CASCADE로 삭제된다.
	Delete(ctx context.Context, id int) error
}

// KeywordRepository 는 경험 키워드의 조회 인터페이스.
type KeywordRepository interface {
	// ListAll 은 전체 키워드를 ID 순으로 반환한다.
	ListAll(ctx context.Context) ([]*model.Keyword, error)

	// FindByIDs 는 지정된 ID 집합의 키워드를 반환한다. 존재하지 않는 ID는 무시된다.
	FindByIDs(ctx context.Context, ids []int) ([]*model.Keyword, error)
}
