package repository

import (
	"context"
	"testing"

	"github.com/ansmoon/bbogle/internal/model"
)

// 각 Postgres 리포지토리가 인터페이스를 만족하는 것을 검증
func TestPostgresRepos_ImplementInterfaces(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
	var _ ProjectRepository = (*PostgresProjectRepo)(nil)
	var _ DiaryRepository = (*PostgresDiaryRepo)(nil)
	var _ QuestionRepository = (*PostgresQuestionRepo)(nil)
	var _ ActivityRepository = (*PostgresActivityRepo)(nil)
	var _ KeywordRepository = (*PostgresKeywordRepo)(nil)
}

// 생성자가 nil이 아닌 인스턴스를 반환하는 것을 검증
func TestNewPostgresRepos_Initialize(t *testing.T) {
	if NewPostgresUserRepo(nil) == nil {
		t.Fatal("expected non-nil user repo")
	}
	if NewPostgresProjectRepo(nil) == nil {
		t.Fatal("expected non-nil project repo")
	}
	if NewPostgresDiaryRepo(nil) == nil {
		t.Fatal("expected non-nil diary repo")
	}
	if NewPostgresActivityRepo(nil) == nil {
		t.Fatal("expected non-nil activity repo")
	}
	if NewPostgresKeywordRepo(nil) == nil {
		t.Fatal("expected non-nil keyword repo")
	}
}

// nullableProjectID가 0을 NULL로 변환하는 것을 검증
func TestNullableProjectID(t *testing.T) {
	if got := nullableProjectID(0); got.Valid {
		t.Error("project ID 0 should map to NULL")
	}
	got := nullableProjectID(42)
	if !got.Valid || got.Int64 != 42 {
		t.Errorf("nullableProjectID(42) = %+v, want valid 42", got)
	}
}

// FindByIDs는 빈 입력에 대해 쿼리 없이 nil을 반환하는 것을 검증
func TestKeywordRepo_FindByIDs_EmptyInput(t *testing.T) {
	repo := NewPostgresKeywordRepo(nil)

	keywords, err := repo.FindByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("FindByIDs() error = %v", err)
	}
	if keywords != nil {
		t.Errorf("FindByIDs() = %v, want nil", keywords)
	}
}

// 검색 조건 구조체의 제로값이 전체 조회를 의미하는 것을 검증
func TestActivitySearchCond_ZeroValueMeansAll(t *testing.T) {
	cond := model.ActivitySearchCond{}
	if cond.Word != "" || len(cond.Keywords) != 0 || len(cond.Projects) != 0 {
		t.Error("zero value should represent an unfiltered search")
	}
}
