package model

import "time"

// KeywordType 은 경험 키워드의 분류를 표현한다.
type KeywordType int

const (
	// KeywordTypeSkill 은 기술 키워드(0)를 나타낸다.
	KeywordTypeSkill KeywordType = 0
	// KeywordTypeSoft 는 인성 키워드(1)를 나타낸다.
	KeywordTypeSoft KeywordType = 1
)

// Keyword 는 경험에 부착되는 태그를 표현한다.
type Keyword struct {
	ID   int
	Name string
	Type KeywordType
}

// Activity 는 이력서에 활용 가능한 경험 블록을 표현한다.
// 프로젝트에서 추출되거나 회원이 수동으로 등록하며,
// 키워드와 다대다 관계를 가진다. ProjectID는 0이면 미연결을 의미한다.
type Activity struct {
	ID        int
	UserID    int
	Title     string
	Content   string
	StartDate time.Time
	EndDate   time.Time
	ProjectID int
	Keywords  []Keyword
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActivitySearchCond 는 경험 전체 조회의 검색 조건을 표현한다.
// Word가 빈 문자열이고 Keywords, Projects가 모두 비어 있으면 전체 조회가 된다.
type ActivitySearchCond struct {
	Word     string
	Keywords []int
	Projects []int
}
