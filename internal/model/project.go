package model

import "time"

// ProjectStatus 는 프로젝트의 진행 상태를 표현한다.
type ProjectStatus string

const (
	// ProjectStatusInProgress 는 진행중인 프로젝트를 나타낸다.
	ProjectStatusInProgress ProjectStatus = "in_progress"
	// ProjectStatusEnded 는 종료된 프로젝트를 나타낸다.
	ProjectStatusEnded ProjectStatus = "ended"
)

// Project 는 회원이 수행한 작업 단위(프로젝트)를 표현한다.
// Roles와 Skills는 문자열 리스트로 요청/응답되며 별도 테이블에 정규화되어 저장된다.
type Project struct {
	ID          int
	UserID      int
	Title       string
	Image       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	MemberCount int
	Roles       []string
	Skills      []string
	Status      ProjectStatus

	// 알림 설정: Status가 켜짐일 때 NotificationTime(시, 분)에 개발일지 작성 알림을 보낸다.
	NotificationStatus bool
	NotificationTime   NotificationTime

	// 프로젝트 종료 시 저장되는 AI 회고 요약
	Summary string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NotificationTime 은 알림 시각을 시/분 단위로 표현한다.
// 초 이하 단위는 사용하지 않는다.
type NotificationTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}
