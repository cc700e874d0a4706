package model

import "fmt"

// APIError 는 통일 에러 포맷을 표현한다.
// UI에 표시할 원인 카테고리와 대처 방법을 포함한다.
type APIError struct {
	Code     string // 에러 코드
	Message  string // 에러 메시지
	Category string // 카테고리: auth, validation, project, activity, diary, system
	Action   string // 사용자 대처 방법
}

// Error 는 error 인터페이스를 구현한다.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 정의된 에러 코드
const (
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeInvalidRefresh    = "INVALID_REFRESH_TOKEN"
	ErrCodeProjectNotFound   = "PROJECT_NOT_FOUND"
	ErrCodeDiaryNotFound     = "DIARY_NOT_FOUND"
	ErrCodeActivityNotFound  = "ACTIVITY_NOT_FOUND"
	ErrCodeKeywordNotFound   = "KEYWORD_NOT_FOUND"
	ErrCodeForbiddenResource = "FORBIDDEN_RESOURCE"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeProjectEnded      = "PROJECT_ALREADY_ENDED"
)

// NewUserNotFoundError 는 회원 미존재 에러를 생성한다.
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "회원 정보를 찾을 수 없습니다.",
		Category: "auth",
		Action:   "다시 로그인해 주세요.",
	}
}

// NewUnauthorizedError 는 인증 실패 에러를 생성한다.
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "인증이 필요합니다.",
		Category: "auth",
		Action:   "로그인해 주세요.",
	}
}

// NewInvalidRefreshError 는 리프레시 토큰 검증 실패 에러를 생성한다.
func NewInvalidRefreshError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRefresh,
		Message:  "리프레시 토큰이 유효하지 않습니다.",
		Category: "auth",
		Action:   "다시 로그인해 주세요.",
	}
}

// NewProjectNotFoundError 는 프로젝트 미존재 에러를 생성한다.
func NewProjectNotFoundError(projectID int) *APIError {
	return &APIError{
		Code:     ErrCodeProjectNotFound,
		Message:  fmt.Sprintf("프로젝트를 찾을 수 없습니다: %d", projectID),
		Category: "project",
		Action:   "프로젝트 ID를 확인해 주세요.",
	}
}

// NewDiaryNotFoundError 는 개발일지 미존재 에러를 생성한다.
func NewDiaryNotFoundError(diaryID int) *APIError {
	return &APIError{
		Code:     ErrCodeDiaryNotFound,
		Message:  fmt.Sprintf("개발일지를 찾을 수 없습니다: %d", diaryID),
		Category: "diary",
		Action:   "개발일지 ID를 확인해 주세요.",
	}
}

// NewActivityNotFoundError 는 경험 미존재 에러를 생성한다.
func NewActivityNotFoundError(activityID int) *APIError {
	return &APIError{
		Code:     ErrCodeActivityNotFound,
		Message:  fmt.Sprintf("경험을 찾을 수 없습니다: %d", activityID),
		Category: "activity",
		Action:   "경험 ID를 확인해 주세요.",
	}
}

// NewForbiddenResourceError 는 다른 회원의 자원에 접근한 경우의 에러를 생성한다.
func NewForbiddenResourceError() *APIError {
	return &APIError{
		Code:     ErrCodeForbiddenResource,
		Message:  "해당 자원에 대한 권한이 없습니다.",
		Category: "auth",
		Action:   "본인 소유의 자원인지 확인해 주세요.",
	}
}

// NewInvalidRequestError 는 요청 본문 해석 실패 에러를 생성한다.
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "요청 본문을 해석할 수 없습니다.",
		Category: "validation",
		Action:   "올바른 JSON 형식으로 요청해 주세요.",
	}
}

// NewProjectEndedError 는 이미 종료된 프로젝트에 대한 변경 요청 에러를 생성한다.
func NewProjectEndedError(projectID int) *APIError {
	return &APIError{
		Code:     ErrCodeProjectEnded,
		Message:  fmt.Sprintf("이미 종료된 프로젝트입니다: %d", projectID),
		Category: "project",
		Action:   "진행중인 프로젝트만 변경할 수 있습니다.",
	}
}
