// Package model 은 도메인 모델을 정의한다.
package model

import "time"

// User 는 서비스 이용 회원을 표현한다.
// KakaoID는 카카오 OAuth 제공자가 발급한 외부 식별자이며,
// 토큰의 subject 클레임에는 KakaoID의 10진수 문자열 표현이 들어간다.
type User struct {
	ID           int
	KakaoID      int64
	Nickname     string
	Email        string
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
