// Package middleware 는 HTTP 미들웨어를 제공한다.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ansmoon/bbogle/internal/model"
)

const accessTokenCookieName = "accessToken"

// contextKey 는 컨텍스트에 값을 저장하기 위한 타입 안전 키.
type contextKey string

// userIDContextKey 는 요청 컨텍스트에 내부 회원 ID를 저장하는 키.
var userIDContextKey = contextKey("user_id")

// subjectContextKey 는 요청 컨텍스트에 토큰 subject(카카오 ID 문자열)를 저장하는 키.
var subjectContextKey = contextKey("subject")

// SubjectParser 는 액세스 자격증명에서 subject를 추출하는 인터페이스.
// token.Issuer의 부분집합으로 정의한다.
type SubjectParser interface {
	ParseSubject(tokenStr string) (string, error)
}

// UserFinder 는 카카오 ID로 회원을 조회하는 인터페이스.
// repository.UserRepository의 부분집합으로 정의한다.
type UserFinder interface {
	FindByKakaoID(ctx context.Context, kakaoID int64) (*model.User, error)
}

// NewAuthMiddleware 는 accessToken 쿠키(또는 Authorization 헤더)의 JWT를 검증하고
// subject를 내부 회원으로 해석하는 미들웨어를 반환한다.
// 인증된 회원 ID를 요청 컨텍스트에 주입하고, 실패 시 401을 반환한다.
func NewAuthMiddleware(parser SubjectParser, userFinder UserFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. 쿠키 또는 헤더에서 액세스 토큰 추출
			tokenStr := extractAccessToken(r)
			if tokenStr == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 2. 서명과 만료 검증, subject 추출
			subject, err := parser.ParseSubject(tokenStr)
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			kakaoID, err := strconv.ParseInt(subject, 10, 64)
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 3. subject를 내부 회원으로 해석
			user, err := userFinder.FindByKakaoID(r.Context(), kakaoID)
			if err != nil {
				slog.Error("회원 조회 실패",
					slog.String("error", err.Error()),
					slog.Int64("kakao_id", kakaoID),
				)
				WriteInternalServerError(w)
				return
			}
			if user == nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUserNotFoundError())
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, user.ID)
			ctx = context.WithValue(ctx, subjectContextKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractAccessToken 은 accessToken 쿠키를 우선으로, 없으면
// Authorization: Bearer 헤더에서 토큰을 추출한다.
func extractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return token
	}
	return ""
}

// UserIDFromContext 는 요청 컨텍스트에서 인증된 회원 ID를 꺼낸다.
// 인증 미들웨어를 통과한 요청에서만 유효하다.
func UserIDFromContext(ctx context.Context) (int, error) {
	userID, ok := ctx.Value(userIDContextKey).(int)
	if !ok || userID == 0 {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID 는 컨텍스트에 회원 ID를 주입한다.
// 테스트나 미들웨어 바깥의 컨텍스트 생성에 사용한다.
func ContextWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// SubjectFromContext 는 요청 컨텍스트에서 토큰 subject를 꺼낸다.
// 인증 미들웨어를 통과한 요청에서만 유효하다.
func SubjectFromContext(ctx context.Context) (string, error) {
	subject, ok := ctx.Value(subjectContextKey).(string)
	if !ok || subject == "" {
		return "", fmt.Errorf("subject not found in context")
	}
	return subject, nil
}

// ContextWithSubject 는 컨텍스트에 토큰 subject를 주입한다.
func ContextWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectContextKey, subject)
}
