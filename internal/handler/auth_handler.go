package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/ansmoon/bbogle/internal/auth"
	"github.com/ansmoon/bbogle/internal/metrics"
	"github.com/ansmoon/bbogle/internal/middleware"
	"github.com/ansmoon/bbogle/internal/model"
)

const (
	refreshTokenCookieName = "refreshToken"
	accessTokenCookieName  = "accessToken"
	oauthStateCookieName   = "oauth_state"

	// refreshTokenMaxAge 는 리프레시 쿠키의 Max-Age(초).
	// 프론트엔드가 이 값에 맞춰 재로그인 시점을 판단하므로 바꾸면 안 된다.
	refreshTokenMaxAge = 5259400
)

// AuthServiceInterface 는 인증 핸들러가 필요로 하는 서비스 인터페이스.
type AuthServiceInterface interface {
	GetLoginURL(state string) string
	HandleCallback(ctx context.Context, code string) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, subject string) error
}

// AuthHandlerConfig 는 인증 핸들러의 설정.
type AuthHandlerConfig struct {
	// LoginSuccessRedirect 는 로그인 완료 후 이동할 프론트엔드 URL.
	LoginSuccessRedirect string
	CookieDomain         string
	CookieSecure         bool
}

// AuthHandler 는 카카오 OAuth 인증 관련 HTTP 핸들러.
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
	metrics metrics.MetricsCollector
}

// NewAuthHandler 는 AuthHandler를 생성한다.
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig, collector metrics.MetricsCollector) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
		metrics: collector,
	}
}

// Login 은 카카오 OAuth 플로우를 시작한다.
// GET /oauth2/authorization/kakao
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()

	// state를 쿠키에 보관(CSRF 대책)
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10분
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.service.GetLoginURL(state), http.StatusTemporaryRedirect)
}

// Callback 은 카카오 OAuth 콜백을 처리한다.
// GET /login/oauth2/code/kakao?code=xxx&state=yyy
//
// 인증 완료 시 두 개의 쿠키를 설정한다.
//   - refreshToken: HttpOnly, Secure, Path=/, Max-Age=5259400
//   - accessToken: Secure, Path=/, Max-Age 없음(세션 쿠키).
//     프론트엔드 스크립트가 읽어야 하므로 HttpOnly가 아니다.
//
// 이후 로그인 성공 URL에 login=true 쿼리를 덧붙여 리다이렉트한다.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	// 1. state 검증(CSRF 대책)
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		slog.Warn("oauth state mismatch", slog.String("query_state", state))
		h.metrics.RecordLoginFailure("state_mismatch")
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	// state 쿠키 제거
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	// 2. 인가 코드 확인
	code := r.URL.Query().Get("code")
	if code == "" {
		h.metrics.RecordLoginFailure("missing_code")
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	// 3. 인증 완료 처리. 실패 시 쿠키는 하나도 설정하지 않는다.
	pair, err := h.service.HandleCallback(r.Context(), code)
	if err != nil {
		slog.Error("oauth callback failed", slog.String("error", err.Error()))
		h.metrics.RecordLoginFailure("callback_failed")
		handleServiceError(w, err)
		return
	}

	// 4. 자격증명 쿠키 설정
	h.setTokenCookies(w, pair.AccessToken, pair.RefreshToken)

	h.metrics.RecordLoginSuccess()

	// 5. 성공 URL로 리다이렉트. 기존 쿼리 파라미터는 유지하고 login=true를 덧붙인다.
	http.Redirect(w, r, appendLoginParam(h.config.LoginSuccessRedirect), http.StatusFound)
}

// Refresh 는 리프레시 쿠키로 새 액세스 토큰을 발급한다.
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewInvalidRefreshError())
		return
	}

	accessToken, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		slog.Warn("token refresh rejected", slog.String("error", err.Error()))
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewInvalidRefreshError())
		return
	}

	h.metrics.RecordTokenRefresh()

	// 새 액세스 토큰을 쿠키와 본문 양쪽으로 전달한다
	http.SetCookie(w, h.accessTokenCookie(accessToken))
	writeJSONResponse(w, http.StatusOK, map[string]string{
		"accessToken": accessToken,
	})
}

// Logout 은 세션 저장소의 리프레시 기록을 무효화하고 쿠키를 삭제한다.
// POST /api/auth/logout (인증 필요)
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	subject, err := middleware.SubjectFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.service.Logout(r.Context(), subject); err != nil {
		handleServiceError(w, err)
		return
	}

	h.clearTokenCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// setTokenCookies 는 자격증명 쌍을 쿠키로 설정한다.
func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	// 리프레시 쿠키: 스크립트에서 접근 불가, 고정 Max-Age
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookieName,
		Value:    refreshToken,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   refreshTokenMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.SetCookie(w, h.accessTokenCookie(accessToken))
}

// accessTokenCookie 는 액세스 토큰 쿠키를 만든다.
// Max-Age를 지정하지 않는 세션 쿠키로, 브라우저 종료 시 사라진다.
func (h *AuthHandler) accessTokenCookie(accessToken string) *http.Cookie {
	return &http.Cookie{
		Name:     accessTokenCookieName,
		Value:    accessToken,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// clearTokenCookies 는 자격증명 쿠키를 모두 만료시킨다.
func (h *AuthHandler) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{refreshTokenCookieName, accessTokenCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   h.config.CookieDomain,
			MaxAge:   -1,
			Secure:   h.config.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// appendLoginParam 은 성공 URL에 login=true 쿼리를 덧붙인다.
// 기존 쿼리 파라미터는 그대로 유지한다. 해석 불가능한 URL이면 원문에 그대로 덧붙인다.
func appendLoginParam(successURL string) string {
	parsed, err := url.Parse(successURL)
	if err != nil {
		if parsedContainsQuery(successURL) {
			return successURL + "&login=true"
		}
		return successURL + "?login=true"
	}

	q := parsed.Query()
	q.Set("login", "true")
	parsed.RawQuery = q.Encode()
	return parsed.String()
}

func parsedContainsQuery(rawURL string) bool {
	for _, c := range rawURL {
		if c == '?' {
			return true
		}
	}
	return false
}
