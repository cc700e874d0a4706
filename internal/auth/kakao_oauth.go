package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultKakaoAuthURL     = "https://kauth.kakao.com/oauth/authorize"
	defaultKakaoTokenURL    = "https://kauth.kakao.com/oauth/token"
	defaultKakaoUserInfoURL = "https://kapi.kakao.com/v2/user/me"
)

// ErrInvalidPrincipal 은 카카오가 반환한 사용자 정보에서
// 숫자 subject 식별자(id)를 읽을 수 없는 경우 반환된다.
var ErrInvalidPrincipal = errors.New("invalid kakao principal")

// KakaoOAuthConfig 는 카카오 OAuth 제공자의 설정.
type KakaoOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// 테스트용으로 오버라이드 가능한 URL
	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// KakaoOAuthProvider 는 카카오 OAuth 2.0 인증을 제공한다.
type KakaoOAuthProvider struct {
	config KakaoOAuthConfig
}

// NewKakaoOAuthProvider 는 KakaoOAuthProvider를 생성한다.
func NewKakaoOAuthProvider(config KakaoOAuthConfig) *KakaoOAuthProvider {
	if config.AuthURL == "" {
		config.AuthURL = defaultKakaoAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultKakaoTokenURL
	}
	if config.UserInfoURL == "" {
		config.UserInfoURL = defaultKakaoUserInfoURL
	}
	return &KakaoOAuthProvider{config: config}
}

// GetLoginURL 은 카카오 OAuth 인증 URL을 생성한다.
func (p *KakaoOAuthProvider) GetLoginURL(state string) string {
	params := url.Values{
		"client_id":     {p.config.ClientID},
		"redirect_uri":  {p.config.RedirectURL},
		"response_type": {"code"},
		"state":         {state},
	}
	return p.config.AuthURL + "?" + params.Encode()
}

// kakaoTokenResponse 는 카카오 토큰 엔드포인트의 응답.
type kakaoTokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// kakaoUserInfo 는 카카오 사용자 정보 엔드포인트의 응답.
// 문자열 키의 동적 속성 맵 대신 필요한 필드만 타입으로 받는다.
type kakaoUserInfo struct {
	ID           json.Number       `json:"id"`
	KakaoAccount kakaoAccountField `json:"kakao_account"`
}

type kakaoAccountField struct {
	Email   string            `json:"email"`
	Profile kakaoProfileField `json:"profile"`
}

type kakaoProfileField struct {
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profile_image_url"`
}

// Principal 은 카카오 인증 완료 후의 타입 확정된 주체 정보를 표현한다.
type Principal struct {
	// KakaoID 는 카카오가 발급한 숫자 subject 식별자.
	KakaoID int64
	// Nickname, Email, ProfileImage 는 최초 가입 시 회원 레코드 생성에 사용된다.
	Nickname     string
	Email        string
	ProfileImage string
}

// ExchangeCode 는 인가 코드를 액세스 토큰으로 교환하고 사용자 정보를 조회한다.
// subject 식별자가 없거나 숫자가 아니면 ErrInvalidPrincipal을 감싼 에러를 반환한다.
func (p *KakaoOAuthProvider) ExchangeCode(ctx context.Context, code string) (*Principal, error) {
	tokenResp, err := p.exchangeToken(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	userInfo, err := p.fetchUserInfo(ctx, tokenResp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}

	return parsePrincipal(userInfo)
}

// parsePrincipal 은 카카오 응답을 타입 확정된 Principal로 변환한다.
// id 필드 부재 또는 비숫자 값은 즉시 실패한다.
func parsePrincipal(userInfo *kakaoUserInfo) (*Principal, error) {
	if userInfo.ID == "" {
		return nil, fmt.Errorf("%w: missing id field", ErrInvalidPrincipal)
	}
	kakaoID, err := userInfo.ID.Int64()
	if err != nil {
		return nil, fmt.Errorf("%w: id is not an integer: %q", ErrInvalidPrincipal, userInfo.ID.String())
	}
	if kakaoID <= 0 {
		return nil, fmt.Errorf("%w: non-positive id: %d", ErrInvalidPrincipal, kakaoID)
	}

	return &Principal{
		KakaoID:      kakaoID,
		Nickname:     userInfo.KakaoAccount.Profile.Nickname,
		Email:        userInfo.KakaoAccount.Email,
		ProfileImage: userInfo.KakaoAccount.Profile.ProfileImageURL,
	}, nil
}

// exchangeToken 은 인가 코드를 액세스 토큰으로 교환한다.
func (p *KakaoOAuthProvider) exchangeToken(ctx context.Context, code string) (*kakaoTokenResponse, error) {
	data := url.Values{
		"code":          {code},
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"redirect_uri":  {p.config.RedirectURL},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp kakaoTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("empty access token in response")
	}

	return &tokenResp, nil
}

// fetchUserInfo 는 액세스 토큰으로 카카오 사용자 정보를 조회한다.
func (p *KakaoOAuthProvider) fetchUserInfo(ctx context.Context, accessToken string) (*kakaoUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user info request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo kakaoUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, fmt.Errorf("failed to parse user info response: %w", err)
	}

	return &userInfo, nil
}

// compile-time interface check
var _ OAuthProvider = (*KakaoOAuthProvider)(nil)
