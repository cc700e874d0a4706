// Package token 은 접근/리프레시 자격증명(JWT)의 발급과 검증을 제공한다.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken 은 서명 검증 또는 만료 검사에 실패한 토큰에 대해 반환된다.
var ErrInvalidToken = errors.New("invalid token")

// Config 는 토큰 발급자의 설정.
// 기동 시 1회 구성되어 이후 불변으로 취급한다.
type Config struct {
	// Secret 은 HS256 서명 키. 비어 있으면 발급자 생성이 실패한다.
	Secret []byte
	// AccessExpire 는 액세스 토큰의 유효 기간.
	AccessExpire time.Duration
	// RefreshExpire 는 리프레시 토큰의 유효 기간.
	// 세션 저장소의 TTL로도 사용된다.
	RefreshExpire time.Duration
}

// Issuer 는 카카오 subject 식별자를 대상으로 서명된 토큰을 발급한다.
// 프로세스 기동 시 한 번 생성해 핸들러에 명시적으로 주입한다.
type Issuer struct {
	config Config
}

// NewIssuer 는 Issuer를 생성한다.
// 서명 키가 비어 있으면 에러를 반환한다. 잘못된 키 구성으로
// 무효한 자격증명이 조용히 발급되는 것을 막기 위한 검사이다.
func NewIssuer(config Config) (*Issuer, error) {
	if len(config.Secret) == 0 {
		return nil, errors.New("token: signing secret is required")
	}
	if config.AccessExpire <= 0 || config.RefreshExpire <= 0 {
		return nil, errors.New("token: token validity must be positive")
	}
	return &Issuer{config: config}, nil
}

// IssueAccess 는 subject를 담은 액세스 토큰을 발급한다.
func (i *Issuer) IssueAccess(subject string) (string, error) {
	return i.issue(subject, i.config.AccessExpire)
}

// IssueRefresh 는 subject를 담은 리프레시 토큰을 발급한다.
func (i *Issuer) IssueRefresh(subject string) (string, error) {
	return i.issue(subject, i.config.RefreshExpire)
}

// RefreshTokenValidity 는 리프레시 토큰의 유효 기간을 반환한다.
// 세션 저장소 기록의 TTL로 사용한다.
func (i *Issuer) RefreshTokenValidity() time.Duration {
	return i.config.RefreshExpire
}

// ParseSubject 는 토큰의 서명과 만료를 검증하고 subject 클레임을 반환한다.
// 검증에 실패하면 ErrInvalidToken을 감싼 에러를 반환한다.
func (i *Issuer) ParseSubject(tokenStr string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	claims := &jwt.RegisteredClaims{}
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.config.Secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// issue 는 지정 유효 기간의 서명 토큰을 생성한다.
// 서명 실패는 키 구성 오류를 의미하므로 재시도 없이 그대로 전파한다.
func (i *Issuer) issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.config.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
