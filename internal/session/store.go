// Package session 은 회원별 활성 리프레시 자격증명을 보관하는
// Redis 기반 세션 저장소를 제공한다.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRefreshNotFound 는 subject에 대한 리프레시 기록이 없거나 만료된 경우 반환된다.
var ErrRefreshNotFound = errors.New("refresh token not found")

const refreshKeyPrefix = "refresh:"

// Store 는 subject(카카오 ID 문자열)별로 단일 리프레시 토큰을 보관한다.
// 같은 subject에 대한 저장은 이전 기록을 덮어쓴다(단일 활성 세션 정책).
// 동시 로그인 간 순서는 보장하지 않으며 키 단위 last-write-wins로 동작한다.
type Store struct {
	client *redis.Client
}

// NewStore 는 Store를 생성한다.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// SaveRefresh 는 subject의 리프레시 토큰을 지정 TTL로 저장한다.
// 기존 기록이 있으면 덮어쓴다. 저장소 장애는 그대로 전파한다.
func (s *Store) SaveRefresh(ctx context.Context, subject, refreshToken string, ttl time.Duration) error {
	if err := s.client.Set(ctx, refreshKey(subject), refreshToken, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// GetRefresh 는 subject의 리프레시 토큰을 조회한다.
// 기록이 없거나 만료된 경우 ErrRefreshNotFound를 반환한다.
func (s *Store) GetRefresh(ctx context.Context, subject string) (string, error) {
	val, err := s.client.Get(ctx, refreshKey(subject)).Result()
	if err == redis.Nil {
		return "", ErrRefreshNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	return val, nil
}

// DeleteRefresh 는 subject의 리프레시 기록을 삭제한다.
// 기록이 없어도 에러 없이 반환한다(멱등).
func (s *Store) DeleteRefresh(ctx context.Context, subject string) error {
	if err := s.client.Del(ctx, refreshKey(subject)).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func refreshKey(subject string) string {
	return refreshKeyPrefix + subject
}
