package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrResultNotFound 는 작업 결과가 아직 없거나 만료된 경우 반환된다.
var ErrResultNotFound = errors.New("job result not found")

// resultKeyPrefix 는 Redis 키의 네임스페이스. 키 형식은 "job:<jobID>".
const resultKeyPrefix = "job:"

// resultTTL 은 작업 결과의 보관 기간. 클라이언트가 폴링으로 수거할 때까지만 유지한다.
const resultTTL = 24 * time.Hour

// ResultStore 는 AI 작업 결과를 correlation id 키로 보관하는 Redis 저장소.
// 응답 소비자가 기록하고 폴링 API가 조회한다.
type ResultStore struct {
	client *redis.Client
}

// NewResultStore 는 ResultStore를 생성한다.
func NewResultStore(client *redis.Client) *ResultStore {
	return &ResultStore{client: client}
}

// Save 는 작업 결과(JSON 원문)를 jobID 키로 기록한다.
// 같은 jobID의 기존 결과는 덮어쓴다.
func (s *ResultStore) Save(ctx context.Context, jobID string, result []byte) error {
	if err := s.client.Set(ctx, resultKeyPrefix+jobID, result, resultTTL).Err(); err != nil {
		return fmt.Errorf("failed to save job result: %w", err)
	}
	return nil
}

// Get 은 jobID의 작업 결과를 반환한다.
// 결과가 아직 없으면 ErrResultNotFound를 반환한다.
func (s *ResultStore) Get(ctx context.Context, jobID string) ([]byte, error) {
	result, err := s.client.Get(ctx, resultKeyPrefix+jobID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to load job result: %w", err)
	}
	return result, nil
}
