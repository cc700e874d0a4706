package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig 는 레이트 리밋 설정을 보관한다.
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // API 전반의 레이트(req/sec). 120/60 = 2 req/sec
	GeneralBurst    int           // API 전반의 버스트 크기
	AIJobRate       rate.Limit    // AI 요약/추출 요청의 레이트(req/sec). 10/60
	AIJobBurst      int           // AI 요약/추출 요청의 버스트 크기
	CleanupInterval time.Duration // 만료 엔트리 정리 간격
}

// DefaultRateLimiterConfig 는 기본 레이트 리밋 설정을 반환한다.
// API 전반 120 req/min/user, AI 작업 발행 10 req/min/user.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(120.0 / 60.0), // 2 req/sec
		GeneralBurst:    120,
		AIJobRate:       rate.Limit(10.0 / 60.0), // ~0.167 req/sec
		AIJobBurst:      10,
		CleanupInterval: 5 * time.Minute,
	}
}

// userLimiter 는 회원별 레이트 리미터와 마지막 접근 시각을 보관한다.
type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter 는 회원별 레이트 리밋을 관리한다.
// API 전반 리밋과 AI 작업 발행 리밋의 두 가지를 제공한다.
type RateLimiter struct {
	config RateLimiterConfig

	generalMu       sync.RWMutex
	generalLimiters map[int]*userLimiter

	aiJobMu       sync.RWMutex
	aiJobLimiters map[int]*userLimiter

	stopCh chan struct{}
}

// NewRateLimiter 는 새 RateLimiter를 생성한다.
// 백그라운드에서 만료 엔트리 정리를 시작한다.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:          config,
		generalLimiters: make(map[int]*userLimiter),
		aiJobLimiters:   make(map[int]*userLimiter),
		stopCh:          make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop 은 정리용 백그라운드 고루틴을 중지한다.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GeneralMiddleware 는 API 전반의 레이트 리밋 미들웨어를 반환한다.
// 요청 컨텍스트에 회원 ID가 있어야 한다(인증 미들웨어 뒤에 배치).
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := UserIDFromContext(r.Context())
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			limiter := rl.getOrCreateGeneralLimiter(userID)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.GeneralRate)
				slog.Warn("rate limit exceeded",
					slog.Int("user_id", userID),
					slog.String("limit_type", "general"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AIJobMiddleware 는 AI 요약/경험 추출 요청 전용 레이트 리밋 미들웨어를 반환한다.
// API 전반 리밋과는 독립적으로 동작한다.
func (rl *RateLimiter) AIJobMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := UserIDFromContext(r.Context())
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			limiter := rl.getOrCreateAIJobLimiter(userID)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.AIJobRate)
				slog.Warn("rate limit exceeded",
					slog.Int("user_id", userID),
					slog.String("limit_type", "ai_job"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GeneralLimiterCount 는 현재 관리 중인 API 전반 리미터 엔트리 수를 반환한다.
// 테스트와 메트릭 용도.
func (rl *RateLimiter) GeneralLimiterCount() int {
	rl.generalMu.RLock()
	defer rl.generalMu.RUnlock()
	return len(rl.generalLimiters)
}

// AIJobLimiterCount 는 현재 관리 중인 AI 작업 리미터 엔트리 수를 반환한다.
// 테스트와 메트릭 용도.
func (rl *RateLimiter) AIJobLimiterCount() int {
	rl.aiJobMu.RLock()
	defer rl.aiJobMu.RUnlock()
	return len(rl.aiJobLimiters)
}

// getOrCreateGeneralLimiter 는 회원의 API 전반 리미터를 조회하거나 생성한다.
func (rl *RateLimiter) getOrCreateGeneralLimiter(userID int) *rate.Limiter {
	rl.generalMu.RLock()
	ul, exists := rl.generalLimiters[userID]
	rl.generalMu.RUnlock()

	if exists {
		rl.generalMu.Lock()
		ul.lastAccess = time.Now()
		rl.generalMu.Unlock()
		return ul.limiter
	}

	rl.generalMu.Lock()
	defer rl.generalMu.Unlock()

	// 더블 체크
	if ul, exists := rl.generalLimiters[userID]; exists {
		ul.lastAccess = time.Now()
		return ul.limiter
	}

	limiter := rate.NewLimiter(rl.config.GeneralRate, rl.config.GeneralBurst)
	rl.generalLimiters[userID] = &userLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// getOrCreateAIJobLimiter 는 회원의 AI 작업 리미터를 조회하거나 생성한다.
func (rl *RateLimiter) getOrCreateAIJobLimiter(userID int) *rate.Limiter {
	rl.aiJobMu.RLock()
	ul, exists := rl.aiJobLimiters[userID]
	rl.aiJobMu.RUnlock()

	if exists {
		rl.aiJobMu.Lock()
		ul.lastAccess = time.Now()
		rl.aiJobMu.Unlock()
		return ul.limiter
	}

	rl.aiJobMu.Lock()
	defer rl.aiJobMu.Unlock()

	// 더블 체크
	if ul, exists := rl.aiJobLimiters[userID]; exists {
		ul.lastAccess = time.Now()
		return ul.limiter
	}

	limiter := rate.NewLimiter(rl.config.AIJobRate, rl.config.AIJobBurst)
	rl.aiJobLimiters[userID] = &userLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// cleanupLoop 는 백그라운드에서 만료 엔트리를 주기적으로 정리한다.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup 은 마지막 접근 시각이 CleanupInterval의 2배를 넘은 엔트리를 삭제한다.
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2

	now := time.Now()

	rl.generalMu.Lock()
	for userID, ul := range rl.generalLimiters {
		if now.Sub(ul.lastAccess) > ttl {
			delete(rl.generalLimiters, userID)
		}
	}
	rl.generalMu.Unlock()

	rl.aiJobMu.Lock()
	for userID, ul := range rl.aiJobLimiters {
		if now.Sub(ul.lastAccess) > ttl {
			delete(rl.aiJobLimiters, userID)
		}
	}
	rl.aiJobMu.Unlock()
}

// writeRateLimitResponse 는 429 Too Many Requests 응답을 기록한다.
// Retry-After 헤더에는 토큰 보충까지의 추정 초를 설정한다.
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	// 토큰 1개가 보충될 때까지의 초
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(map[string]string{
		"code":     "RATE_LIMIT_EXCEEDED",
		"message":  "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요.",
		"category": "system",
		"action":   "안내된 시간 이후에 다시 시도해 주세요.",
	})
}
