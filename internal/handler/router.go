package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ansmoon/bbogle/internal/metrics"
	"github.com/ansmoon/bbogle/internal/middleware"
)

// HealthChecker 는 헬스체크에서 의존 시스템의 연결 상태를 확인하는 인터페이스.
// *sql.DB가 그대로 만족한다.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps 는 NewRouter에 필요한 의존성을 모은 구조체.
type RouterDeps struct {
	// 헬스체크
	HealthChecker HealthChecker

	// 미들웨어 의존성
	SubjectParser     middleware.SubjectParser
	UserFinder        middleware.UserFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 인증
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 도메인 서비스
	UserService     UserServiceInterface
	ProjectService  ProjectServiceInterface
	DiaryService    DiaryServiceInterface
	ActivityService ActivityServiceInterface
	SummaryService  SummaryServiceInterface

	// 메트릭
	Metrics  metrics.MetricsCollector
	Gatherer prometheus.Gatherer
}

// NewRouter 는 전체 API 엔드포인트의 라우팅과 미들웨어 체인을 구성한 chi.Router를 반환한다.
//
// 미들웨어 스택의 실행 순서:
//
//	Recovery → SecurityHeaders → CORS → Logging → Auth → RateLimit(General)
//
// OAuth 시작/콜백, 토큰 재발급, /metrics 는 인증 체인 밖에 둔다.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.Metrics)
	userHandler := NewUserHandler(deps.UserService)
	projectHandler := NewProjectHandler(deps.ProjectService)
	diaryHandler := NewDiaryHandler(deps.DiaryService)
	activityHandler := NewActivityHandler(deps.ActivityService)
	summaryHandler := NewSummaryHandler(deps.SummaryService)

	// --- 인증 불필요 라우트 ---

	// 카카오 OAuth 플로우
	r.Get("/oauth2/authorization/kakao", authHandler.Login)
	r.Get("/login/oauth2/code/kakao", authHandler.Callback)

	// 토큰 재발급은 리프레시 쿠키만으로 동작한다
	r.Post("/api/auth/refresh", authHandler.Refresh)

	// 헬스체크
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(r.Context()); err != nil {
				writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Prometheus 스크레이프
	r.Handle("/metrics", metrics.Handler(deps.Gatherer))

	// --- 인증 필요 라우트 ---
	// 미들웨어 스택: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.SubjectParser, deps.UserFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Post("/api/auth/logout", authHandler.Logout)

		// 회원
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", userHandler.GetMe)
			r.Patch("/nickname", userHandler.UpdateNickname)
			r.Patch("/profile-image", userHandler.UpdateProfileImage)
			r.Delete("/", userHandler.Withdraw)
		})

		// 프로젝트
		r.Route("/api/projects", func(r chi.Router) {
			r.Post("/", projectHandler.Create)
			r.Get("/", projectHandler.List)
			r.Get("/in-progress", projectHandler.ListInProgress)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", projectHandler.Get)
				r.Patch("/", projectHandler.Update)
				r.Delete("/", projectHandler.Delete)
				r.Patch("/end", projectHandler.End)
				r.Patch("/notification", projectHandler.UpdateNotification)

				// 프로젝트 하위의 개발일지/경험
				r.Post("/diaries", diaryHandler.Create)
				r.Get("/diaries", diaryHandler.ListByProject)
				r.Get("/activities", activityHandler.ListByProject)
				r.Post("/activities", activityHandler.CreateForProject)

				// AI 회고 요약 작업(전용 레이트 제한 추가)
				r.With(deps.RateLimiter.AIJobMiddleware()).Post("/retrospective", summaryHandler.RequestRetrospective)
			})
		})

		// 개발일지
		r.Route("/api/diaries/{id}", func(r chi.Router) {
			r.Get("/", diaryHandler.Get)
			r.Patch("/", diaryHandler.Update)
			r.Delete("/", diaryHandler.Delete)

			// AI 일지 요약 작업
			r.With(deps.RateLimiter.AIJobMiddleware()).Post("/summary", summaryHandler.RequestDiarySummary)
		})

		// 경험
		r.Route("/api/activities", func(r chi.Router) {
			r.Post("/", activityHandler.Create)
			r.Post("/search", activityHandler.Search)

			// AI 경험 추출 작업(전용 레이트 제한 추가)
			r.With(deps.RateLimiter.AIJobMiddleware()).Post("/extract", summaryHandler.RequestExperience)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", activityHandler.Get)
				r.Patch("/", activityHandler.Update)
				r.Delete("/", activityHandler.Delete)
			})
		})

		// 고정 질문/키워드 카탈로그
		r.Get("/api/questions", diaryHandler.ListQuestions)
		r.Get("/api/keywords", activityHandler.ListKeywords)

		// AI 작업 결과 폴링
		r.Get("/api/jobs/{jobID}", summaryHandler.GetResult)
	})

	return r
}
