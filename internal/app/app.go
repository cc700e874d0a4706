package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/ansmoon/bbogle/internal/activity"
	"github.com/ansmoon/bbogle/internal/auth"
	"github.com/ansmoon/bbogle/internal/config"
	"github.com/ansmoon/bbogle/internal/database"
	"github.com/ansmoon/bbogle/internal/diary"
	"github.com/ansmoon/bbogle/internal/handler"
	"github.com/ansmoon/bbogle/internal/logger"
	"github.com/ansmoon/bbogle/internal/metrics"
	"github.com/ansmoon/bbogle/internal/middleware"
	"github.com/ansmoon/bbogle/internal/project"
	"github.com/ansmoon/bbogle/internal/repository"
	"github.com/ansmoon/bbogle/internal/security"
	"github.com/ansmoon/bbogle/internal/session"
	"github.com/ansmoon/bbogle/internal/summary"
	"github.com/ansmoon/bbogle/internal/token"
	"github.com/ansmoon/bbogle/internal/user"
	"github.com/ansmoon/bbogle/internal/worker/notify"
)

// Init 은 애플리케이션 초기화를 수행한다.
// 환경 변수에서 Config를 읽어들이고 JSON 구조화 로그를 설정한다.
// writer가 지정된 경우 로그 출력처로 사용한다.
func Init(w io.Writer) (*config.Config, error) {
	// 1. 로그 초기화(설정 읽기 전에 로그를 쓸 수 있도록)
	logger.SetupDefault(w)

	// 2. 환경 변수에서 설정을 읽는다
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run 은 애플리케이션의 메인 엔트리포인트.
// 커맨드라인 인수에서 서브커맨드를 해석해 해당 모드로 기동한다.
// args에는 os.Args[1:]를 넘긴다.
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck 는 경량 서브커맨드이므로 완전한 초기화를 생략한다
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// newRedisClient 는 세션/작업 결과 저장용 Redis 클라이언트를 생성하고 연결을 확인한다.
func newRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// runServe 는 API 서버 모드로 기동한다.
// DB/Redis/RabbitMQ에 접속해 전체 의존성을 조립하고 HTTP 서버를 시작한다.
// SIGINT 또는 SIGTERM 수신 시 그레이스풀 셧다운한다.
func runServe(cfg *config.Config) error {
	// 1. DB 접속
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. Redis 접속(리프레시 세션 + AI 작업 결과)
	redisClient, err := newRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	slog.Info("redis connection established")

	// 3. RabbitMQ 접속(AI 요약 파이프라인)
	if cfg.RabbitMQURL == "" {
		return fmt.Errorf("RABBITMQ_URL is required in serve mode")
	}
	amqpConn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	defer amqpCh.Close()

	slog.Info("rabbitmq connection established")

	// 4. 메트릭
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	// 5. 리포지토리
	userRepo := repository.NewPostgresUserRepo(db)
	projectRepo := repository.NewPostgresProjectRepo(db)
	diaryRepo := repository.NewPostgresDiaryRepo(db)
	questionRepo := repository.NewPostgresQuestionRepo(db)
	activityRepo := repository.NewPostgresActivityRepo(db)
	keywordRepo := repository.NewPostgresKeywordRepo(db)

	// 6. 토큰/세션
	issuer, err := token.NewIssuer(token.Config{
		Secret:        []byte(cfg.JWTSecret),
		AccessExpire:  cfg.AccessTokenExpire,
		RefreshExpire: cfg.RefreshTokenExpire,
	})
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}
	sessionStore := session.NewStore(redisClient)

	// 7. 도메인 서비스
	oauthProvider := auth.NewKakaoOAuthProvider(auth.KakaoOAuthConfig{
		ClientID:     cfg.KakaoClientID,
		ClientSecret: cfg.KakaoClientSecret,
		RedirectURL:  cfg.KakaoRedirectURL,
	})
	authService := auth.NewService(oauthProvider, userRepo, issuer, sessionStore)

	sanitizer := security.NewContentSanitizer()
	projectService := project.NewService(projectRepo)
	diaryService := diary.NewService(diaryRepo, projectRepo, questionRepo, sanitizer)
	activityService := activity.NewService(activityRepo, projectRepo, keywordRepo, sanitizer)
	userService := user.NewService(userRepo, sessionStore)

	publisher, err := summary.NewPublisher(amqpCh, collector)
	if err != nil {
		return fmt.Errorf("failed to setup job publisher: %w", err)
	}
	resultStore := summary.NewResultStore(redisClient)
	jobService := summary.NewJobService(publisher, resultStore, projectRepo, diaryRepo, keywordRepo)

	// 8. 라우터 구성
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitGeneral > 0 {
		// config의 값은 req/min 단위이므로 req/sec으로 변환한다
		rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
		rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	}
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		HealthChecker:     db,
		SubjectParser:     issuer,
		UserFinder:        userRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			LoginSuccessRedirect: cfg.LoginSuccessRedirect,
			CookieDomain:         cfg.CookieDomain,
			CookieSecure:         cfg.CookieSecure,
		},

		UserService:     userService,
		ProjectService:  projectService,
		DiaryService:    diaryService,
		ActivityService: activityService,
		SummaryService:  jobService,

		Metrics:  collector,
		Gatherer: reg,
	}

	router := handler.NewRouter(deps)

	// 9. HTTP 서버 기동
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 그레이스풀 셧다운을 위한 시그널 핸들링
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker 는 워커 모드로 기동한다.
// AI 응답 큐 소비자와 개발일지 작성 알림 스케줄러를 실행한다.
// SIGINT 또는 SIGTERM 수신 시 셧다운한다.
func runWorker(cfg *config.Config) error {
	// 1. DB 접속(알림 대상 프로젝트 조회용)
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	// 2. Redis 접속(작업 결과 저장)
	redisClient, err := newRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// 3. RabbitMQ 접속(응답 큐 소비)
	if cfg.RabbitMQURL == "" {
		return fmt.Errorf("RABBITMQ_URL is required in worker mode")
	}
	amqpConn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	defer amqpCh.Close()

	// 4. 메트릭
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	// 5. AI 응답 소비자
	resultStore := summary.NewResultStore(redisClient)
	consumer := summary.NewConsumer(amqpCh, resultStore, collector)

	// 6. 알림 스케줄러
	projectRepo := repository.NewPostgresProjectRepo(db)
	scheduler := notify.NewScheduler(projectRepo, notify.LogNotifier{}, collector, slog.Default())

	// 그레이스풀 셧다운을 위한 시그널 핸들링
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting")

	// AI 응답 소비자를 백그라운드에서 실행
	go func() {
		if err := consumer.Run(ctx); err != nil {
			slog.Error("response consumer stopped", slog.String("error", err.Error()))
			cancel()
		}
	}()

	// 알림 스케줄러를 메인 고루틴에서 실행(블로킹)
	scheduler.Start(ctx, time.Minute)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate 는 데이터베이스 마이그레이션을 실행한다.
// 미적용 마이그레이션을 순서대로 모두 적용한다.
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck 는 헬스체크를 실행한다.
// distroless 환경의 Docker 헬스체크용 서브커맨드로,
// /health 엔드포인트에 HTTP 요청을 보내 결과를 반환한다.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL 은 데이터베이스 URL의 인증 정보를 마스킹한다.
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
