package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder 는 http.ResponseWriter를 감싸 상태 코드를 기록한다.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader 는 상태 코드를 기록한 뒤 위임한다.
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write 는 데이터를 기록한다. WriteHeader 미호출 시 200으로 기록한다.
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// StatusObserver 는 응답 상태 코드를 집계하는 수신자다.
type StatusObserver interface {
	RecordHTTPStatus(code int)
}

// NewLoggingMiddleware 는 요청의 JSON 구조화 로그를 출력하는 미들웨어를 반환한다.
// 로그에는 method, path, status, duration_ms, user_id(인증된 경우)를 포함하며,
// observer가 nil이 아니면 상태 코드를 전달한다.
func NewLoggingMiddleware(logger *slog.Logger, observer StatusObserver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			if observer != nil {
				observer.RecordHTTPStatus(rec.statusCode)
			}

			duration := time.Since(start)
			durationMs := float64(duration.Nanoseconds()) / float64(time.Millisecond)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", durationMs),
			}

			// 회원 ID가 컨텍스트에 있으면 추가
			if userID, err := UserIDFromContext(r.Context()); err == nil && userID != 0 {
				attrs = append(attrs, slog.Int("user_id", userID))
			}

			// 상태 코드에 따라 로그 레벨을 구분
			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}

			args := make([]any, len(attrs))
			for i, attr := range attrs {
				args[i] = attr
			}

			logger.Log(r.Context(), level, "http_request", args...)
		})
	}
}
