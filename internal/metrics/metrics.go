// Package metrics 는 Prometheus 메트릭의 수집과 공개를 제공한다.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector 는 메트릭 수집의 인터페이스.
// 핸들러, 워커, 서비스 레이어에서 사용한다.
type MetricsCollector interface {
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
	RecordTokenRefresh()
	RecordHTTPStatus(statusCode int)
	RecordJobPublished(queue string)
	RecordJobConsumed(queue string)
	RecordJobLatency(duration time.Duration)
	RecordNotificationSent()
}

// Collector 는 Prometheus 메트릭을 수집하는 구현.
type Collector struct {
	loginSuccess     prometheus.Counter
	loginFail        *prometheus.CounterVec
	tokenRefresh     prometheus.Counter
	httpStatus       *prometheus.CounterVec
	jobPublished     *prometheus.CounterVec
	jobConsumed      *prometheus.CounterVec
	jobLatency       prometheus.Histogram
	notificationSent prometheus.Counter
}

// NewCollector 는 새 Collector를 생성하고 지정된 레지스트리에 메트릭을 등록한다.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bbogle_login_success_total",
			Help: "카카오 로그인 성공 합계",
		}),
		loginFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bbogle_login_fail_total",
			Help: "카카오 로그인 실패 합계(원인별)",
		}, []string{"reason"}),
		tokenRefresh: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bbogle_token_refresh_total",
			Help: "액세스 토큰 재발급 합계",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bbogle_http_status_total",
			Help: "HTTP 상태 코드별 응답 수",
		}, []string{"status_code"}),
		jobPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bbogle_job_published_total",
			Help: "큐별 AI 작업 발행 합계",
		}, []string{"queue"}),
		jobConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bbogle_job_consumed_total",
			Help: "큐별 AI 작업 응답 소비 합계",
		}, []string{"queue"}),
		jobLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bbogle_job_latency_seconds",
			Help:    "AI 작업 발행부터 응답까지의 레이턴시(초)",
			Buckets: prometheus.DefBuckets,
		}),
		notificationSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bbogle_notification_sent_total",
			Help: "개발일지 작성 알림 발송 합계",
		}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFail,
		c.tokenRefresh,
		c.httpStatus,
		c.jobPublished,
		c.jobConsumed,
		c.jobLatency,
		c.notificationSent,
	)

	return c
}

// RecordLoginSuccess 는 로그인 성공을 기록한다.
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure 는 로그인 실패를 원인과 함께 기록한다.
func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFail.WithLabelValues(reason).Inc()
}

// RecordTokenRefresh 는 액세스 토큰 재발급을 기록한다.
func (c *Collector) RecordTokenRefresh() {
	c.tokenRefresh.Inc()
}

// RecordHTTPStatus 는 HTTP 상태 코드를 기록한다.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordJobPublished 는 AI 작업 발행을 큐 이름과 함께 기록한다.
func (c *Collector) RecordJobPublished(queue string) {
	c.jobPublished.WithLabelValues(queue).Inc()
}

// RecordJobConsumed 는 AI 작업 응답 소비를 큐 이름과 함께 기록한다.
func (c *Collector) RecordJobConsumed(queue string) {
	c.jobConsumed.WithLabelValues(queue).Inc()
}

// RecordJobLatency 는 AI 작업의 레이턴시를 기록한다.
func (c *Collector) RecordJobLatency(duration time.Duration) {
	c.jobLatency.Observe(duration.Seconds())
}

// RecordNotificationSent 는 알림 발송을 기록한다.
func (c *Collector) RecordNotificationSent() {
	c.notificationSent.Inc()
}

// Handler 는 Prometheus 스크레이프용 HTTP 핸들러를 반환한다.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
