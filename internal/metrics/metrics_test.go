package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue 는 레지스트리에서 지정 메트릭의 카운터 값을 읽는다.
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() == name {
			var sum float64
			for _, m := range mf.GetMetric() {
				sum += m.GetCounter().GetValue()
			}
			return sum
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestRecordLoginCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess()
	c.RecordLoginSuccess()
	c.RecordLoginFailure("exchange_failed")
	c.RecordTokenRefresh()

	if got := counterValue(t, reg, "bbogle_login_success_total"); got != 2 {
		t.Errorf("login_success_total = %v, want 2", got)
	}
	if got := counterValue(t, reg, "bbogle_login_fail_total"); got != 1 {
		t.Errorf("login_fail_total = %v, want 1", got)
	}
	if got := counterValue(t, reg, "bbogle_token_refresh_total"); got != 1 {
		t.Errorf("token_refresh_total = %v, want 1", got)
	}
}

func TestRecordJobCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordJobPublished("summaryQueue")
	c.RecordJobPublished("retrospectiveQueue")
	c.RecordJobConsumed("responseQueue")
	c.RecordJobLatency(1500 * time.Millisecond)
	c.RecordNotificationSent()

	if got := counterValue(t, reg, "bbogle_job_published_total"); got != 2 {
		t.Errorf("job_published_total = %v, want 2", got)
	}
	if got := counterValue(t, reg, "bbogle_job_consumed_total"); got != 1 {
		t.Errorf("job_consumed_total = %v, want 1", got)
	}
	if got := counterValue(t, reg, "bbogle_notification_sent_total"); got != 1 {
		t.Errorf("notification_sent_total = %v, want 1", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(401)

	server := httptest.NewServer(Handler(reg))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("failed to scrape metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	if !strings.Contains(string(body), "bbogle_http_status_total") {
		t.Error("expected bbogle_http_status_total in scrape output")
	}
}
