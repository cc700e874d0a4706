package summary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ansmoon/bbogle/internal/metrics"
)

// ResultSaver 는 작업 결과의 기록 인터페이스.
// ResultStore가 구현한다.
type ResultSaver interface {
	Save(ctx context.Context, jobID string, result []byte) error
}

// Consumer 는 responseQueue에서 AI 서버의 응답을 소비해 결과 저장소에 기록한다.
// 워커 모드에서 실행된다.
type Consumer struct {
	ch      ConsumeChannel
	store   ResultSaver
	metrics metrics.MetricsCollector
}

// ConsumeChannel 은 소비에 필요한 AMQP 채널 기능의 인터페이스.
type ConsumeChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// NewConsumer 는 Consumer를 생성한다.
func NewConsumer(ch ConsumeChannel, store ResultSaver, collector metrics.MetricsCollector) *Consumer {
	return &Consumer{
		ch:      ch,
		store:   store,
		metrics: collector,
	}
}

// Run 은 responseQueue의 소비를 시작하고 컨텍스트 취소까지 블록한다.
// 개별 메시지의 처리 실패는 로그만 남기고 소비를 계속한다.
func (c *Consumer) Run(ctx context.Context) error {
	if _, err := c.ch.QueueDeclare(ResponseQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", ResponseQueue, err)
	}

	deliveries, err := c.ch.ConsumeWithContext(ctx, ResponseQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", ResponseQueue, err)
	}

	slog.Info("응답 큐 소비 시작", slog.String("queue", ResponseQueue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for %s", ResponseQueue)
			}
			c.handleDelivery(ctx, delivery)
		}
	}
}

// handleDelivery 는 응답 하나를 처리한다.
// correlation id가 없는 응답은 대응할 작업이 없으므로 버린다.
// 저장 실패 시에는 Nack으로 재전달을 요청한다.
func (c *Consumer) handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	jobID := delivery.CorrelationId
	if jobID == "" {
		slog.Warn("correlation id 없는 응답 수신, 폐기")
		if err := delivery.Ack(false); err != nil {
			slog.Error("failed to ack delivery", slog.String("error", err.Error()))
		}
		return
	}

	if err := c.store.Save(ctx, jobID, delivery.Body); err != nil {
		slog.Error("작업 결과 저장 실패",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		if err := delivery.Nack(false, true); err != nil {
			slog.Error("failed to nack delivery", slog.String("error", err.Error()))
		}
		return
	}

	c.metrics.RecordJobConsumed(ResponseQueue)
	// AI 서버가 요청의 타임스탬프를 회신에 되돌려주면 처리 지연을 집계한다
	if !delivery.Timestamp.IsZero() {
		c.metrics.RecordJobLatency(time.Since(delivery.Timestamp))
	}
	slog.Info("작업 결과 수신",
		slog.String("job_id", jobID),
		slog.Int("size_bytes", len(delivery.Body)),
	)

	if err := delivery.Ack(false); err != nil {
		slog.Error("failed to ack delivery", slog.String("error", err.Error()))
	}
}
