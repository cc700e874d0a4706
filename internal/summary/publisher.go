package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ansmoon/bbogle/internal/metrics"
)

// Channel 은 발행에 필요한 AMQP 채널 기능의 인터페이스.
// *amqp.Channel의 부분집합으로 정의해 테스트에서 목으로 대체한다.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher 는 AI 작업 요청을 RabbitMQ에 발행한다.
// 발행된 작업의 correlation id를 반환하며, 응답은 responseQueue로 회신된다.
type Publisher struct {
	ch      Channel
	metrics metrics.MetricsCollector
}

// NewPublisher 는 Publisher를 생성하고 사용 큐를 선언한다.
// 큐는 durable로 선언해 브로커 재시작에도 유지한다.
func NewPublisher(ch Channel, collector metrics.MetricsCollector) (*Publisher, error) {
	for _, queue := range []string{SummaryQueue, RetrospectiveQueue, ExperienceQueue, ResponseQueue} {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
	}

	return &Publisher{
		ch:      ch,
		metrics: collector,
	}, nil
}

// PublishSummary 는 개발일지 요약 생성 작업을 발행한다.
func (p *Publisher) PublishSummary(ctx context.Context, req SummaryRequest) (string, error) {
	return p.publish(ctx, SummaryQueue, req)
}

// PublishRetrospective 는 프로젝트 회고 생성 작업을 발행한다.
func (p *Publisher) PublishRetrospective(ctx context.Context, req RetrospectiveRequest) (string, error) {
	return p.publish(ctx, RetrospectiveQueue, req)
}

// PublishExperience 는 경험 추출 작업을 발행한다.
func (p *Publisher) PublishExperience(ctx context.Context, req ExperienceRequest) (string, error) {
	return p.publish(ctx, ExperienceQueue, req)
}

// publish 는 요청 본문을 JSON으로 직렬화해 지정 큐에 발행한다.
// correlation id는 새로 발번하고 ReplyTo에 responseQueue를 지정한다.
func (p *Publisher) publish(ctx context.Context, queue string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job payload: %w", err)
	}

	jobID := uuid.New().String()

	err = p.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: jobID,
		ReplyTo:       ResponseQueue,
		DeliveryMode:  amqp.Persistent,
		Timestamp:     time.Now(),
		Body:          body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish to %s: %w", queue, err)
	}

	p.metrics.RecordJobPublished(queue)
	slog.Info("AI 작업 발행",
		slog.String("queue", queue),
		slog.String("job_id", jobID),
	)
	return jobID, nil
}
