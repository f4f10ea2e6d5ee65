package messaging

import (
	"context"
	"encoding/json"

	"github.com/wyfcoding/pkg/messagequeue/kafka"

	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
)

// KafkaEventPublisher 把风险计算完成事件发布到 Kafka。
type KafkaEventPublisher struct {
	producer *kafka.Producer
}

// NewKafkaEventPublisher 创建事件发布器实例。
func NewKafkaEventPublisher(producer *kafka.Producer) domain.EventPublisher {
	return &KafkaEventPublisher{producer: producer}
}

// PublishRiskMetricsComputed 发布风险指标计算完成事件。
func (p *KafkaEventPublisher) PublishRiskMetricsComputed(ctx context.Context, event domain.RiskMetricsComputedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.producer.PublishToTopic(ctx, domain.RiskMetricsComputedEventType, []byte(event.RunID), data)
}
