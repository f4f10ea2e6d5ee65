// Package consumer 包含组合风险引擎的消息消费接口。
package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/wyfcoding/pkg/messagequeue/kafka"

	"github.com/wyfcoding/riskengine/internal/riskengine/application"
)

// CalculationRequestTopic 风险计算请求事件的主题名。
const CalculationRequestTopic = "risk.calculate.request"

// CalculationHandler 消费风险计算请求事件，
// 对保存的组合定义触发一次模拟并发布结果事件。
type CalculationHandler struct {
	service *application.RiskService
	logger  *slog.Logger
}

// NewCalculationHandler 创建消费处理器。
func NewCalculationHandler(service *application.RiskService, logger *slog.Logger) *CalculationHandler {
	return &CalculationHandler{service: service, logger: logger}
}

// Handle 处理一条计算请求消息。
// 反序列化失败或组合不存在时记录日志并丢弃，避免毒丸消息阻塞分区。
func (h *CalculationHandler) Handle(ctx context.Context, msg kafkago.Message) error {
	var payload struct {
		PortfolioID     string `json:"portfolio_id"`
		NumSimulations  int    `json:"num_simulations,omitempty"`
		TimeHorizonDays int    `json:"time_horizon_days,omitempty"`
	}
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal calculation request", "error", err)
		return nil
	}

	result, err := h.service.CalculateForPortfolio(ctx, payload.PortfolioID, payload.NumSimulations, payload.TimeHorizonDays)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to calculate risk for requested portfolio",
			"portfolio_id", payload.PortfolioID,
			"error", err,
		)
		return nil
	}

	h.logger.InfoContext(ctx, "calculation request processed",
		"portfolio_id", payload.PortfolioID,
		"run_id", result.RunID,
		"duration_ms", result.CalculationTimeMs,
	)
	return nil
}

// Subscribe 启动消费循环。
func (h *CalculationHandler) Subscribe(ctx context.Context, c *kafka.Consumer) {
	c.Start(ctx, 1, h.Handle)
}
