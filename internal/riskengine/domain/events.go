package domain

import "context"

// RiskMetricsComputedEventType 风险指标计算完成事件的主题名。
const RiskMetricsComputedEventType = "risk.metrics.computed"

// RiskMetricsComputedEvent 每次模拟运行完成后发布的事件。
// 只携带头部指标，不携带原始模拟序列。
type RiskMetricsComputedEvent struct {
	RunID               string  `json:"run_id"`
	PortfolioID         string  `json:"portfolio_id,omitempty"`
	ExpectedReturn      string  `json:"expected_return"`
	PortfolioVolatility string  `json:"portfolio_volatility"`
	VaR95               string  `json:"var_95"`
	VaR99               string  `json:"var_99"`
	CVaR95              string  `json:"cvar_95"`
	CVaR99              string  `json:"cvar_99"`
	NumSimulations      int     `json:"num_simulations"`
	TimeHorizon         float64 `json:"time_horizon"`
	ComputedAt          int64   `json:"computed_at"`
}

// EventPublisher 领域事件发布接口，由基础设施层实现。
type EventPublisher interface {
	PublishRiskMetricsComputed(ctx context.Context, event RiskMetricsComputedEvent) error
}
