package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// RiskMetrics 单次模拟运行的结果。构造后不可变，所有权交给调用方。
// SimulationResults 按模拟序号排列，长度恒等于本次运行的模拟次数。
type RiskMetrics struct {
	RunID               string          `json:"run_id"`
	ExpectedReturn      decimal.Decimal `json:"expected_return"`
	PortfolioVolatility decimal.Decimal `json:"portfolio_volatility"`
	VaR95               decimal.Decimal `json:"var_95"`
	VaR99               decimal.Decimal `json:"var_99"`
	CVaR95              decimal.Decimal `json:"cvar_95"`
	CVaR99              decimal.Decimal `json:"cvar_99"`
	NumSimulations      int             `json:"num_simulations"`
	TimeHorizon         float64         `json:"time_horizon"`
	SimulationResults   []float64       `json:"simulation_results"`
	ComputedAt          time.Time       `json:"computed_at"`
}

// SummaryStatistics 模拟收益分布的描述性统计。
type SummaryStatistics struct {
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// Summary 计算模拟收益序列的均值、标准差、极值、偏度与超额峰度。
func (m *RiskMetrics) Summary() SummaryStatistics {
	return summarize(m.SimulationResults)
}

func summarize(data []float64) SummaryStatistics {
	if len(data) == 0 {
		return SummaryStatistics{}
	}

	minV, maxV := data[0], data[0]
	sum := 0.0
	for _, v := range data {
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	mean := sum / float64(len(data))

	variance := 0.0
	for _, v := range data {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(data))
	std := math.Sqrt(variance)

	skew, kurt := 0.0, 0.0
	if std > 0 {
		for _, v := range data {
			z := (v - mean) / std
			skew += z * z * z
			kurt += z * z * z * z
		}
		skew /= float64(len(data))
		kurt = kurt/float64(len(data)) - 3.0
	}

	return SummaryStatistics{
		Mean:     mean,
		Std:      std,
		Min:      minV,
		Max:      maxV,
		Skewness: skew,
		Kurtosis: kurt,
	}
}
