// Package application 包含组合风险引擎的用例逻辑与请求/响应模型。
package application

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
)

// ErrValidation 接口边界校验失败（权重范围、权重和、模拟次数/时间跨度上限等）。
var ErrValidation = errors.New("invalid request")

// 请求边界约束。引擎内核本身允许带符号权重与任意模拟次数，
// 这些上限只约束对外接口。
const (
	MaxAssets          = 100
	MinSimulations     = 1000
	MaxSimulations     = 1000000
	MinHorizonDays     = 1
	MaxHorizonDays     = 252
	weightSumTolerance = 1e-6

	// DefaultQuickSimulations 快速估算接口的默认模拟次数。
	DefaultQuickSimulations = 50000
)

// AssetInput 请求中的单项资产。
type AssetInput struct {
	Name           string  `json:"name" binding:"required"`
	Weight         float64 `json:"weight"`
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`
}

// CalculateRiskRequest 完整风险计算请求。
// CorrelationMatrix 省略时使用单位矩阵（各资产互不相关）。
type CalculateRiskRequest struct {
	Assets            []AssetInput `json:"assets" binding:"required"`
	CorrelationMatrix [][]float64  `json:"correlation_matrix,omitempty"`
	NumSimulations    int          `json:"num_simulations,omitempty"`
	TimeHorizonDays   int          `json:"time_horizon_days,omitempty"`
}

// Validate 执行接口边界校验：
// 权重落在 [0,1] 且总和约等于 1、波动率非负、资产数上限、
// 模拟次数与时间跨度区间、相关系数取值范围与矩阵维度。
func (r *CalculateRiskRequest) Validate() error {
	if len(r.Assets) == 0 {
		return domain.ErrEmptyPortfolio
	}
	if len(r.Assets) > MaxAssets {
		return fmt.Errorf("%w: at most %d assets allowed, got %d", ErrValidation, MaxAssets, len(r.Assets))
	}

	totalWeight := 0.0
	for i, a := range r.Assets {
		if a.Weight < 0 || a.Weight > 1 {
			return fmt.Errorf("%w: asset %q (index %d): weight must be between 0 and 1, got %g", ErrValidation, a.Name, i, a.Weight)
		}
		if a.Volatility < 0 {
			return fmt.Errorf("%w: asset %q (index %d)", domain.ErrNegativeVolatility, a.Name, i)
		}
		totalWeight += a.Weight
	}
	if math.Abs(totalWeight-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: asset weights must sum to 1.0, got %.6f", ErrValidation, totalWeight)
	}

	if r.NumSimulations != 0 && (r.NumSimulations < MinSimulations || r.NumSimulations > MaxSimulations) {
		return fmt.Errorf("%w: num_simulations must be between %d and %d, got %d", ErrValidation, MinSimulations, MaxSimulations, r.NumSimulations)
	}
	if r.TimeHorizonDays != 0 && (r.TimeHorizonDays < MinHorizonDays || r.TimeHorizonDays > MaxHorizonDays) {
		return fmt.Errorf("%w: time_horizon_days must be between %d and %d, got %d", ErrValidation, MinHorizonDays, MaxHorizonDays, r.TimeHorizonDays)
	}

	if r.CorrelationMatrix != nil {
		n := len(r.Assets)
		if len(r.CorrelationMatrix) != n {
			return fmt.Errorf("%w: got %d rows, want %d", domain.ErrDimensionMismatch, len(r.CorrelationMatrix), n)
		}
		for i, row := range r.CorrelationMatrix {
			if len(row) != n {
				return fmt.Errorf("%w: row %d has %d columns, want %d", domain.ErrDimensionMismatch, i, len(row), n)
			}
			for j, v := range row {
				if v < -1.0 || v > 1.0 {
					return fmt.Errorf("%w: [%d][%d]=%g", domain.ErrCorrelationOutOfRange, i, j, v)
				}
			}
		}
	}
	return nil
}

// toAssets 把请求资产转换为领域模型。
func toAssets(inputs []AssetInput) []domain.Asset {
	assets := make([]domain.Asset, len(inputs))
	for i, in := range inputs {
		assets[i] = domain.Asset{
			Name:           in.Name,
			Weight:         in.Weight,
			ExpectedReturn: in.ExpectedReturn,
			Volatility:     in.Volatility,
		}
	}
	return assets
}

// RiskCalculationResponse 风险计算响应。
type RiskCalculationResponse struct {
	RunID               string                   `json:"run_id"`
	ExpectedReturn      decimal.Decimal          `json:"expected_return"`
	PortfolioVolatility decimal.Decimal          `json:"portfolio_volatility"`
	VaR95               decimal.Decimal          `json:"var_95"`
	VaR99               decimal.Decimal          `json:"var_99"`
	CVaR95              decimal.Decimal          `json:"cvar_95"`
	CVaR99              decimal.Decimal          `json:"cvar_99"`
	NumSimulations      int                      `json:"num_simulations"`
	TimeHorizonDays     int                      `json:"time_horizon_days"`
	CalculationTimeMs   float64                  `json:"calculation_time_ms"`
	SimulationSummary   domain.SummaryStatistics `json:"simulation_summary"`
}

// SavePortfolioRequest 保存命名组合定义的请求。
type SavePortfolioRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description,omitempty"`
	Assets      []AssetInput `json:"assets" binding:"required"`
	Correlation [][]float64  `json:"correlation,omitempty"`
}

// SamplePortfolioResponse 示例组合响应。
type SamplePortfolioResponse struct {
	Assets            []AssetInput `json:"assets"`
	CorrelationMatrix [][]float64  `json:"correlation_matrix"`
	Description       string       `json:"description"`
}

func toResponse(metrics *domain.RiskMetrics, horizonDays int, elapsedMs float64) *RiskCalculationResponse {
	return &RiskCalculationResponse{
		RunID:               metrics.RunID,
		ExpectedReturn:      metrics.ExpectedReturn,
		PortfolioVolatility: metrics.PortfolioVolatility,
		VaR95:               metrics.VaR95,
		VaR99:               metrics.VaR99,
		CVaR95:              metrics.CVaR95,
		CVaR99:              metrics.CVaR99,
		NumSimulations:      metrics.NumSimulations,
		TimeHorizonDays:     horizonDays,
		CalculationTimeMs:   elapsedMs,
		SimulationSummary:   metrics.Summary(),
	}
}
