package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/pkg/logging"

	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
)

// RiskService 组合风险应用服务。
// 负责把接口层请求转换为引擎调用、管理保存的组合定义、
// 并在计算完成后发布领域事件。
type RiskService struct {
	repo      domain.PortfolioRepository
	publisher domain.EventPublisher
}

// NewRiskService 创建风险应用服务实例。
// repo: 注入的组合定义仓储实现
// publisher: 注入的事件发布实现（可为 nil，此时跳过事件发布）
func NewRiskService(repo domain.PortfolioRepository, publisher domain.EventPublisher) *RiskService {
	return &RiskService{repo: repo, publisher: publisher}
}

// CalculateRisk 完整风险计算用例：校验请求、构造引擎、执行模拟。
// 相关系数矩阵省略时使用单位矩阵。
func (s *RiskService) CalculateRisk(ctx context.Context, req CalculateRiskRequest) (*RiskCalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sims := req.NumSimulations
	if sims == 0 {
		sims = domain.DefaultNumSimulations
	}
	horizonDays := req.TimeHorizonDays
	if horizonDays == 0 {
		horizonDays = 1
	}

	correlation := req.CorrelationMatrix
	if correlation == nil {
		correlation = domain.IdentityMatrix(len(req.Assets))
	}

	metrics, elapsed, err := s.runSimulation(ctx, toAssets(req.Assets), correlation, sims, float64(horizonDays)/252.0, "")
	if err != nil {
		return nil, err
	}

	logging.Info(ctx, "Risk calculation completed",
		"run_id", metrics.RunID,
		"assets", len(req.Assets),
		"simulations", sims,
		"duration_ms", elapsed,
	)

	return toResponse(metrics, horizonDays, elapsed), nil
}

// QuickRisk 快速估算用例：简化输入、单位相关系数矩阵、较少的默认模拟次数。
func (s *RiskService) QuickRisk(ctx context.Context, assets []AssetInput, numSimulations int) (*RiskCalculationResponse, error) {
	if numSimulations == 0 {
		numSimulations = DefaultQuickSimulations
	}
	return s.CalculateRisk(ctx, CalculateRiskRequest{
		Assets:          assets,
		NumSimulations:  numSimulations,
		TimeHorizonDays: 1,
	})
}

// CalculateFromLists 一次性便捷调用：接受平行列表（名称、权重、期望收益、波动率），
// 校验各列表长度一致后在内部构造引擎并返回原始结果。
// 对引擎语义的无状态门面，不做接口边界的权重区间限制。
func (s *RiskService) CalculateFromLists(ctx context.Context, names []string, weights, expectedReturns, volatilities []float64, correlation [][]float64, numSimulations int, timeHorizon float64) (*domain.RiskMetrics, error) {
	n := len(names)
	if len(weights) != n || len(expectedReturns) != n || len(volatilities) != n {
		return nil, fmt.Errorf("%w: names=%d weights=%d expected_returns=%d volatilities=%d",
			domain.ErrInputLengthMismatch, n, len(weights), len(expectedReturns), len(volatilities))
	}

	assets := make([]domain.Asset, n)
	for i := range names {
		assets[i] = domain.Asset{
			Name:           names[i],
			Weight:         weights[i],
			ExpectedReturn: expectedReturns[i],
			Volatility:     volatilities[i],
		}
	}
	if correlation == nil {
		correlation = domain.IdentityMatrix(n)
	}

	engine, err := domain.NewMonteCarloRiskEngine(assets, correlation)
	if err != nil {
		return nil, err
	}
	if numSimulations != 0 {
		if err := engine.SetNumSimulations(numSimulations); err != nil {
			return nil, err
		}
	}
	if timeHorizon != 0 {
		if err := engine.SetTimeHorizon(timeHorizon); err != nil {
			return nil, err
		}
	}
	return engine.RunSimulation()
}

// SavePortfolio 保存命名组合定义（资产 + 相关系数矩阵），供后续重复计算。
func (s *RiskService) SavePortfolio(ctx context.Context, req SavePortfolioRequest) (*domain.PortfolioDefinition, error) {
	correlation := req.Correlation
	if correlation == nil {
		correlation = domain.IdentityMatrix(len(req.Assets))
	}

	def := &domain.PortfolioDefinition{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Assets:      toAssets(req.Assets),
		Correlation: correlation,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, def); err != nil {
		logging.Error(ctx, "Failed to save portfolio definition", "name", req.Name, "error", err)
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}
	return def, nil
}

// GetPortfolio 按 ID 查询组合定义。
func (s *RiskService) GetPortfolio(ctx context.Context, id string) (*domain.PortfolioDefinition, error) {
	return s.repo.FindByID(ctx, id)
}

// ListPortfolios 分页列出组合定义。
func (s *RiskService) ListPortfolios(ctx context.Context, limit, offset int) ([]*domain.PortfolioDefinition, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.List(ctx, limit, offset)
}

// DeletePortfolio 删除组合定义。
func (s *RiskService) DeletePortfolio(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// CalculateForPortfolio 对保存的组合定义执行风险计算。
// numSimulations/timeHorizonDays 为零时使用引擎默认值。
func (s *RiskService) CalculateForPortfolio(ctx context.Context, id string, numSimulations, timeHorizonDays int) (*RiskCalculationResponse, error) {
	def, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sims := numSimulations
	if sims == 0 {
		sims = domain.DefaultNumSimulations
	}
	horizonDays := timeHorizonDays
	if horizonDays == 0 {
		horizonDays = 1
	}

	metrics, elapsed, err := s.runSimulation(ctx, def.Assets, def.Correlation, sims, float64(horizonDays)/252.0, def.ID)
	if err != nil {
		return nil, err
	}

	logging.Info(ctx, "Risk calculation completed for saved portfolio",
		"portfolio_id", def.ID,
		"run_id", metrics.RunID,
		"simulations", sims,
		"duration_ms", elapsed,
	)

	return toResponse(metrics, horizonDays, elapsed), nil
}

// SamplePortfolio 返回一个用于联调的 3 资产示例组合及其相关系数矩阵。
func (s *RiskService) SamplePortfolio() SamplePortfolioResponse {
	return SamplePortfolioResponse{
		Assets: []AssetInput{
			{Name: "AAPL", Weight: 0.4, ExpectedReturn: 0.12, Volatility: 0.25},
			{Name: "GOOGL", Weight: 0.3, ExpectedReturn: 0.10, Volatility: 0.30},
			{Name: "MSFT", Weight: 0.3, ExpectedReturn: 0.11, Volatility: 0.28},
		},
		CorrelationMatrix: [][]float64{
			{1.0, 0.7, 0.8},
			{0.7, 1.0, 0.6},
			{0.8, 0.6, 1.0},
		},
		Description: "Sample 3-asset portfolio (AAPL, GOOGL, MSFT) with correlation matrix",
	}
}

// runSimulation 构造引擎、执行模拟并发布完成事件，返回结果与耗时（毫秒）。
func (s *RiskService) runSimulation(ctx context.Context, assets []domain.Asset, correlation [][]float64, sims int, horizon float64, portfolioID string) (*domain.RiskMetrics, float64, error) {
	engine, err := domain.NewMonteCarloRiskEngine(assets, correlation)
	if err != nil {
		return nil, 0, err
	}
	if err := engine.SetNumSimulations(sims); err != nil {
		return nil, 0, err
	}
	if err := engine.SetTimeHorizon(horizon); err != nil {
		return nil, 0, err
	}

	start := time.Now()
	metrics, err := engine.RunSimulation()
	if err != nil {
		return nil, 0, err
	}
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	s.publishComputed(ctx, metrics, portfolioID)
	return metrics, elapsed, nil
}

// publishComputed 事件发布尽力而为：失败只记录日志，不影响计算结果返回。
func (s *RiskService) publishComputed(ctx context.Context, metrics *domain.RiskMetrics, portfolioID string) {
	if s.publisher == nil {
		return
	}
	event := domain.RiskMetricsComputedEvent{
		RunID:               metrics.RunID,
		PortfolioID:         portfolioID,
		ExpectedReturn:      metrics.ExpectedReturn.String(),
		PortfolioVolatility: metrics.PortfolioVolatility.String(),
		VaR95:               metrics.VaR95.String(),
		VaR99:               metrics.VaR99.String(),
		CVaR95:              metrics.CVaR95.String(),
		CVaR99:              metrics.CVaR99.String(),
		NumSimulations:      metrics.NumSimulations,
		TimeHorizon:         metrics.TimeHorizon,
		ComputedAt:          metrics.ComputedAt.UnixMilli(),
	}
	if err := s.publisher.PublishRiskMetricsComputed(ctx, event); err != nil {
		logging.Error(ctx, "Failed to publish risk metrics event", "run_id", metrics.RunID, "error", err)
	}
}
