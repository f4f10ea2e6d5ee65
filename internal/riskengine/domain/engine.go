package domain

import (
	"math/rand/v2"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 默认模拟参数：10 万次模拟、单个交易日的时间跨度。
const (
	DefaultNumSimulations = 100000
	DefaultTimeHorizon    = 1.0 / 252.0
)

// MonteCarloRiskEngine 关联多资产蒙特卡洛风险引擎。
// 同一时刻持有一份组合快照和一份相关系数矩阵；两者在变更时整体替换，
// 运行中只读。单实例假定同一时刻只有一次运行在进行，
// 配置变更与运行的串行化由调用方负责。
type MonteCarloRiskEngine struct {
	assets         []Asset
	correlation    [][]float64
	numSimulations int
	timeHorizon    float64 // 年化比例, 例如 1/252 表示一个交易日
}

// NewMonteCarloRiskEngine 构造引擎并校验全部不变量。
// 校验失败时不产生任何部分构造状态。
func NewMonteCarloRiskEngine(assets []Asset, correlation [][]float64) (*MonteCarloRiskEngine, error) {
	if err := validateAssets(assets); err != nil {
		return nil, err
	}
	if err := validateCorrelationMatrix(correlation, len(assets)); err != nil {
		return nil, err
	}
	return &MonteCarloRiskEngine{
		assets:         cloneAssets(assets),
		correlation:    cloneMatrix(correlation),
		numSimulations: DefaultNumSimulations,
		timeHorizon:    DefaultTimeHorizon,
	}, nil
}

// SetNumSimulations 设置模拟次数，拒绝非正值。
func (e *MonteCarloRiskEngine) SetNumSimulations(simulations int) error {
	if simulations <= 0 {
		return ErrInvalidSimulations
	}
	e.numSimulations = simulations
	return nil
}

// SetTimeHorizon 设置时间跨度（年），拒绝非正值。
func (e *MonteCarloRiskEngine) SetTimeHorizon(horizon float64) error {
	if horizon <= 0 {
		return ErrInvalidTimeHorizon
	}
	e.timeHorizon = horizon
	return nil
}

// UpdatePortfolio 整体替换组合快照，拒绝空组合。
// 与 UpdateCorrelationMatrix 相互独立，维度一致性由调用方保证。
func (e *MonteCarloRiskEngine) UpdatePortfolio(assets []Asset) error {
	if err := validateAssets(assets); err != nil {
		return err
	}
	e.assets = cloneAssets(assets)
	return nil
}

// UpdateCorrelationMatrix 整体替换相关系数矩阵，
// 维度必须与当前组合一致且满足对称性/对角线不变量。
func (e *MonteCarloRiskEngine) UpdateCorrelationMatrix(correlation [][]float64) error {
	if err := validateCorrelationMatrix(correlation, len(e.assets)); err != nil {
		return err
	}
	e.correlation = cloneMatrix(correlation)
	return nil
}

// NumSimulations 返回当前配置的模拟次数。
func (e *MonteCarloRiskEngine) NumSimulations() int { return e.numSimulations }

// TimeHorizon 返回当前配置的时间跨度（年）。
func (e *MonteCarloRiskEngine) TimeHorizon() float64 { return e.timeHorizon }

// RunSimulation 执行一次完整的蒙特卡洛模拟并返回结果。
// 流程：Cholesky 分解一次 → 按连续区间把模拟序号分给固定数量的
// worker goroutine（数量取硬件并发度）→ 每个 worker 独占一个唯一
// 种子的 PCG 随机源，只写自己负责的下标区间 → 汇总后计算解析矩
// 与经验 VaR/CVaR。运行本身不修改组合/相关系数状态。
func (e *MonteCarloRiskEngine) RunSimulation() (*RiskMetrics, error) {
	// 运行开始时捕获快照；变更操作整体替换切片，
	// 因此运行不受之后发起的配置变更影响。
	assets := e.assets
	correlation := e.correlation
	sims := e.numSimulations
	horizon := e.timeHorizon

	cholesky, err := choleskyDecompose(correlation)
	if err != nil {
		return nil, err
	}

	results := make([]float64, sims)

	workers := runtime.GOMAXPROCS(0)
	if workers > sims {
		workers = sims
	}
	chunk := (sims + workers - 1) / workers
	seed := uint64(time.Now().UnixNano())

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, sims)
		if start >= end {
			break
		}
		wg.Add(1)
		go func(worker, start, end int) {
			defer wg.Done()
			// 每个 worker 独立的随机源：进程级熵 + worker 序号做流标识，
			// 避免跨 goroutine 共享生成器状态。
			rng := rand.New(rand.NewPCG(seed, uint64(worker)))
			for s := start; s < end; s++ {
				assetReturns := sampleCorrelatedReturns(rng, cholesky, assets, horizon)
				results[s] = portfolioReturn(assets, assetReturns)
			}
		}(w, start, end)
	}
	wg.Wait()

	sorted := slices.Clone(results)
	slices.Sort(sorted)

	var95 := calculateVaR(sorted, 0.95)
	var99 := calculateVaR(sorted, 0.99)

	return &RiskMetrics{
		RunID:               uuid.New().String(),
		ExpectedReturn:      decimal.NewFromFloat(analyticExpectedReturn(assets)),
		PortfolioVolatility: decimal.NewFromFloat(analyticVolatility(assets, correlation)),
		VaR95:               decimal.NewFromFloat(var95),
		VaR99:               decimal.NewFromFloat(var99),
		CVaR95:              decimal.NewFromFloat(calculateCVaR(results, var95)),
		CVaR99:              decimal.NewFromFloat(calculateCVaR(results, var99)),
		NumSimulations:      sims,
		TimeHorizon:         horizon,
		SimulationResults:   results,
		ComputedAt:          time.Now(),
	}, nil
}
