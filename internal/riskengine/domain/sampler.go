package domain

import (
	"math"
	"math/rand/v2"
)

// sampleCorrelatedReturns 生成一次联合抽样：每个资产一个周期收益率。
// 先抽取 n 个独立标准正态随机数，经下三角因子变换得到关联冲击，
// 再按 volatility_i*sqrt(T) 缩放并叠加漂移 expected_return_i*T。
// 每次调用恰好消耗 n 个随机数；随机源归调用方（单个 worker）独占，
// 不得跨 goroutine 共享。
func sampleCorrelatedReturns(rng *rand.Rand, cholesky [][]float64, assets []Asset, horizon float64) []float64 {
	n := len(assets)
	independent := make([]float64, n)
	for i := range independent {
		independent[i] = rng.NormFloat64()
	}

	sqrtT := math.Sqrt(horizon)
	returns := make([]float64, n)
	for i := 0; i < n; i++ {
		shock := 0.0
		for j := 0; j <= i; j++ {
			shock += cholesky[i][j] * independent[j]
		}
		returns[i] = assets[i].ExpectedReturn*horizon + assets[i].Volatility*sqrtT*shock
	}
	return returns
}

// portfolioReturn 按权重聚合单次抽样，得到一个组合收益率标量。
func portfolioReturn(assets []Asset, assetReturns []float64) float64 {
	total := 0.0
	for i, a := range assets {
		total += a.Weight * assetReturns[i]
	}
	return total
}
