// Package domain 包含组合风险引擎的领域模型：
// 资产组合快照、相关系数矩阵、Cholesky 分解、关联收益抽样以及 VaR/CVaR 估计。
package domain

import "fmt"

// Asset 组合中的单项资产。
// Weight 为组合权重（带符号，负值表示空头），ExpectedReturn 与 Volatility 均为年化值。
type Asset struct {
	Name           string  `json:"name"`
	Weight         float64 `json:"weight"`
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`
}

// validateAssets 校验资产列表：非空且波动率非负。
func validateAssets(assets []Asset) error {
	if len(assets) == 0 {
		return ErrEmptyPortfolio
	}
	for i, a := range assets {
		if a.Volatility < 0 {
			return fmt.Errorf("%w: asset %q (index %d) has volatility %f", ErrNegativeVolatility, a.Name, i, a.Volatility)
		}
	}
	return nil
}

// cloneAssets 复制资产切片，保证引擎持有的快照不被调用方后续修改影响。
func cloneAssets(assets []Asset) []Asset {
	out := make([]Asset, len(assets))
	copy(out, assets)
	return out
}
