package domain

import "math"

// analyticExpectedReturn 解析期望收益：权重加权的资产期望收益之和。
func analyticExpectedReturn(assets []Asset) float64 {
	total := 0.0
	for _, a := range assets {
		total += a.Weight * a.ExpectedReturn
	}
	return total
}

// analyticVolatility 解析组合波动率：完整二次型
// sqrt(ΣᵢΣⱼ wᵢ·wⱼ·σᵢ·σⱼ·ρᵢⱼ)。与模拟噪声无关，每次运行重新计算。
func analyticVolatility(assets []Asset, correlation [][]float64) float64 {
	variance := 0.0
	for i := range assets {
		for j := range assets {
			variance += assets[i].Weight * assets[j].Weight *
				assets[i].Volatility * assets[j].Volatility *
				correlation[i][j]
		}
	}
	return math.Sqrt(variance)
}

// calculateVaR 经验分位数 VaR：对收益升序排序后取第 floor((1-c)*n) 个
// （越界时截断到最后一个有效下标），取负号使损失为正。
// sorted 必须已升序排序。
func calculateVaR(sorted []float64, confidence float64) float64 {
	idx := int((1.0 - confidence) * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return -sorted[idx]
}

// calculateCVaR 尾部均值 CVaR：对损失不小于 VaR 的收益取平均后取负。
// 若没有任何损失达到 VaR（稀疏尾部的截断退化），定义 CVaR 等于 VaR。
func calculateCVaR(returns []float64, varValue float64) float64 {
	sum := 0.0
	count := 0
	for _, r := range returns {
		if -r >= varValue {
			sum += r
			count++
		}
	}
	if count == 0 {
		return varValue
	}
	return -(sum / float64(count))
}
