package domain

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestSampleZeroVolatilityIsDeterministic(t *testing.T) {
	assets := []Asset{
		{Name: "CASH", Weight: 1.0, ExpectedReturn: 0.03, Volatility: 0.0},
	}
	cholesky, err := choleskyDecompose(IdentityMatrix(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	horizon := 1.0 / 252.0
	for i := 0; i < 10; i++ {
		returns := sampleCorrelatedReturns(rng, cholesky, assets, horizon)
		want := 0.03 * horizon
		if math.Abs(returns[0]-want) > 1e-15 {
			t.Fatalf("zero-vol return = %g, want exactly drift %g", returns[0], want)
		}
	}
}

func TestSamplePerfectCorrelation(t *testing.T) {
	// ρ = 1 且波动率相同时，两资产的冲击完全一致。
	assets := []Asset{
		{Name: "A", Weight: 0.5, ExpectedReturn: 0.05, Volatility: 0.20},
		{Name: "B", Weight: 0.5, ExpectedReturn: 0.05, Volatility: 0.20},
	}
	matrix := [][]float64{
		{1.0, 1.0},
		{1.0, 1.0},
	}
	cholesky, err := choleskyDecompose(matrix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 10; i++ {
		returns := sampleCorrelatedReturns(rng, cholesky, assets, 1.0/252.0)
		if math.Abs(returns[0]-returns[1]) > 1e-12 {
			t.Fatalf("perfectly correlated returns differ: %g vs %g", returns[0], returns[1])
		}
	}
}

func TestPortfolioReturnWeightDotProduct(t *testing.T) {
	assets := []Asset{
		{Name: "A", Weight: 0.6},
		{Name: "B", Weight: 0.4},
		{Name: "C", Weight: -0.2}, // 空头
	}
	got := portfolioReturn(assets, []float64{0.01, -0.02, 0.05})
	want := 0.6*0.01 + 0.4*-0.02 + -0.2*0.05
	if math.Abs(got-want) > 1e-15 {
		t.Errorf("portfolio return = %g, want %g", got, want)
	}
}
