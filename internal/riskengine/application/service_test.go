package application

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
)

type fakeRepo struct {
	mu   sync.Mutex
	defs map[string]*domain.PortfolioDefinition
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{defs: make(map[string]*domain.PortfolioDefinition)}
}

func (r *fakeRepo) Save(_ context.Context, def *domain.PortfolioDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.ID] = def
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*domain.PortfolioDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	def, ok := r.defs[id]
	if !ok {
		return nil, domain.ErrPortfolioNotFound
	}
	return def, nil
}

func (r *fakeRepo) List(_ context.Context, limit, offset int) ([]*domain.PortfolioDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.PortfolioDefinition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	return out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.defs, id)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.RiskMetricsComputedEvent
}

func (p *fakePublisher) PublishRiskMetricsComputed(_ context.Context, event domain.RiskMetricsComputedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func validRequest() CalculateRiskRequest {
	return CalculateRiskRequest{
		Assets: []AssetInput{
			{Name: "A", Weight: 0.6, ExpectedReturn: 0.08, Volatility: 0.20},
			{Name: "B", Weight: 0.4, ExpectedReturn: 0.05, Volatility: 0.15},
		},
		CorrelationMatrix: [][]float64{
			{1.0, 0.3},
			{0.3, 1.0},
		},
		NumSimulations:  5000,
		TimeHorizonDays: 1,
	}
}

func TestCalculateRisk(t *testing.T) {
	publisher := &fakePublisher{}
	service := NewRiskService(newFakeRepo(), publisher)

	result, err := service.CalculateRisk(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.NumSimulations != 5000 {
		t.Errorf("num simulations = %d, want 5000", result.NumSimulations)
	}
	if result.TimeHorizonDays != 1 {
		t.Errorf("time horizon days = %d, want 1", result.TimeHorizonDays)
	}
	if got := result.ExpectedReturn.InexactFloat64(); math.Abs(got-0.068) > 1e-9 {
		t.Errorf("expected return = %g, want 0.068", got)
	}
	if result.VaR95.InexactFloat64() <= 0 {
		t.Errorf("VaR95 = %s, want positive", result.VaR95)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("got %d published events, want 1", len(publisher.events))
	}
	if publisher.events[0].RunID != result.RunID {
		t.Errorf("event run id %q differs from response %q", publisher.events[0].RunID, result.RunID)
	}
}

func TestCalculateRiskValidation(t *testing.T) {
	service := NewRiskService(newFakeRepo(), nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CalculateRiskRequest)
		want   error
	}{
		{"empty portfolio", func(r *CalculateRiskRequest) { r.Assets = nil }, domain.ErrEmptyPortfolio},
		{"weight out of range", func(r *CalculateRiskRequest) { r.Assets[0].Weight = 1.5 }, ErrValidation},
		{"weights do not sum to one", func(r *CalculateRiskRequest) { r.Assets[0].Weight = 0.3 }, ErrValidation},
		{"negative volatility", func(r *CalculateRiskRequest) { r.Assets[0].Volatility = -0.1 }, domain.ErrNegativeVolatility},
		{"too few simulations", func(r *CalculateRiskRequest) { r.NumSimulations = 10 }, ErrValidation},
		{"horizon too long", func(r *CalculateRiskRequest) { r.TimeHorizonDays = 300 }, ErrValidation},
		{"matrix dimension mismatch", func(r *CalculateRiskRequest) { r.CorrelationMatrix = domain.IdentityMatrix(3) }, domain.ErrDimensionMismatch},
		{"correlation out of range", func(r *CalculateRiskRequest) { r.CorrelationMatrix[0][1] = 1.5; r.CorrelationMatrix[1][0] = 1.5 }, domain.ErrCorrelationOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := service.CalculateRisk(ctx, req)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCalculateRiskIdentityDefault(t *testing.T) {
	service := NewRiskService(newFakeRepo(), nil)

	req := validRequest()
	req.CorrelationMatrix = nil // 省略时使用单位矩阵

	result, err := service.CalculateRisk(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := math.Sqrt(0.36*0.04 + 0.16*0.0225)
	if got := result.PortfolioVolatility.InexactFloat64(); math.Abs(got-want) > 1e-9 {
		t.Errorf("volatility = %g, want %g (identity correlation)", got, want)
	}
}

func TestQuickRiskDefaults(t *testing.T) {
	service := NewRiskService(newFakeRepo(), nil)

	req := validRequest()
	result, err := service.QuickRisk(context.Background(), req.Assets, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NumSimulations != DefaultQuickSimulations {
		t.Errorf("num simulations = %d, want %d", result.NumSimulations, DefaultQuickSimulations)
	}
}

func TestCalculateFromLists(t *testing.T) {
	service := NewRiskService(newFakeRepo(), nil)
	ctx := context.Background()

	names := []string{"A", "B"}
	weights := []float64{0.6, 0.4}
	expectedReturns := []float64{0.08, 0.05}
	volatilities := []float64{0.20, 0.15}
	correlation := [][]float64{{1.0, 0.3}, {0.3, 1.0}}

	metrics, err := service.CalculateFromLists(ctx, names, weights, expectedReturns, volatilities, correlation, 2000, 1.0/252.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metrics.SimulationResults) != 2000 {
		t.Errorf("got %d results, want 2000", len(metrics.SimulationResults))
	}

	// 平行列表长度不一致必须被拒绝。
	_, err = service.CalculateFromLists(ctx, names, weights[:1], expectedReturns, volatilities, correlation, 0, 0)
	if !errors.Is(err, domain.ErrInputLengthMismatch) {
		t.Errorf("got %v, want ErrInputLengthMismatch", err)
	}
}

func TestSaveAndCalculateForPortfolio(t *testing.T) {
	repo := newFakeRepo()
	publisher := &fakePublisher{}
	service := NewRiskService(repo, publisher)
	ctx := context.Background()

	def, err := service.SavePortfolio(ctx, SavePortfolioRequest{
		Name: "balanced",
		Assets: []AssetInput{
			{Name: "A", Weight: 0.6, ExpectedReturn: 0.08, Volatility: 0.20},
			{Name: "B", Weight: 0.4, ExpectedReturn: 0.05, Volatility: 0.15},
		},
		Correlation: [][]float64{{1.0, 0.3}, {0.3, 1.0}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.ID == "" {
		t.Fatal("empty portfolio id")
	}

	result, err := service.CalculateForPortfolio(ctx, def.ID, 2000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NumSimulations != 2000 {
		t.Errorf("num simulations = %d, want 2000", result.NumSimulations)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("got %d published events, want 1", len(publisher.events))
	}
	if publisher.events[0].PortfolioID != def.ID {
		t.Errorf("event portfolio id %q, want %q", publisher.events[0].PortfolioID, def.ID)
	}
}

func TestSavePortfolioRejectsInvalidDefinition(t *testing.T) {
	service := NewRiskService(newFakeRepo(), nil)

	_, err := service.SavePortfolio(context.Background(), SavePortfolioRequest{
		Name: "broken",
		Assets: []AssetInput{
			{Name: "A", Weight: 1.0, ExpectedReturn: 0.08, Volatility: 0.20},
		},
		Correlation: [][]float64{{1.0, 0.3}, {0.3, 1.0}}, // 维度与资产数不符
	})
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestSamplePortfolio(t *testing.T) {
	service := NewRiskService(newFakeRepo(), nil)
	sample := service.SamplePortfolio()

	if len(sample.Assets) != 3 {
		t.Fatalf("got %d assets, want 3", len(sample.Assets))
	}
	total := 0.0
	for _, a := range sample.Assets {
		total += a.Weight
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("sample weights sum to %g, want 1", total)
	}
	if len(sample.CorrelationMatrix) != 3 {
		t.Errorf("got %dx matrix, want 3x3", len(sample.CorrelationMatrix))
	}

	// 示例组合必须能直接通过完整计算接口。
	_, err := service.CalculateRisk(context.Background(), CalculateRiskRequest{
		Assets:            sample.Assets,
		CorrelationMatrix: sample.CorrelationMatrix,
		NumSimulations:    2000,
	})
	if err != nil {
		t.Fatalf("sample portfolio rejected: %v", err)
	}
}
