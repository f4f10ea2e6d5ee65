package domain

import (
	"context"
	"errors"
	"time"
)

// ErrPortfolioNotFound 指定 ID 的组合定义不存在。
var ErrPortfolioNotFound = errors.New("portfolio definition not found")

// PortfolioDefinition 风险台保存的命名组合定义（资产 + 相关系数矩阵）。
// 只持久化定义本身，模拟结果不落库。
type PortfolioDefinition struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Assets      []Asset     `json:"assets"`
	Correlation [][]float64 `json:"correlation"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Validate 校验组合定义可用于构造引擎。
func (p *PortfolioDefinition) Validate() error {
	if err := validateAssets(p.Assets); err != nil {
		return err
	}
	return validateCorrelationMatrix(p.Correlation, len(p.Assets))
}

// PortfolioRepository 组合定义仓储接口，由基础设施层实现。
type PortfolioRepository interface {
	Save(ctx context.Context, def *PortfolioDefinition) error
	FindByID(ctx context.Context, id string) (*PortfolioDefinition, error)
	List(ctx context.Context, limit, offset int) ([]*PortfolioDefinition, error)
	Delete(ctx context.Context, id string) error
}
