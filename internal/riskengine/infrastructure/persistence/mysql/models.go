package mysql

import (
	"encoding/json"
	"time"

	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
)

// PortfolioModel MySQL 组合定义表映射。
// 资产列表与相关系数矩阵以 JSON 文本列存储。
type PortfolioModel struct {
	ID          string    `gorm:"primaryKey;type:varchar(36);column:id"`
	Name        string    `gorm:"column:name;type:varchar(100);index;not null"`
	Description string    `gorm:"column:description;type:text"`
	Assets      string    `gorm:"column:assets;type:text;not null"`
	Correlation string    `gorm:"column:correlation;type:text;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

// TableName 指定表名。
func (PortfolioModel) TableName() string { return "risk_portfolios" }

func toPortfolioModel(def *domain.PortfolioDefinition) (*PortfolioModel, error) {
	assets, err := json.Marshal(def.Assets)
	if err != nil {
		return nil, err
	}
	correlation, err := json.Marshal(def.Correlation)
	if err != nil {
		return nil, err
	}
	return &PortfolioModel{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Assets:      string(assets),
		Correlation: string(correlation),
		CreatedAt:   def.CreatedAt,
		UpdatedAt:   def.UpdatedAt,
	}, nil
}

func toPortfolioDefinition(model *PortfolioModel) (*domain.PortfolioDefinition, error) {
	var assets []domain.Asset
	if err := json.Unmarshal([]byte(model.Assets), &assets); err != nil {
		return nil, err
	}
	var correlation [][]float64
	if err := json.Unmarshal([]byte(model.Correlation), &correlation); err != nil {
		return nil, err
	}
	return &domain.PortfolioDefinition{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Assets:      assets,
		Correlation: correlation,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}, nil
}
