package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
)

type portfolioRepository struct {
	db *gorm.DB
}

// NewPortfolioRepository 创建并返回一个新的 PortfolioRepository 实例。
func NewPortfolioRepository(db *gorm.DB) domain.PortfolioRepository {
	return &portfolioRepository{db: db}
}

func (r *portfolioRepository) Save(ctx context.Context, def *domain.PortfolioDefinition) error {
	def.UpdatedAt = time.Now()
	model, err := toPortfolioModel(def)
	if err != nil {
		return fmt.Errorf("failed to serialize portfolio: %w", err)
	}
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *portfolioRepository) FindByID(ctx context.Context, id string) (*domain.PortfolioDefinition, error) {
	var model PortfolioModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPortfolioNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return toPortfolioDefinition(&model)
}

func (r *portfolioRepository) List(ctx context.Context, limit, offset int) ([]*domain.PortfolioDefinition, error) {
	var models []PortfolioModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	defs := make([]*domain.PortfolioDefinition, 0, len(models))
	for i := range models {
		def, err := toPortfolioDefinition(&models[i])
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (r *portfolioRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&PortfolioModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPortfolioNotFound, id)
	}
	return nil
}
