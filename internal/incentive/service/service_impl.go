package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/craftline/projectledger/internal/clock"
	"github.com/craftline/projectledger/internal/incentive/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("incentive.service"),
		clock: p.Clock,
		genID: p.GenID,
	}
}

func (s *Service) FindPendingConversion(ctx context.Context, projectID snowflake.ID) ([]domain.Incentive, error) {
	var incentives []domain.Incentive
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND conversion_based = ? AND pending_balance > 0", projectID, true).
		Order("created_at asc").
		Find(&incentives).Error
	if err != nil {
		return nil, err
	}
	return incentives, nil
}

// MovePendingToCurrent debits pending and credits current in a single
// guarded UPDATE, so a concurrent transfer cannot release the same balance
// twice.
func (s *Service) MovePendingToCurrent(ctx context.Context, incentiveID snowflake.ID, amount float64) error {
	if amount <= 0 {
		return errors.New("transfer amount must be positive")
	}

	result := s.db.WithContext(ctx).Model(&domain.Incentive{}).
		Where("id = ? AND pending_balance >= ?", incentiveID, amount).
		Updates(map[string]interface{}{
			"pending_balance": gorm.Expr("pending_balance - ?", amount),
			"current_balance": gorm.Expr("current_balance + ?", amount),
			"updated_at":      s.clock.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&domain.Incentive{}).
			Where("id = ?", incentiveID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrIncentiveNotFound
		}
		return domain.ErrInsufficientPending
	}

	s.log.Info("incentive transfer applied",
		zap.Int64("incentive_id", incentiveID.Int64()),
		zap.Float64("amount", amount))
	return nil
}

func (s *Service) Grant(ctx context.Context, incentive *domain.Incentive) error {
	if incentive == nil {
		return errors.New("incentive is required")
	}
	now := s.clock.Now()
	if incentive.ID == 0 {
		incentive.ID = s.genID.Generate()
	}
	incentive.CreatedAt = now
	incentive.UpdatedAt = now
	return s.db.WithContext(ctx).Create(incentive).Error
}
