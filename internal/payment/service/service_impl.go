package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/craftline/projectledger/internal/clock"
	"github.com/craftline/projectledger/internal/payment/domain"
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
		log:   p.Log.Named("payment.service"),
		clock: p.Clock,
		genID: p.GenID,
	}
}

func (s *Service) Record(ctx context.Context, record *domain.PaymentRecord) error {
	if record == nil {
		return errors.New("payment record is required")
	}
	if record.Amount <= 0 {
		return errors.New("payment amount must be positive")
	}
	now := s.clock.Now()
	if record.ID == 0 {
		record.ID = s.genID.Generate()
	}
	if record.Status == "" {
		record.Status = domain.PaymentStatusPending
	}
	record.CreatedAt = now
	record.UpdatedAt = now
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *Service) SumCompletedByClient(ctx context.Context, clientID snowflake.ID) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Model(&domain.PaymentRecord{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("client_id = ? AND status = ?", clientID, domain.PaymentStatusCompleted).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
