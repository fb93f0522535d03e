package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/craftline/projectledger/internal/receipt/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, receipt *domain.Receipt) error {
	return db.WithContext(ctx).Create(receipt).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := db.WithContext(ctx).Where("id = ?", id).First(&receipt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, receipt *domain.Receipt) error {
	return db.WithContext(ctx).Save(receipt).Error
}

func (r *repo) ListByProject(ctx context.Context, db *gorm.DB, projectID snowflake.ID) ([]domain.Receipt, error) {
	var receipts []domain.Receipt
	err := db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at asc, id asc").
		Find(&receipts).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

func (r *repo) SumByProjectAndStatus(ctx context.Context, db *gorm.DB, projectID snowflake.ID, status domain.ReceiptStatus) (float64, error) {
	var total float64
	err := db.WithContext(ctx).Model(&domain.Receipt{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("project_id = ? AND status = ?", projectID, status).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
