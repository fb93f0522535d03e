package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, receipt *Receipt) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Receipt, error)
	Update(ctx context.Context, db *gorm.DB, receipt *Receipt) error
	ListByProject(ctx context.Context, db *gorm.DB, projectID snowflake.ID) ([]Receipt, error)
	SumByProjectAndStatus(ctx context.Context, db *gorm.DB, projectID snowflake.ID, status ReceiptStatus) (float64, error)
}
