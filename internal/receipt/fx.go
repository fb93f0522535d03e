package receipt

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/craftline/projectledger/internal/receipt/domain"
	"github.com/craftline/projectledger/internal/receipt/repository"
	"github.com/craftline/projectledger/internal/receipt/service"
	"github.com/craftline/projectledger/internal/reconcile"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// source adapts the receipt repository to the reconciliation engine without
// pulling the full receipt service into the engine's dependency graph.
type source struct {
	db   *gorm.DB
	repo domain.Repository
}

func (s source) SumApproved(ctx context.Context, projectID snowflake.ID) (float64, error) {
	return s.repo.SumByProjectAndStatus(ctx, s.db, projectID, domain.ReceiptStatusApproved)
}

func newSource(db *gorm.DB, repo domain.Repository) reconcile.ReceiptSource {
	return source{db: db, repo: repo}
}

var Module = fx.Module("receipt.service",
	fx.Provide(repository.Provide),
	fx.Provide(newSource),
	fx.Provide(service.NewService),
)
