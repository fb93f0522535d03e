package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	actordomain "github.com/craftline/projectledger/internal/actor/domain"
	"github.com/craftline/projectledger/internal/clock"
	projectdomain "github.com/craftline/projectledger/internal/project/domain"
	"github.com/craftline/projectledger/internal/receipt/domain"
	pkgdb "github.com/craftline/projectledger/pkg/db"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	GenID    *snowflake.Node
	Repo     domain.Repository
	Actors   actordomain.Resolver
	Projects projectdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	genID    *snowflake.Node
	repo     domain.Repository
	actors   actordomain.Resolver
	projects projectdomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("receipt.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		repo:     p.Repo,
		actors:   p.Actors,
		projects: p.Projects,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordReceiptRequest) (*domain.Receipt, error) {
	projectID, err := snowflake.ParseString(strings.TrimSpace(req.ProjectID))
	if err != nil {
		return nil, projectdomain.NewValidationError("project_id", "must be a valid id")
	}
	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil {
		return nil, projectdomain.NewValidationError("client_id", "must be a valid id")
	}
	if req.Amount <= 0 {
		return nil, projectdomain.NewValidationError("amount", "must be greater than zero")
	}

	// The project must exist before money can be recorded against it.
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}

	actor, err := s.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	receipt := &domain.Receipt{
		ID:            s.genID.Generate(),
		ReceiptNumber: fmt.Sprintf("RCT-%s", uuid.NewString()),
		ProjectID:     projectID,
		ClientID:      clientID,
		Amount:        req.Amount,
		Status:        domain.ReceiptStatusPending,
		Notes:         strings.TrimSpace(req.Notes),
		RecordedBy:    actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, s.db, receipt); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, projectdomain.NewValidationError("receipt_number", "already in use")
		}
		return nil, err
	}
	return receipt, nil
}

// Approve flips a pending receipt to approved and re-runs the financial
// reconciliation for the linked project so the cached totals stay current.
func (s *Service) Approve(ctx context.Context, receiptID snowflake.ID) (*domain.Receipt, error) {
	receipt, err := s.transition(ctx, receiptID, domain.ReceiptStatusApproved)
	if err != nil {
		return nil, err
	}

	if _, err := s.projects.Recalculate(ctx, receipt.ProjectID); err != nil {
		// The receipt is approved; reconciliation can be replayed later.
		s.log.Warn("post-approval reconciliation failed",
			zap.Int64("receipt_id", receipt.ID.Int64()),
			zap.Int64("project_id", receipt.ProjectID.Int64()),
			zap.Error(err))
	}
	return receipt, nil
}

func (s *Service) Reject(ctx context.Context, receiptID snowflake.ID) (*domain.Receipt, error) {
	return s.transition(ctx, receiptID, domain.ReceiptStatusRejected)
}

func (s *Service) transition(ctx context.Context, receiptID snowflake.ID, to domain.ReceiptStatus) (*domain.Receipt, error) {
	receipt, err := s.repo.FindByID(ctx, s.db, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt.Status != domain.ReceiptStatusPending {
		return nil, domain.ErrReceiptNotPending
	}

	actor, err := s.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	receipt.Status = to
	receipt.UpdatedAt = now
	if to == domain.ReceiptStatusApproved {
		receipt.ApprovedBy = &actor.ID
		receipt.ApprovedAt = &now
	}
	if err := s.repo.Update(ctx, s.db, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (s *Service) ListByProject(ctx context.Context, projectID snowflake.ID) ([]domain.Receipt, error) {
	return s.repo.ListByProject(ctx, s.db, projectID)
}

func (s *Service) SumApproved(ctx context.Context, projectID snowflake.ID) (float64, error) {
	return s.repo.SumByProjectAndStatus(ctx, s.db, projectID, domain.ReceiptStatusApproved)
}
