package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/craftline/projectledger/internal/payment/domain"
	projectdomain "github.com/craftline/projectledger/internal/project/domain"
	receiptdomain "github.com/craftline/projectledger/internal/receipt/domain"
	"github.com/craftline/projectledger/internal/reconcile"
	"github.com/craftline/projectledger/internal/wallet/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Engine   *reconcile.Engine
	Receipts receiptdomain.Service
	Payments paymentdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	engine   *reconcile.Engine
	receipts receiptdomain.Service
	payments paymentdomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("wallet.service"),
		engine:   p.Engine,
		receipts: p.Receipts,
		payments: p.Payments,
	}
}

// Summary builds the client wallet from persisted project state plus live
// receipt and payment queries. It reads only; installment statuses are
// re-derived in memory so the view is current without a write.
func (s *Service) Summary(ctx context.Context, clientID snowflake.ID) (*domain.WalletResponse, error) {
	var projects []projectdomain.Project
	err := s.db.WithContext(ctx).
		Preload("Plan", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("due_date asc, id asc")
		}).
		Where("client_id = ?", clientID).
		Order("created_at asc, id asc").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	resp := &domain.WalletResponse{
		ClientID: clientID,
		Projects: make([]domain.ProjectWallet, 0, len(projects)),
	}

	for i := range projects {
		project := &projects[i]
		s.engine.Refresh(project)

		approved, err := s.receipts.SumApproved(ctx, project.ID)
		if err != nil {
			return nil, &projectdomain.DependencyFailure{Dependency: "receipts", Err: err}
		}

		paid := project.PaidInstallmentTotal()
		exclInstallments := project.Financials.AdvanceReceived - paid
		if exclInstallments < 0 {
			exclInstallments = 0
		}

		entry := domain.ProjectWallet{
			ProjectID:               project.ID,
			Name:                    project.Name,
			Status:                  project.Status,
			TotalCost:               reconcile.Round2(project.Financials.TotalCost),
			TotalReceived:           reconcile.Round2(project.Financials.AdvanceReceived),
			RemainingAmount:         reconcile.Round2(project.Financials.RemainingAmount),
			ApprovedReceipts:        reconcile.Round2(approved),
			PaidInstallments:        reconcile.Round2(paid),
			AdvanceExclInstallments: reconcile.Round2(exclInstallments),
			Installments:            make([]domain.InstallmentView, 0, len(project.Plan)),
		}
		for j := range project.Plan {
			inst := &project.Plan[j]
			entry.Installments = append(entry.Installments, domain.InstallmentView{
				ID:       inst.ID,
				Amount:   inst.Amount,
				DueDate:  inst.DueDate,
				Status:   inst.Status,
				PaidDate: inst.PaidDate,
			})
		}
		resp.Projects = append(resp.Projects, entry)

		resp.Summary.TotalCost += project.Financials.TotalCost
		resp.Summary.TotalReceived += project.Financials.AdvanceReceived
		resp.Summary.TotalRemaining += project.Financials.RemainingAmount
		resp.Summary.ProjectCount++
		if project.Status == projectdomain.ProjectStatusCompleted {
			resp.Summary.CompletedCount++
		}
	}

	standalone, err := s.payments.SumCompletedByClient(ctx, clientID)
	if err != nil {
		return nil, &projectdomain.DependencyFailure{Dependency: "payments", Err: err}
	}
	resp.Summary.StandalonePaid = standalone
	resp.Summary.TotalPaid = resp.Summary.TotalReceived + standalone

	resp.Summary.TotalCost = reconcile.Round2(resp.Summary.TotalCost)
	resp.Summary.TotalReceived = reconcile.Round2(resp.Summary.TotalReceived)
	resp.Summary.TotalRemaining = reconcile.Round2(resp.Summary.TotalRemaining)
	resp.Summary.StandalonePaid = reconcile.Round2(resp.Summary.StandalonePaid)
	resp.Summary.TotalPaid = reconcile.Round2(resp.Summary.TotalPaid)
	return resp, nil
}
