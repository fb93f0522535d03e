package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	actordomain "github.com/craftline/projectledger/internal/actor/domain"
	"github.com/craftline/projectledger/internal/clock"
	"github.com/craftline/projectledger/internal/config"
	"github.com/craftline/projectledger/internal/locking"
	"github.com/craftline/projectledger/internal/project/domain"
	"github.com/craftline/projectledger/internal/reconcile"
	"github.com/craftline/projectledger/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	GenID  *snowflake.Node
	Repo   domain.Repository
	Engine *reconcile.Engine
	Locker locking.ProjectLocker
	Actors actordomain.Resolver
	Cfg    *config.ReconcileConfigHolder
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	clock  clock.Clock
	genID  *snowflake.Node
	repo   domain.Repository
	engine *reconcile.Engine
	locker locking.ProjectLocker
	actors actordomain.Resolver
	cfg    *config.ReconcileConfigHolder
}

func NewService(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("project.service"),
		clock:  p.Clock,
		genID:  p.GenID,
		repo:   p.Repo,
		engine: p.Engine,
		locker: p.Locker,
		actors: p.Actors,
		cfg:    p.Cfg,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error) {
	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil {
		return nil, domain.NewValidationError("client_id", "must be a valid id")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "must not be blank")
	}
	if req.TotalCost < 0 {
		return nil, domain.NewValidationError("total_cost", "must not be negative")
	}
	if req.Advance < 0 {
		return nil, domain.NewValidationError("advance_received", "must not be negative")
	}

	actor, err := s.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	// Seed the cached totals; the full pipeline is not run at creation
	// because no plan or receipts exist yet.
	seed := reconcile.Aggregate(req.TotalCost, req.Advance, 0, 0)

	now := s.clock.Now()
	project := &domain.Project{
		ID:       s.genID.Generate(),
		ClientID: clientID,
		Name:     name,
		Status:   domain.ProjectStatusActive,
		Financials: domain.FinancialDetails{
			TotalCost:       req.TotalCost,
			AdvanceReceived: seed.TotalReceived,
			IncludeGST:      req.IncludeGST,
			RemainingAmount: seed.RemainingAmount,
		},
		Budget:    req.TotalCost,
		CreatedBy: actor.ID,
		UpdatedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Get loads a project and re-derives the installment statuses in memory so
// readers never observe a stale overdue/pending split. Nothing is persisted;
// the next mutation writes the refreshed statuses back.
func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Project, error) {
	project, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	s.engine.Refresh(project)
	return project, nil
}

func (s *Service) AddInstallments(ctx context.Context, projectID snowflake.ID, entries []domain.NewInstallment) (*domain.Project, error) {
	if len(entries) == 0 {
		return nil, domain.NewValidationError("installments", "at least one installment is required")
	}

	return s.mutate(ctx, projectID, "installment_add", nil, func(project *domain.Project, actor actordomain.Actor) error {
		if project.Financials.TotalCost <= 0 {
			return domain.NewConstraintViolation(
				"Project total cost must be set before installments can be added")
		}

		now := s.clock.Now()
		batch := make([]domain.Installment, 0, len(entries))
		var batchTotal float64
		for i, entry := range entries {
			if entry.Amount <= 0 {
				return domain.NewValidationError("installments",
					"entry %d: amount must be greater than zero", i)
			}
			dueDate, err := parseDate(entry.DueDate)
			if err != nil {
				return domain.NewValidationError("installments",
					"entry %d: due_date must be a valid date", i)
			}
			batchTotal += entry.Amount
			batch = append(batch, domain.Installment{
				ID:        s.genID.Generate(),
				ProjectID: project.ID,
				Amount:    entry.Amount,
				DueDate:   dueDate,
				Status:    domain.InstallmentStatusPending,
				Notes:     strings.TrimSpace(entry.Notes),
				CreatedBy: actor.ID,
				UpdatedBy: actor.ID,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}

		epsilon := s.cfg.Get().Epsilon
		total := project.InstallmentTotal() + batchTotal
		if total > project.Financials.TotalCost+epsilon {
			return domain.NewConstraintViolation(
				"Installment total %.2f exceeds project total cost %.2f",
				reconcile.Round2(total), reconcile.Round2(project.Financials.TotalCost))
		}

		project.Plan = append(project.Plan, batch...)
		project.UpdatedBy = actor.ID
		return nil
	})
}

func (s *Service) UpdateInstallment(ctx context.Context, projectID, installmentID snowflake.ID, req domain.UpdateInstallmentRequest) (*domain.Project, error) {
	return s.mutate(ctx, projectID, "installment_update", nil, func(project *domain.Project, actor actordomain.Actor) error {
		idx := project.FindInstallment(installmentID)
		if idx < 0 {
			return domain.ErrInstallmentNotFound
		}

		// Snapshot for the compensating rollback: the cap check depends on
		// the post-mutation total, so the change is applied first and fully
		// restored when the check fails.
		original := project.Plan[idx]
		inst := &project.Plan[idx]

		if req.Amount != nil {
			if *req.Amount <= 0 {
				return domain.NewValidationError("amount", "must be greater than zero")
			}
			inst.Amount = *req.Amount
		}
		if req.DueDate != nil {
			dueDate, err := parseDate(*req.DueDate)
			if err != nil {
				return domain.NewValidationError("due_date", "must be a valid date")
			}
			inst.DueDate = dueDate
		}
		if req.Notes != nil {
			inst.Notes = strings.TrimSpace(*req.Notes)
		}
		if req.Status != nil {
			status := domain.InstallmentStatus(*req.Status)
			if !status.Valid() {
				return domain.NewValidationError("status", "must be one of pending, paid, overdue")
			}
			wasPaid := original.Status == domain.InstallmentStatusPaid
			inst.Status = status
			switch {
			case status == domain.InstallmentStatusPaid:
				switch {
				case req.PaidDate != nil:
					parsed, err := parseDate(*req.PaidDate)
					if err != nil {
						return domain.NewValidationError("paid_date", "must be a valid date")
					}
					inst.PaidDate = &parsed
				case !wasPaid || inst.PaidDate == nil:
					// Only a genuine pending/overdue → paid transition
					// defaults the payment date; re-sending paid keeps it.
					paidAt := s.clock.Now()
					inst.PaidDate = &paidAt
				}
			case wasPaid:
				inst.PaidDate = nil
			}
		} else if req.PaidDate != nil && inst.Status == domain.InstallmentStatusPaid {
			parsed, err := parseDate(*req.PaidDate)
			if err != nil {
				return domain.NewValidationError("paid_date", "must be a valid date")
			}
			inst.PaidDate = &parsed
		}

		epsilon := s.cfg.Get().Epsilon
		total := project.InstallmentTotal()
		if total > project.Financials.TotalCost+epsilon {
			project.Plan[idx] = original
			return domain.NewConstraintViolation(
				"Installment total %.2f exceeds project total cost %.2f",
				reconcile.Round2(total), reconcile.Round2(project.Financials.TotalCost))
		}

		inst.UpdatedBy = actor.ID
		inst.UpdatedAt = s.clock.Now()
		project.UpdatedBy = actor.ID
		return nil
	})
}

func (s *Service) DeleteInstallment(ctx context.Context, projectID, installmentID snowflake.ID) (*domain.Project, error) {
	// The row removal rides the pipeline's save transaction so a failing
	// reconcile leaves the plan intact.
	persist := func(tx *gorm.DB) error {
		return s.repo.DeleteInstallment(ctx, tx, projectID, installmentID)
	}
	return s.mutate(ctx, projectID, "installment_delete", persist, func(project *domain.Project, actor actordomain.Actor) error {
		idx := project.FindInstallment(installmentID)
		if idx < 0 {
			return domain.ErrInstallmentNotFound
		}
		project.Plan = append(project.Plan[:idx], project.Plan[idx+1:]...)
		project.UpdatedBy = actor.ID
		return nil
	})
}

func (s *Service) ReviseCost(ctx context.Context, projectID snowflake.ID, req domain.ReviseCostRequest) (*domain.Project, error) {
	if req.NewCost < 0 {
		return nil, domain.NewValidationError("new_cost", "must not be negative")
	}

	release, err := s.locker.Acquire(ctx, projectID)
	if err != nil {
		return nil, err
	}
	defer release()

	project, err := s.repo.FindByID(ctx, s.db, projectID)
	if err != nil {
		return nil, err
	}

	epsilon := s.cfg.Get().Epsilon
	installmentTotal := project.InstallmentTotal()
	if installmentTotal > req.NewCost+epsilon {
		return nil, domain.NewConstraintViolation(
			"Installment total %.2f exceeds revised total cost %.2f",
			reconcile.Round2(installmentTotal), reconcile.Round2(req.NewCost))
	}

	// Same cost: the guard above already ran, so the call succeeds without
	// appending a revision entry.
	if req.NewCost == project.Financials.TotalCost {
		return project, nil
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "must not be blank")
	}

	actor, err := s.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	revision := &domain.CostRevision{
		ID:            s.genID.Generate(),
		ProjectID:     project.ID,
		PreviousCost:  project.Financials.TotalCost,
		NewCost:       req.NewCost,
		Reason:        reason,
		ChangedBy:     actor.ID,
		ChangedByRole: domain.ActorRole(actor.Role),
		ChangedAt:     now,
		Metadata: datatypes.JSONMap{
			"actor_name": actor.Name,
		},
	}
	project.Financials.TotalCost = req.NewCost
	project.Budget = req.NewCost
	project.UpdatedBy = actor.ID

	// The revision commits with the project save or not at all: a cost change
	// that failed to take effect must leave no audit entry behind.
	_, err = s.engine.RunWith(ctx, s.db, project, "cost_revision", func(tx *gorm.DB) error {
		return s.repo.InsertCostRevision(ctx, tx, revision)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("project cost revised",
		zap.Int64("project_id", project.ID.Int64()),
		zap.Float64("previous_cost", reconcile.Round2(revision.PreviousCost)),
		zap.Float64("new_cost", reconcile.Round2(revision.NewCost)),
		zap.Int64("changed_by", actor.ID.Int64()))
	return project, nil
}

func (s *Service) ListCostRevisions(ctx context.Context, projectID snowflake.ID, page pagination.Pagination) (domain.CostHistoryResponse, error) {
	if _, err := s.repo.FindByID(ctx, s.db, projectID); err != nil {
		return domain.CostHistoryResponse{}, err
	}

	page = page.Normalize()
	revisions, count, err := s.repo.ListCostRevisions(ctx, s.db, projectID, page)
	if err != nil {
		return domain.CostHistoryResponse{}, err
	}
	return domain.CostHistoryResponse{
		PageInfo:  pagination.BuildPageInfo(page, count),
		Revisions: revisions,
	}, nil
}

func (s *Service) Recalculate(ctx context.Context, projectID snowflake.ID) (domain.RecalculateResult, error) {
	release, err := s.locker.Acquire(ctx, projectID)
	if err != nil {
		return domain.RecalculateResult{}, err
	}
	defer release()

	project, err := s.repo.FindByID(ctx, s.db, projectID)
	if err != nil {
		return domain.RecalculateResult{}, err
	}
	return s.engine.Run(ctx, s.db, project, "recalculate")
}

// mutate runs a plan mutation under the project lock and, when it succeeds,
// pushes the project through the reconciliation pipeline. A mutation error
// leaves nothing persisted; a persist hook commits inside the pipeline's save
// transaction.
func (s *Service) mutate(ctx context.Context, projectID snowflake.ID, source string, persist func(tx *gorm.DB) error, fn func(*domain.Project, actordomain.Actor) error) (*domain.Project, error) {
	release, err := s.locker.Acquire(ctx, projectID)
	if err != nil {
		return nil, err
	}
	defer release()

	project, err := s.repo.FindByID(ctx, s.db, projectID)
	if err != nil {
		return nil, err
	}

	actor, err := s.actors.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	if err := fn(project, actor); err != nil {
		return nil, err
	}

	if _, err := s.engine.RunWith(ctx, s.db, project, source, persist); err != nil {
		return nil, err
	}
	return project, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
