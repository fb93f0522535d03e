package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/craftline/projectledger/pkg/db/pagination"
	"gorm.io/gorm"
)

// Repository persists the project aggregate. The installment plan and the
// financial details are written as a unit; callers pass the handle (or an
// open transaction) explicitly.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, project *Project) error
	// FindByID loads the project with its installment plan ordered by due
	// date. Returns ErrProjectNotFound when missing.
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Project, error)
	// Save writes the project row and upserts every installment currently on
	// the plan.
	Save(ctx context.Context, db *gorm.DB, project *Project) error
	DeleteInstallment(ctx context.Context, db *gorm.DB, projectID, installmentID snowflake.ID) error

	InsertCostRevision(ctx context.Context, db *gorm.DB, revision *CostRevision) error
	ListCostRevisions(ctx context.Context, db *gorm.DB, projectID snowflake.ID, page pagination.Pagination) ([]CostRevision, int64, error)

	// MarkCompleted transitions the project to completed unless it already
	// is; reports whether the row changed. Backs the exactly-once completion
	// trigger.
	MarkCompleted(ctx context.Context, db *gorm.DB, projectID snowflake.ID) (bool, error)
}
