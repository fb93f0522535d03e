package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/craftline/projectledger/internal/project/domain"
	"github.com/craftline/projectledger/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, project *domain.Project) error {
	return db.WithContext(ctx).Create(project).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Project, error) {
	var project domain.Project
	err := db.WithContext(ctx).
		Preload("Plan", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("due_date asc, id asc")
		}).
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, project *domain.Project) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.Project{}).
			Where("id = ?", project.ID).
			Updates(map[string]interface{}{
				"name":             project.Name,
				"status":           project.Status,
				"total_cost":       project.Financials.TotalCost,
				"advance_received": project.Financials.AdvanceReceived,
				"include_gst":      project.Financials.IncludeGST,
				"remaining_amount": project.Financials.RemainingAmount,
				"budget":           project.Budget,
				"updated_by":       project.UpdatedBy,
				"updated_at":       project.UpdatedAt,
			}).Error
		if err != nil {
			return err
		}
		for i := range project.Plan {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&project.Plan[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repo) DeleteInstallment(ctx context.Context, db *gorm.DB, projectID, installmentID snowflake.ID) error {
	result := db.WithContext(ctx).
		Where("id = ? AND project_id = ?", installmentID, projectID).
		Delete(&domain.Installment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInstallmentNotFound
	}
	return nil
}

func (r *repo) InsertCostRevision(ctx context.Context, db *gorm.DB, revision *domain.CostRevision) error {
	return db.WithContext(ctx).Create(revision).Error
}

func (r *repo) ListCostRevisions(ctx context.Context, db *gorm.DB, projectID snowflake.ID, page pagination.Pagination) ([]domain.CostRevision, int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.CostRevision{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	var revisions []domain.CostRevision
	err = page.Apply(db.WithContext(ctx)).
		Where("project_id = ?", projectID).
		Order("changed_at desc, id desc").
		Find(&revisions).Error
	if err != nil {
		return nil, 0, err
	}
	return revisions, count, nil
}

func (r *repo) MarkCompleted(ctx context.Context, db *gorm.DB, projectID snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Model(&domain.Project{}).
		Where("id = ? AND status <> ?", projectID, domain.ProjectStatusCompleted).
		Update("status", domain.ProjectStatusCompleted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
