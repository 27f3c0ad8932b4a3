package repository

import (
	"context"
	"time"

	"techhive/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportRepository defines persistence operations for comment reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) (created bool, err error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Report, error)
	ListPendingByComment(ctx context.Context, commentID uint) ([]*models.Report, error)
	ResolveAllPending(ctx context.Context, commentID uint, resolvedByID uint) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a new ReportRepository implementation.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create inserts the report, ignoring the write when the reporter has
// already flagged this comment. Returns whether a new row was created.
func (r *reportRepository) Create(ctx context.Context, report *models.Report) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "comment_id"}, {Name: "reporter_id"}},
		DoNothing: true,
	}).Create(report)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *reportRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Report, error) {
	var reports []*models.Report
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&reports).Error
	return reports, err
}

func (r *reportRepository) ListPendingByComment(ctx context.Context, commentID uint) ([]*models.Report, error) {
	var reports []*models.Report
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND status = ?", commentID, models.ReportStatusPending).
		Order("created_at ASC").
		Find(&reports).Error
	return reports, err
}

// ResolveAllPending flips every pending report on the comment to resolved
// in one UPDATE, stamping who resolved them and when. Returns the number
// of reports resolved.
func (r *reportRepository) ResolveAllPending(ctx context.Context, commentID uint, resolvedByID uint) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("comment_id = ? AND status = ?", commentID, models.ReportStatusPending).
		Updates(map[string]interface{}{
			"status":         models.ReportStatusResolved,
			"resolved_at":    now,
			"resolved_by_id": resolvedByID,
		})
	return result.RowsAffected, result.Error
}
