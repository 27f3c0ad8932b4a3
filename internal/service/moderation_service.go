package service

import (
	"context"
	"strings"

	"techhive/internal/models"
	"techhive/internal/observability"
	"techhive/internal/repository"
)

const maxReportDetailsLen = 2000

// ModerationService handles comment reporting and the admin warning
// workflow that resolves reports.
type ModerationService struct {
	reportRepo  repository.ReportRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type ReportCommentInput struct {
	CommentID  uint
	ReporterID uint
	Reason     string
	Details    string
}

// WarnResult describes the outcome of warning a comment's author.
type WarnResult struct {
	Comment         *models.Comment `json:"comment"`
	ReportsResolved int64           `json:"reports_resolved"`
	AuthorWarnings  int             `json:"author_warnings"`
}

// NewModerationService creates a new moderation service.
func NewModerationService(
	reportRepo repository.ReportRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ModerationService {
	return &ModerationService{
		reportRepo:  reportRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		isAdmin:     isAdmin,
	}
}

// ReportComment files a pending report against a comment. Reporting the
// same comment twice from the same user is a silent no-op: the result
// reads as success but no second report row exists.
func (s *ModerationService) ReportComment(ctx context.Context, in ReportCommentInput) (*models.Comment, error) {
	// Clients send the reason in whatever casing their UI uses; store
	// the canonical lowercase form.
	reason := strings.ToLower(strings.TrimSpace(in.Reason))
	if !models.ValidReportReason(reason) {
		return nil, models.NewValidationError("Reason must be spam, abuse or other")
	}
	details := strings.TrimSpace(in.Details)
	if details == "" {
		return nil, models.NewValidationError("Report details are required")
	}
	if len(details) > maxReportDetailsLen {
		return nil, models.NewValidationError("Report details too long (max 2000 characters)")
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, in.ReporterID); err != nil {
		return nil, err
	}

	report := &models.Report{
		CommentID:  comment.ID,
		ReporterID: in.ReporterID,
		Reason:     reason,
		Details:    details,
		Status:     models.ReportStatusPending,
	}

	created, err := s.reportRepo.Create(ctx, report)
	if err != nil {
		observability.RecordEngagementEvent("report", "error")
		return nil, models.NewInternalError(err)
	}
	if created {
		observability.RecordEngagementEvent("report", "ok")
	} else {
		observability.RecordEngagementEvent("report", "duplicate")
	}

	// Refetch so the response carries the current reports count.
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// WarnCommentAuthor resolves every pending report on the comment in one
// update and increments the author's warning count. Only admins may
// call it. Warning a comment with no pending reports still succeeds
// with zero reports resolved, so the action stays idempotent.
func (s *ModerationService) WarnCommentAuthor(ctx context.Context, commentID, adminID uint) (*WarnResult, error) {
	admin, err := s.isAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, models.NewUnauthorizedError("Only admins can issue warnings")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.reportRepo.ResolveAllPending(ctx, commentID, adminID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.ReportsResolvedTotal.Add(float64(resolved))

	author, err := s.userRepo.GetByID(ctx, comment.AuthorID)
	if err != nil {
		return nil, err
	}
	author.WarningsCount++
	if err := s.userRepo.Update(ctx, author); err != nil {
		return nil, err
	}

	return &WarnResult{
		Comment:         comment,
		ReportsResolved: resolved,
		AuthorWarnings:  author.WarningsCount,
	}, nil
}

// ListReports returns reports filtered by status; an empty status
// returns all of them.
func (s *ModerationService) ListReports(ctx context.Context, status string, limit, offset int) ([]*models.Report, error) {
	if status != "" && status != models.ReportStatusPending && status != models.ReportStatusResolved {
		return nil, models.NewValidationError("Status must be pending or resolved")
	}
	return s.reportRepo.ListByStatus(ctx, status, limit, offset)
}
