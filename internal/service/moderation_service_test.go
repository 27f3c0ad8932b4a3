package service

import (
	"context"
	"testing"

	"techhive/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reportRepoStub is a stub for repository.ReportRepository.
type reportRepoStub struct {
	createFn               func(context.Context, *models.Report) (bool, error)
	listByStatusFn         func(context.Context, string, int, int) ([]*models.Report, error)
	listPendingByCommentFn func(context.Context, uint) ([]*models.Report, error)
	resolveAllPendingFn    func(context.Context, uint, uint) (int64, error)
}

func (s *reportRepoStub) Create(ctx context.Context, report *models.Report) (bool, error) {
	return s.createFn(ctx, report)
}
func (s *reportRepoStub) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Report, error) {
	return s.listByStatusFn(ctx, status, limit, offset)
}
func (s *reportRepoStub) ListPendingByComment(ctx context.Context, commentID uint) ([]*models.Report, error) {
	return s.listPendingByCommentFn(ctx, commentID)
}
func (s *reportRepoStub) ResolveAllPending(ctx context.Context, commentID, resolvedByID uint) (int64, error) {
	return s.resolveAllPendingFn(ctx, commentID, resolvedByID)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		createFn:               func(_ context.Context, _ *models.Report) (bool, error) { return true, nil },
		listByStatusFn:         func(_ context.Context, _ string, _, _ int) ([]*models.Report, error) { return nil, nil },
		listPendingByCommentFn: func(_ context.Context, _ uint) ([]*models.Report, error) { return nil, nil },
		resolveAllPendingFn:    func(_ context.Context, _, _ uint) (int64, error) { return 0, nil },
	}
}

func TestModerationService_ReportComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewModerationService(noopReportRepo(), noopCommentRepo(), noopUserRepo(), denyAdmin)
	ctx := context.Background()

	t.Run("unknown reason", func(t *testing.T) {
		t.Parallel()
		_, err := svc.ReportComment(ctx, ReportCommentInput{CommentID: 1, ReporterID: 1, Reason: "rude", Details: "x"})
		assertValidationError(t, err)
	})

	t.Run("empty details", func(t *testing.T) {
		t.Parallel()
		_, err := svc.ReportComment(ctx, ReportCommentInput{CommentID: 1, ReporterID: 1, Reason: models.ReportReasonSpam})
		assertValidationError(t, err)
	})

	t.Run("missing comment propagates", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		svc2 := NewModerationService(noopReportRepo(), commentRepo, noopUserRepo(), denyAdmin)
		_, err := svc2.ReportComment(ctx, ReportCommentInput{
			CommentID:  99,
			ReporterID: 1,
			Reason:     models.ReportReasonSpam,
			Details:    "spammy link",
		})
		assertNotFoundError(t, err)
	})
}

func TestModerationService_ReportComment_CreatesPending(t *testing.T) {
	t.Parallel()

	var created *models.Report
	reportRepo := noopReportRepo()
	reportRepo.createFn = func(_ context.Context, r *models.Report) (bool, error) {
		created = r
		return true, nil
	}

	svc := NewModerationService(reportRepo, noopCommentRepo(), noopUserRepo(), denyAdmin)
	_, err := svc.ReportComment(context.Background(), ReportCommentInput{
		CommentID:  7,
		ReporterID: 2,
		Reason:     models.ReportReasonAbuse,
		Details:    "  rude  ",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(7), created.CommentID)
	assert.Equal(t, uint(2), created.ReporterID)
	assert.Equal(t, models.ReportStatusPending, created.Status)
	assert.Equal(t, "rude", created.Details, "details are trimmed")
}

func TestModerationService_ReportComment_ReasonCaseNormalized(t *testing.T) {
	t.Parallel()

	var created *models.Report
	reportRepo := noopReportRepo()
	reportRepo.createFn = func(_ context.Context, r *models.Report) (bool, error) {
		created = r
		return true, nil
	}

	svc := NewModerationService(reportRepo, noopCommentRepo(), noopUserRepo(), denyAdmin)
	_, err := svc.ReportComment(context.Background(), ReportCommentInput{
		CommentID:  7,
		ReporterID: 2,
		Reason:     "Abuse",
		Details:    "shouting",
	})
	require.NoError(t, err, "reason casing from the client must not matter")
	require.NotNil(t, created)
	assert.Equal(t, models.ReportReasonAbuse, created.Reason)
}

func TestModerationService_ReportComment_DuplicateIsSilent(t *testing.T) {
	t.Parallel()

	reportRepo := noopReportRepo()
	reportRepo.createFn = func(_ context.Context, _ *models.Report) (bool, error) {
		// Second report from the same user: insert skipped.
		return false, nil
	}

	svc := NewModerationService(reportRepo, noopCommentRepo(), noopUserRepo(), denyAdmin)
	comment, err := svc.ReportComment(context.Background(), ReportCommentInput{
		CommentID:  7,
		ReporterID: 2,
		Reason:     models.ReportReasonSpam,
		Details:    "again",
	})
	require.NoError(t, err, "repeat reports must not surface as errors")
	assert.NotNil(t, comment)
}

func TestModerationService_WarnCommentAuthor(t *testing.T) {
	t.Parallel()

	allowAdmin := func(_ context.Context, _ uint) (bool, error) { return true, nil }

	t.Run("non-admin rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewModerationService(noopReportRepo(), noopCommentRepo(), noopUserRepo(), denyAdmin)
		_, err := svc.WarnCommentAuthor(context.Background(), 1, 5)
		assertUnauthorizedError(t, err)
	})

	t.Run("resolves pending reports and counts the warning", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, AuthorID: 9}, nil
		}

		var resolvedComment, resolver uint
		reportRepo := noopReportRepo()
		reportRepo.resolveAllPendingFn = func(_ context.Context, commentID, resolvedByID uint) (int64, error) {
			resolvedComment = commentID
			resolver = resolvedByID
			return 2, nil
		}

		author := &models.User{ID: 9, WarningsCount: 1}
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return author, nil }

		svc := NewModerationService(reportRepo, commentRepo, userRepo, allowAdmin)
		result, err := svc.WarnCommentAuthor(context.Background(), 3, 5)
		require.NoError(t, err)
		assert.EqualValues(t, 2, result.ReportsResolved)
		assert.Equal(t, 2, result.AuthorWarnings)
		assert.Equal(t, uint(3), resolvedComment)
		assert.Equal(t, uint(5), resolver, "the acting admin is stamped as resolver")
	})

	t.Run("no pending reports still succeeds", func(t *testing.T) {
		t.Parallel()
		svc := NewModerationService(noopReportRepo(), noopCommentRepo(), noopUserRepo(), allowAdmin)
		result, err := svc.WarnCommentAuthor(context.Background(), 3, 5)
		require.NoError(t, err)
		assert.EqualValues(t, 0, result.ReportsResolved)
	})

	t.Run("missing comment propagates", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		svc := NewModerationService(noopReportRepo(), commentRepo, noopUserRepo(), allowAdmin)
		_, err := svc.WarnCommentAuthor(context.Background(), 99, 5)
		assertNotFoundError(t, err)
	})
}

func TestModerationService_ListReports_StatusFilter(t *testing.T) {
	t.Parallel()

	svc := NewModerationService(noopReportRepo(), noopCommentRepo(), noopUserRepo(), denyAdmin)

	_, err := svc.ListReports(context.Background(), "open", 10, 0)
	assertValidationError(t, err)

	_, err = svc.ListReports(context.Background(), "", 10, 0)
	assert.NoError(t, err)

	_, err = svc.ListReports(context.Background(), models.ReportStatusPending, 10, 0)
	assert.NoError(t, err)
}
