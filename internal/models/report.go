package models

import "time"

const (
	ReportReasonSpam  = "spam"
	ReportReasonAbuse = "abuse"
	ReportReasonOther = "other"

	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"
)

// Report is a user's flag on a comment. A reporter can flag a given
// comment at most once; the unique index plus an ON CONFLICT DO NOTHING
// insert makes a repeat report a no-op rather than an error.
type Report struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CommentID  uint   `gorm:"not null;uniqueIndex:idx_report_comment_reporter;index" json:"comment_id"`
	ReporterID uint   `gorm:"not null;uniqueIndex:idx_report_comment_reporter" json:"reporter_id"`
	Reason     string `gorm:"not null" json:"reason"`
	Details    string `gorm:"not null" json:"details"`

	Status       string     `gorm:"not null;default:pending;index" json:"status"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	ResolvedByID *uint      `json:"resolved_by_id,omitempty"`
}

// ValidReportReason reports whether r is a recognized report reason.
func ValidReportReason(r string) bool {
	switch r {
	case ReportReasonSpam, ReportReasonAbuse, ReportReasonOther:
		return true
	}
	return false
}
