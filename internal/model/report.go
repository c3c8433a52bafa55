package model

import "time"

// ReportStatus is the moderation lifecycle state of a report.
type ReportStatus string

const (
	ReportPending  ReportStatus = "PENDING"
	ReportReviewed ReportStatus = "REVIEWED"
	ReportResolved ReportStatus = "RESOLVED"
	ReportRejected ReportStatus = "REJECTED"
)

// Report is a user-filed report against another user or their content.
// The trust scorer consumes reports read-only; moderation owns the lifecycle.
type Report struct {
	ID           int64        `json:"id"`
	ReporterID   string       `json:"reporterId"`
	ReportedID   string       `json:"reportedId"`
	ConfessionID *string      `json:"confessionId,omitempty"`
	Reason       string       `json:"reason"`
	Status       ReportStatus `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
}
