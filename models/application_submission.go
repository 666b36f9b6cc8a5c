package models

import "time"

const SubmissionStatusSubmitted = "submitted"

// ApplicationSubmission records a funding application handed in for review.
type ApplicationSubmission struct {
	SubmissionID         string    `gorm:"primaryKey;column:submission_id;size:64" json:"submission_id"`
	UserID               string    `gorm:"column:user_id;size:64;not null;index" json:"user_id"`
	Status               string    `gorm:"column:status;size:32;not null" json:"status"`
	CompletionPercentage int       `gorm:"column:completion_percentage" json:"completion_percentage"`
	SectionsSnapshot     string    `gorm:"column:sections_snapshot;type:longtext" json:"-"`
	SubmittedAt          time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	CreatedAt            time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ApplicationSubmission) TableName() string {
	return "application_submissions"
}
