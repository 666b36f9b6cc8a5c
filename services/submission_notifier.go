package services

import (
	"context"
	"fmt"
	"strings"

	"funding-application-api/models"

	"go.uber.org/zap"
)

// Mailer delivers one HTML message.
type Mailer interface {
	SendMail(to []string, subject, html string) error
}

// MailNotifier emails the applicant a confirmation for each submission.
type MailNotifier struct {
	users   *UserService
	mailer  Mailer
	baseURL string
	logger  *zap.Logger
}

func NewMailNotifier(users *UserService, mailer Mailer, baseURL string, logger *zap.Logger) *MailNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MailNotifier{
		users:   users,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (n *MailNotifier) NotifySubmitted(ctx context.Context, sub models.ApplicationSubmission) error {
	user, err := n.users.FindByID(ctx, sub.UserID)
	if err != nil {
		return err
	}
	if user == nil || user.Email == "" {
		n.logger.Debug("no recipient for submission", zap.String("submission_id", sub.SubmissionID))
		return nil
	}

	name := user.FullName
	if name == "" {
		name = "Applicant"
	}
	subject := "Funding application received"
	html := buildEmailTemplate(subject,
		[]string{
			fmt.Sprintf("Dear %s,", name),
			"Thank you. Your funding application has been submitted and is now with our funders for review.",
		},
		[]emailMetaItem{
			{Label: "Reference", Value: sub.SubmissionID},
			{Label: "Submitted", Value: sub.SubmittedAt.Format("2 January 2006 15:04")},
			{Label: "Completion", Value: fmt.Sprintf("%d%%", sub.CompletionPercentage)},
		},
		"View application", n.baseURL+"/applications/"+sub.SubmissionID,
	)

	if err := n.mailer.SendMail([]string{user.Email}, subject, html); err != nil {
		return fmt.Errorf("send confirmation to %s: %w", user.Email, err)
	}
	return nil
}
