package services

import (
	"context"
	"errors"
	"testing"

	"funding-application-api/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to      []string
	subject string
	html    string
	calls   int
	err     error
}

func (f *fakeMailer) SendMail(to []string, subject, html string) error {
	f.calls++
	f.to, f.subject, f.html = to, subject, html
	return f.err
}

var userColumns = []string{"user_id", "email", "password", "full_name", "role", "created_at", "updated_at", "delete_at"}

func testSubmission() models.ApplicationSubmission {
	return models.ApplicationSubmission{
		SubmissionID:         "SUB-42",
		UserID:               "u-1",
		Status:               models.SubmissionStatusSubmitted,
		CompletionPercentage: 93,
		SubmittedAt:          fixedNow,
	}
}

func TestMailNotifierSendsConfirmation(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectUserSQL).WithArgs("u-1").WillReturnRows(
		sqlmock.NewRows(userColumns).AddRow("u-1", "thandi@example.com", "x", "Thandi <M>", "user", fixedNow, fixedNow, nil),
	)
	mailer := &fakeMailer{}
	n := NewMailNotifier(NewUserService(db), mailer, "https://apply.example.com/", nil)

	require.NoError(t, n.NotifySubmitted(context.Background(), testSubmission()))

	assert.Equal(t, 1, mailer.calls)
	assert.Equal(t, []string{"thandi@example.com"}, mailer.to)
	assert.Equal(t, "Funding application received", mailer.subject)
	assert.Contains(t, mailer.html, "SUB-42")
	assert.Contains(t, mailer.html, "93%")
	assert.Contains(t, mailer.html, "https://apply.example.com/applications/SUB-42")
	assert.Contains(t, mailer.html, "Thandi &lt;M&gt;")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMailNotifierSkipsUnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectUserSQL).WithArgs("u-1").WillReturnRows(sqlmock.NewRows(userColumns))
	mailer := &fakeMailer{}
	n := NewMailNotifier(NewUserService(db), mailer, "", nil)

	require.NoError(t, n.NotifySubmitted(context.Background(), testSubmission()))
	assert.Zero(t, mailer.calls)
}

func TestMailNotifierReportsSendFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectUserSQL).WithArgs("u-1").WillReturnRows(
		sqlmock.NewRows(userColumns).AddRow("u-1", "a@example.com", "x", "", "user", fixedNow, fixedNow, nil),
	)
	mailer := &fakeMailer{err: errors.New("421 try later")}
	n := NewMailNotifier(NewUserService(db), mailer, "", nil)

	err := n.NotifySubmitted(context.Background(), testSubmission())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a@example.com")
	assert.Contains(t, mailer.html, "Dear Applicant,")
}

func TestUserServiceFindByEmailNormalises(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM .users. WHERE email = \? AND delete_at IS NULL`).
		WithArgs("someone@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u-9", "someone@example.com", "h", "S", "admin", fixedNow, fixedNow, nil))

	user, err := NewUserService(db).FindByEmail(context.Background(), "  Someone@Example.COM ")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.IsAdmin())
	require.NoError(t, mock.ExpectationsWereMet())
}
