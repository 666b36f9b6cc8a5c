package services

import (
	"database/sql/driver"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	selectSectionsSQL = regexp.QuoteMeta("SELECT * FROM `application_sections` WHERE user_id = ? ORDER BY updated_at DESC")
	upsertSectionSQL  = "^INSERT INTO `application_sections` .* ON DUPLICATE KEY UPDATE " +
		"`completed`=\\?,`completion_percentage`=\\?,`data`=\\?,`updated_at`=\\?,`version`=version \\+ 1$"
	deleteSectionsSQL = regexp.QuoteMeta("DELETE FROM `application_sections` WHERE user_id = ?")
	insertSubmitSQL   = "INSERT INTO `application_submissions`"
	selectUserSQL     = regexp.QuoteMeta("SELECT * FROM `users` WHERE user_id = ? AND delete_at IS NULL")
)

var sectionColumns = []string{
	"id", "user_id", "section_type", "data", "completed",
	"completion_percentage", "version", "created_at", "updated_at",
}

var fixedNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	return newMockDBWithConverter(t, driver.DefaultParameterConverter)
}

func newMockDBWithConverter(t *testing.T, conv driver.ValueConverter) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.ValueConverterOption(conv))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func newTestStore(t *testing.T, opts ...StoreOption) (*SectionStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	opts = append([]StoreOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewSectionStore(db, nil, opts...), mock
}

type sectionRow struct {
	sectionType string
	data        string
	completed   bool
	percentage  int
	updatedAt   time.Time
}

func sectionRows(userID string, rows ...sectionRow) *sqlmock.Rows {
	out := sqlmock.NewRows(sectionColumns)
	for i, r := range rows {
		out.AddRow(int64(i+1), userID, r.sectionType, r.data, r.completed, r.percentage, 1, r.updatedAt, r.updatedAt)
	}
	return out
}

// captureJSON records every JSON document bound as a query argument.
type captureJSON struct {
	seen []string
}

func (c *captureJSON) ConvertValue(v interface{}) (driver.Value, error) {
	if s, ok := v.(string); ok && strings.HasPrefix(s, "{") {
		c.seen = append(c.seen, s)
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}
