package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"funding-application-api/models"
	"funding-application-api/monitor"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SectionView is a stored section with its document decoded.
type SectionView struct {
	SectionType          models.SectionType     `json:"section_type"`
	Data                 map[string]interface{} `json:"data"`
	Completed            bool                   `json:"completed"`
	CompletionPercentage int                    `json:"completion_percentage"`
	Version              int                    `json:"version"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// ApplicationSnapshot is everything a user has saved so far.
type ApplicationSnapshot struct {
	UserID      string        `json:"user_id"`
	Sections    []SectionView `json:"sections"`
	Completion  int           `json:"completion_percentage"`
	LastUpdated time.Time     `json:"last_updated"`
}

type SaveSectionInput struct {
	UserID      string
	SectionType string
	Data        map[string]interface{}
	Completed   bool
	// CompletionPercentage overrides the computed value when set.
	CompletionPercentage *int
}

type SaveSectionResult struct {
	Section    SectionView `json:"section"`
	Completion int         `json:"completion_percentage"`
	Message    string      `json:"message"`
}

type SubmissionResult struct {
	SubmissionID         string    `json:"submission_id"`
	UserID               string    `json:"user_id"`
	Status               string    `json:"status"`
	CompletionPercentage int       `json:"completion_percentage"`
	SubmittedAt          time.Time `json:"submitted_at"`
	Message              string    `json:"message"`
}

type SectionProgress struct {
	Completed            bool      `json:"completed"`
	CompletionPercentage int       `json:"completion_percentage"`
	LastUpdated          time.Time `json:"last_updated"`
}

type ProgressReport struct {
	Completion        int                                    `json:"completion_percentage"`
	CompletedSections int                                    `json:"completed_sections"`
	TotalSections     int                                    `json:"total_sections"`
	RequiredCompleted int                                    `json:"required_completed"`
	RequiredTotal     int                                    `json:"required_total"`
	IsSubmissionReady bool                                   `json:"is_submission_ready"`
	Sections          map[models.SectionType]SectionProgress `json:"sections"`
	LastActivity      *time.Time                             `json:"last_activity"`
}

// SubmissionNotifier is told about every accepted submission.
type SubmissionNotifier interface {
	NotifySubmitted(ctx context.Context, sub models.ApplicationSubmission) error
}

// SectionStore persists and scores the sections of each user's funding
// application. Writes to the same (user, section) are last-write-wins.
type SectionStore struct {
	db        *gorm.DB
	validator *SectionValidator
	notifier  SubmissionNotifier
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

type StoreOption func(*SectionStore)

func WithClock(now func() time.Time) StoreOption {
	return func(s *SectionStore) { s.now = now }
}

func WithNotifier(n SubmissionNotifier) StoreOption {
	return func(s *SectionStore) { s.notifier = n }
}

func WithSubmissionIDs(gen func() string) StoreOption {
	return func(s *SectionStore) { s.newID = gen }
}

func NewSectionStore(db *gorm.DB, logger *zap.Logger, opts ...StoreOption) *SectionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SectionStore{
		db:     db,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return "SUB-" + strings.ToUpper(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validator == nil {
		s.validator = NewSectionValidator(s.now)
	}
	return s
}

// Validator exposes the schema checker used for completed sections.
func (s *SectionStore) Validator() *SectionValidator { return s.validator }

func (s *SectionStore) listSections(ctx context.Context, db *gorm.DB, userID string) ([]models.ApplicationSection, error) {
	var rows []models.ApplicationSection
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

func (s *SectionStore) fail(op, userID string, err error) error {
	s.logger.Error("section store failure",
		zap.String("op", op),
		zap.String("user_id", userID),
		zap.Error(err),
	)
	return storageErr(op, err)
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return &ValidationError{
			Message: "User id is required",
			Fields:  []FieldError{{Field: "userId", Message: "must not be empty", Code: "required"}},
		}
	}
	return nil
}

// LoadAll returns every section for userID, most recently updated first.
func (s *SectionStore) LoadAll(ctx context.Context, userID string) (*ApplicationSnapshot, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	rows, err := s.listSections(ctx, s.db, userID)
	if err != nil {
		return nil, s.fail("load sections", userID, err)
	}

	views := make([]SectionView, 0, len(rows))
	for _, row := range rows {
		view, err := toView(row)
		if err != nil {
			return nil, s.fail("decode section", userID, err)
		}
		views = append(views, view)
	}

	lastUpdated, ok := latestUpdate(rows)
	if !ok {
		lastUpdated = s.now()
	}

	return &ApplicationSnapshot{
		UserID:      userID,
		Sections:    views,
		Completion:  AggregateCompletion(rows),
		LastUpdated: lastUpdated,
	}, nil
}

// SaveSection validates and upserts one section, then recomputes the
// user's aggregate completion.
func (s *SectionStore) SaveSection(ctx context.Context, in SaveSectionInput) (*SaveSectionResult, error) {
	sectionType, ok := models.ParseSectionType(in.SectionType)
	if !ok {
		monitor.SectionSaves.WithLabelValues("unknown", "invalid").Inc()
		return nil, newInvalidSectionTypeError(in.SectionType)
	}
	if err := requireUser(in.UserID); err != nil {
		return nil, err
	}
	if in.CompletionPercentage != nil && (*in.CompletionPercentage < 0 || *in.CompletionPercentage > 100) {
		monitor.SectionSaves.WithLabelValues(string(sectionType), "invalid").Inc()
		return nil, &ValidationError{
			Message: "Invalid completion percentage",
			Fields: []FieldError{{
				Field:   "completion_percentage",
				Message: "must be between 0 and 100",
				Code:    "out_of_range",
			}},
		}
	}

	data := in.Data
	if data == nil {
		data = map[string]interface{}{}
	}

	if in.Completed && sectionType.HasSchema() {
		data = applySectionDefaults(sectionType, data)
		if err := s.validator.Validate(sectionType, data); err != nil {
			monitor.SectionSaves.WithLabelValues(string(sectionType), "invalid").Inc()
			return nil, err
		}
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, &ValidationError{
			Message: "Section data is not a JSON document",
			Fields:  []FieldError{{Field: "data", Message: err.Error(), Code: "invalid_document"}},
		}
	}

	now := s.now()
	row := models.ApplicationSection{
		UserID:               in.UserID,
		SectionType:          sectionType,
		Data:                 string(encoded),
		Completed:            in.Completed,
		CompletionPercentage: resolveCompletion(data, in.Completed, in.CompletionPercentage),
		Version:              1,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "section_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"data":                  row.Data,
			"completed":             row.Completed,
			"completion_percentage": row.CompletionPercentage,
			"updated_at":            now,
			"version":               gorm.Expr("version + 1"),
		}),
	}).Create(&row).Error
	if err != nil {
		monitor.SectionSaves.WithLabelValues(string(sectionType), "error").Inc()
		return nil, s.fail("upsert section", in.UserID, err)
	}

	rows, err := s.listSections(ctx, s.db, in.UserID)
	if err != nil {
		monitor.SectionSaves.WithLabelValues(string(sectionType), "error").Inc()
		return nil, s.fail("reload sections", in.UserID, err)
	}

	saved := row
	for _, r := range rows {
		if r.SectionType == sectionType {
			saved = r
			break
		}
	}
	view, err := toView(saved)
	if err != nil {
		return nil, s.fail("decode section", in.UserID, err)
	}

	message := "Draft saved"
	if in.Completed {
		message = "Section completed and saved"
	}
	monitor.SectionSaves.WithLabelValues(string(sectionType), "saved").Inc()
	s.logger.Info("section saved",
		zap.String("user_id", in.UserID),
		zap.String("section_type", string(sectionType)),
		zap.Bool("completed", in.Completed),
		zap.Int("completion_percentage", view.CompletionPercentage),
	)

	return &SaveSectionResult{
		Section:    view,
		Completion: AggregateCompletion(rows),
		Message:    message,
	}, nil
}

// Submit records a submission once every required section is completed.
func (s *SectionStore) Submit(ctx context.Context, userID string) (*SubmissionResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	var sub models.ApplicationSubmission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.listSections(ctx, tx, userID)
		if err != nil {
			return storageErr("load sections", err)
		}
		if missing := missingRequired(rows); len(missing) > 0 {
			return &IncompleteApplicationError{Missing: missing}
		}

		snapshot := make(map[models.SectionType]json.RawMessage, len(rows))
		for _, r := range rows {
			snapshot[r.SectionType] = json.RawMessage(r.Data)
		}
		encoded, err := json.Marshal(snapshot)
		if err != nil {
			return storageErr("encode snapshot", err)
		}

		now := s.now()
		sub = models.ApplicationSubmission{
			SubmissionID:         s.newID(),
			UserID:               userID,
			Status:               models.SubmissionStatusSubmitted,
			CompletionPercentage: AggregateCompletion(rows),
			SectionsSnapshot:     string(encoded),
			SubmittedAt:          now,
			CreatedAt:            now,
		}
		if err := tx.Create(&sub).Error; err != nil {
			return storageErr("create submission", err)
		}
		return nil
	})
	if err != nil {
		var incomplete *IncompleteApplicationError
		if errors.As(err, &incomplete) {
			monitor.Submissions.WithLabelValues("incomplete").Inc()
			return nil, err
		}
		monitor.Submissions.WithLabelValues("error").Inc()
		var se *StorageError
		if errors.As(err, &se) {
			return nil, s.fail(se.Op, userID, se.Err)
		}
		return nil, s.fail("submit", userID, err)
	}

	monitor.Submissions.WithLabelValues("submitted").Inc()
	s.logger.Info("application submitted",
		zap.String("user_id", userID),
		zap.String("submission_id", sub.SubmissionID),
	)

	if s.notifier != nil {
		if err := s.notifier.NotifySubmitted(persistentContext(ctx), sub); err != nil {
			s.logger.Warn("submission notification failed",
				zap.String("submission_id", sub.SubmissionID),
				zap.Error(err),
			)
		}
	}

	return &SubmissionResult{
		SubmissionID:         sub.SubmissionID,
		UserID:               userID,
		Status:               sub.Status,
		CompletionPercentage: sub.CompletionPercentage,
		SubmittedAt:          sub.SubmittedAt,
		Message:              "Application submitted successfully",
	}, nil
}

// Progress summarises how far the user is through the application.
func (s *SectionStore) Progress(ctx context.Context, userID string) (*ProgressReport, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	rows, err := s.listSections(ctx, s.db, userID)
	if err != nil {
		return nil, s.fail("load sections", userID, err)
	}

	report := &ProgressReport{
		Completion:    AggregateCompletion(rows),
		TotalSections: models.TotalSectionCount,
		RequiredTotal: len(models.RequiredSectionTypes),
		Sections:      make(map[models.SectionType]SectionProgress, len(rows)),
	}
	for _, r := range rows {
		report.Sections[r.SectionType] = SectionProgress{
			Completed:            r.Completed,
			CompletionPercentage: r.CompletionPercentage,
			LastUpdated:          r.UpdatedAt,
		}
		if !r.Completed {
			continue
		}
		report.CompletedSections++
		if r.SectionType.IsRequired() {
			report.RequiredCompleted++
		}
	}
	report.IsSubmissionReady = report.RequiredCompleted >= report.RequiredTotal
	if latest, ok := latestUpdate(rows); ok {
		report.LastActivity = &latest
	}
	return report, nil
}

// ClearAll removes every section for userID and returns how many went.
func (s *SectionStore) ClearAll(ctx context.Context, userID string) (int64, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.ApplicationSection{})
	if res.Error != nil {
		return 0, s.fail("clear sections", userID, res.Error)
	}
	s.logger.Info("application cleared",
		zap.String("user_id", userID),
		zap.Int64("sections", res.RowsAffected),
	)
	return res.RowsAffected, nil
}

func missingRequired(rows []models.ApplicationSection) []models.SectionType {
	done := make(map[models.SectionType]bool, len(rows))
	for _, r := range rows {
		if r.Completed {
			done[r.SectionType] = true
		}
	}
	var missing []models.SectionType
	for _, t := range models.RequiredSectionTypes {
		if !done[t] {
			missing = append(missing, t)
		}
	}
	return missing
}

func toView(row models.ApplicationSection) (SectionView, error) {
	data := map[string]interface{}{}
	if row.Data != "" {
		if err := json.Unmarshal([]byte(row.Data), &data); err != nil {
			return SectionView{}, err
		}
	}
	return SectionView{
		SectionType:          row.SectionType,
		Data:                 data,
		Completed:            row.Completed,
		CompletionPercentage: row.CompletionPercentage,
		Version:              row.Version,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}
