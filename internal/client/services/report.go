package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
	"github.com/dmitrijs2005/alcancesol/internal/client/repositories/reports"
	"github.com/dmitrijs2005/alcancesol/internal/common"
	"github.com/dmitrijs2005/alcancesol/internal/logging"
	"github.com/google/uuid"
)

// maxIDAttempts bounds the regeneration loop of Submit on id collisions.
const maxIDAttempts = 5

// ErrIDCollision is returned when no unused id could be generated.
var ErrIDCollision = errors.New("could not generate an unused report id")

// ReportService is the report repository used by the report and history
// screens.
type ReportService interface {
	// GenerateID returns a new time-ordered, random report id.
	GenerateID() string

	// Add persists a fully built report. A duplicate ID overwrites silently.
	Add(ctx context.Context, r *models.Report) error
	// List returns every report, newest first.
	List(ctx context.Context) ([]*models.Report, error)
	Get(ctx context.Context, id string) (*models.Report, error)
	Update(ctx context.Context, r *models.Report) error
	// Delete removes a report; an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// Submit validates the form, stores a new queued report and returns it
	// with the deep-link that forwards it to the support number.
	Submit(ctx context.Context, form models.ReportForm) (*models.Report, string, error)
}

type reportService struct {
	repo          reports.Repository
	logger        logging.Logger
	supportNumber string

	now   func() time.Time
	newID func() string
}

// NewReportService constructs a ReportService. supportNumber is the
// destination of submitted reports.
func NewReportService(repo reports.Repository, supportNumber string, logger logging.Logger) ReportService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &reportService{
		repo:          repo,
		logger:        logger,
		supportNumber: supportNumber,
		now:           time.Now,
		newID:         GenerateID,
	}
}

// GenerateID returns a UUIDv7: a 48-bit millisecond timestamp followed by
// random bits, so ids sort by creation time and collide with negligible
// probability.
func GenerateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *reportService) GenerateID() string {
	return s.newID()
}

func (s *reportService) Add(ctx context.Context, r *models.Report) error {
	if err := s.repo.Put(ctx, r); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	return nil
}

func (s *reportService) List(ctx context.Context) ([]*models.Report, error) {
	rows, err := s.repo.ListByTimestamp(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}
	slices.Reverse(rows)
	return rows, nil
}

func (s *reportService) Get(ctx context.Context, id string) (*models.Report, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving report: %w", err)
	}
	return r, nil
}

// Update overwrites a stored report. The status must be one of the known
// values; no transition rule is enforced.
func (s *reportService) Update(ctx context.Context, r *models.Report) error {
	if !r.Status.Valid() {
		v := &models.ValidationError{}
		v.Add("status", fmt.Sprintf("status %q desconhecido", r.Status))
		return v
	}
	if err := s.repo.Put(ctx, r); err != nil {
		return fmt.Errorf("error updating report: %w", err)
	}
	return nil
}

func (s *reportService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting report: %w", err)
	}
	return nil
}

func (s *reportService) Submit(ctx context.Context, form models.ReportForm) (*models.Report, string, error) {
	if err := form.Validate(); err != nil {
		return nil, "", err
	}

	fields := models.ReportFields{
		Name:             form.Name,
		Reason:           models.ReasonLabel(form.Reason),
		AlternateContact: form.AlternateContact,
		Message:          form.Message,
	}

	id, err := s.unusedID(ctx)
	if err != nil {
		return nil, "", err
	}

	r := &models.Report{
		ID:               id,
		Timestamp:        s.now().UnixMilli(),
		ReporterName:     fields.Name,
		ReasonLabel:      fields.Reason,
		AlternateContact: fields.AlternateContact,
		Message:          fields.Message,
		Content:          FormatContent(fields),
		Status:           models.StatusQueued,
	}

	if err := s.Add(ctx, r); err != nil {
		s.logger.Error(ctx, "error saving report", "error", err)
		return nil, "", err
	}

	s.logger.Info(ctx, "report saved", "id", r.ID, "reason", r.ReasonLabel)
	return r, BuildOutboundLink(r.Content, s.supportNumber), nil
}

// unusedID generates ids until one is not present in the store.
func (s *reportService) unusedID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		_, err := s.repo.Get(ctx, id)
		if errors.Is(err, common.ErrorNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("error checking report id: %w", err)
		}
		s.logger.Warn(ctx, "report id collision", "id", id)
	}
	return "", ErrIDCollision
}
