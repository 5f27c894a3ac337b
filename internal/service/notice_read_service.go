package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campusboard/notice-api/internal/models"
	appErrors "github.com/campusboard/notice-api/pkg/errors"
	"github.com/campusboard/notice-api/pkg/export"
)

type noticeReadRepository interface {
	MarkRead(ctx context.Context, noticeID, userID, orgID string) (time.Time, error)
	ListReaders(ctx context.Context, orgID, noticeID string) ([]models.ReadStatsEntry, error)
}

type readStatsNoticeReader interface {
	FindByID(ctx context.Context, orgID, id string) (*models.Notice, error)
}

type readStatsRosterReader interface {
	ListByOrg(ctx context.Context, orgID string) ([]models.User, error)
}

// NoticeReadService records read receipts and reports engagement.
type NoticeReadService struct {
	reads   noticeReadRepository
	notices readStatsNoticeReader
	roster  readStatsRosterReader
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	metrics *MetricsService
	logger  *zap.Logger
}

// NewNoticeReadService creates a service instance.
func NewNoticeReadService(
	reads noticeReadRepository,
	notices readStatsNoticeReader,
	roster readStatsRosterReader,
	metrics *MetricsService,
	logger *zap.Logger,
) *NoticeReadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeReadService{
		reads:   reads,
		notices: notices,
		roster:  roster,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		metrics: metrics,
		logger:  logger,
	}
}

// MarkRead records that the user viewed the notice. Repeated calls return
// the timestamp of the first view; the receipt never moves.
func (s *NoticeReadService) MarkRead(ctx context.Context, orgID, noticeID, userID string) (time.Time, error) {
	if _, err := s.notices.FindByID(ctx, orgID, noticeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch notice")
	}

	readAt, err := s.reads.MarkRead(ctx, noticeID, userID, orgID)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record read receipt")
	}

	s.metrics.RecordNoticeRead()
	return readAt, nil
}

// ReadStats partitions the full organization roster by read state for the
// notice. Every member appears exactly once, as a reader or a non-reader,
// whether or not the notice targeted them.
func (s *NoticeReadService) ReadStats(ctx context.Context, orgID, noticeID string) (*models.NoticeReadStats, error) {
	notice, err := s.notices.FindByID(ctx, orgID, noticeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch notice")
	}

	readers, err := s.reads.ListReaders(ctx, orgID, noticeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list readers")
	}

	roster, err := s.roster.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	readerIDs := make(map[string]struct{}, len(readers))
	for _, r := range readers {
		readerIDs[r.UserID] = struct{}{}
	}

	nonReaders := make([]models.ReadStatsEntry, 0, len(roster))
	for _, member := range roster {
		if _, ok := readerIDs[member.ID]; ok {
			continue
		}
		nonReaders = append(nonReaders, models.ReadStatsEntry{
			UserID:             member.ID,
			Name:               member.Name,
			Email:              member.Email,
			Role:               member.Role,
			RegistrationNumber: member.RegistrationNumber,
		})
	}

	return &models.NoticeReadStats{
		NoticeID:    notice.ID,
		NoticeTitle: notice.Title,
		TotalUsers:  len(roster),
		ReadCount:   len(readers),
		UnreadCount: len(nonReaders),
		Readers:     readers,
		NonReaders:  nonReaders,
	}, nil
}

// ExportReadStats renders the read-stats report as CSV or PDF bytes with the
// matching content type.
func (s *NoticeReadService) ExportReadStats(ctx context.Context, orgID, noticeID, format string) ([]byte, string, error) {
	stats, err := s.ReadStats(ctx, orgID, noticeID)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"Name", "Email", "Role", "Registration Number", "Status", "Read At"},
	}
	for _, r := range stats.Readers {
		dataset.Rows = append(dataset.Rows, readStatsRow(r, "read"))
	}
	for _, nr := range stats.NonReaders {
		dataset.Rows = append(dataset.Rows, readStatsRow(nr, "unread"))
	}

	switch format {
	case "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		title := fmt.Sprintf("Read Report - %s", stats.NoticeTitle)
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func readStatsRow(entry models.ReadStatsEntry, status string) map[string]string {
	reg := ""
	if entry.RegistrationNumber != nil {
		reg = *entry.RegistrationNumber
	}
	readAt := ""
	if entry.ReadAt != nil {
		readAt = entry.ReadAt.UTC().Format(time.RFC3339)
	}
	return map[string]string{
		"Name":                entry.Name,
		"Email":               entry.Email,
		"Role":                string(entry.Role),
		"Registration Number": reg,
		"Status":              status,
		"Read At":             readAt,
	}
}
