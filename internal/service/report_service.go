package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"ticket-backoffice/internal/model"
	"ticket-backoffice/internal/repository"
	"time"

	"github.com/google/uuid"
)

type ReportService interface {
	Attendance(ctx context.Context, eventID uuid.UUID) (*model.AttendanceReport, error)
	// ExportScans streams the event's scan log as CSV.
	ExportScans(ctx context.Context, eventID uuid.UUID, w io.Writer) error
}

type ReportServiceImpl struct {
	eventRepo   repository.EventRepository
	scanLogRepo repository.ScanLogRepository
}

func NewReportService(eventRepo repository.EventRepository, scanLogRepo repository.ScanLogRepository) ReportService {
	return &ReportServiceImpl{
		eventRepo:   eventRepo,
		scanLogRepo: scanLogRepo,
	}
}

func (s *ReportServiceImpl) Attendance(ctx context.Context, eventID uuid.UUID) (*model.AttendanceReport, error) {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	counts, err := s.scanLogRepo.CountsByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	unique, err := s.scanLogRepo.CountUniqueAdmitted(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	return &model.AttendanceReport{
		EventID:        event.ID,
		TotalScans:     total,
		ResultCounts:   counts,
		UniqueAdmitted: unique,
	}, nil
}

func (s *ReportServiceImpl) ExportScans(ctx context.Context, eventID uuid.UUID, w io.Writer) error {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return err
	}

	logs, err := s.scanLogRepo.ListByEvent(ctx, event.ID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "code_id", "ticket_id", "raw_value", "result", "scanned_by", "created_at"}); err != nil {
		return err
	}

	for _, log := range logs {
		record := []string{
			strconv.Itoa(log.ID),
			optionalInt(log.CodeID),
			optionalInt(log.TicketID),
			log.RawValue,
			string(log.Result),
			optionalInt(log.ScannedBy),
			log.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
