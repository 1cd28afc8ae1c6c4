package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"turnario/backend/internal/repository"
)

// ExportService renders reports into downloadable formats: xlsx for the
// adherence sheet and iCalendar for the published team schedule.
type ExportService struct {
	repo   *repository.Repository
	report *ReportService
	logger *zap.Logger
}

func NewExportService(repo *repository.Repository, report *ReportService, logger *zap.Logger) *ExportService {
	return &ExportService{repo: repo, report: report, logger: logger}
}

// AdherenceXLSX renders the team adherence report as a spreadsheet.
func (s *ExportService) AdherenceXLSX(ctx context.Context, teamID, startDate, endDate string) ([]byte, error) {
	report, err := s.report.TeamAdherence(ctx, teamID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	team, err := s.repo.Team.GetByID(ctx, teamID)
	if err != nil {
		return nil, ErrTeamNotFound
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Adherence"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Team")
	f.SetCellValue(sheet, "B1", team.Name)
	f.SetCellValue(sheet, "A2", "Period")
	f.SetCellValue(sheet, "B2", fmt.Sprintf("%s to %s", startDate, endDate))
	f.SetCellValue(sheet, "A3", "Adherence (%)")
	f.SetCellValue(sheet, "B3", report.Adherence)

	headers := []string{"Date", "Planned", "Honored", "Adherence (%)"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		f.SetCellValue(sheet, cell, h)
	}
	for row, day := range report.Days {
		values := []interface{}{day.Date, day.Planned, day.Honored, day.Adherence}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+6)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

// ScheduleICS renders a team's published slots over a range as an
// iCalendar feed.
func (s *ExportService) ScheduleICS(ctx context.Context, teamID, startDate, endDate string) (string, error) {
	if err := validateRange(startDate, endDate); err != nil {
		return "", err
	}
	team, err := s.repo.Team.GetByID(ctx, teamID)
	if err != nil {
		return "", ErrTeamNotFound
	}
	slots, err := s.repo.Schedule.ListPublishedSlots(ctx, teamID, startDate, endDate)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//turnario//schedule//EN")

	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}
	for _, slot := range slots {
		start, err := slot.StartAt(loc)
		if err != nil {
			return "", fmt.Errorf("resolving slot %s start: %w", slot.SlotID, err)
		}
		end := start.Add(time.Duration(slot.DurationMinutes()) * time.Minute)

		event := cal.AddEvent(fmt.Sprintf("%s@turnario", slot.SlotID))
		event.SetCreatedTime(slot.CreatedAt)
		event.SetDtStampTime(slot.CreatedAt)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%s shift", team.Name))
		event.SetDescription(fmt.Sprintf("Planned slot %s %s (%.2fh)", slot.Date, slot.StartTime, slot.DurationHours))
	}

	return cal.Serialize(), nil
}
