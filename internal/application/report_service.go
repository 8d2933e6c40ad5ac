package application

import (
	"context"
	"fmt"

	"marcador/internal/models"

	"github.com/xuri/excelize/v2"
)

type historySource interface {
	History(ctx context.Context) ([]models.Match, error)
}

var historyHeaders = []interface{}{"ID", "Fecha", "Local", "Visitante", "Marcador", "Sede"}

type ReportServiceImpl struct {
	history historySource
	names   TeamNames
	sheets  SheetsService
	logger  Logger
}

func NewReportServiceImpl(history historySource, names TeamNames, sheets SheetsService, logger Logger) *ReportServiceImpl {
	return &ReportServiceImpl{
		history: history,
		names:   names,
		sheets:  sheets,
		logger:  logger,
	}
}

// ExportHistory renders finished matches into an xlsx workbook.
func (s *ReportServiceImpl) ExportHistory(ctx context.Context) ([]byte, error) {
	rows, err := s.historyRows(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(excelSheetName); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(excelSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetCellStyle(excelSheetName, "A1", "F1", headerStyle)
	}
	f.SetColWidth(excelSheetName, "A", "A", 8)
	f.SetColWidth(excelSheetName, "B", "B", 18)
	f.SetColWidth(excelSheetName, "C", "D", 24)
	f.SetColWidth(excelSheetName, "E", "F", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SyncHistorySheet pushes the history rows to the configured Google Sheet
// and returns its URL.
func (s *ReportServiceImpl) SyncHistorySheet(ctx context.Context) (string, error) {
	if s.sheets == nil {
		return "", models.InvalidArgument("google sheets is not configured")
	}

	rows, err := s.historyRows(ctx)
	if err != nil {
		return "", err
	}

	url, err := s.sheets.EnsureSheetExists(ctx)
	if err != nil {
		return "", models.StorageFailure("failed to prepare spreadsheet", err)
	}
	if err := s.sheets.ReplaceRows(ctx, rows); err != nil {
		return "", models.StorageFailure("failed to sync history", err)
	}
	s.logger.Info("history synced to %s (%d matches)", url, len(rows)-1)
	return url, nil
}

func (s *ReportServiceImpl) historyRows(ctx context.Context) ([][]interface{}, error) {
	matches, err := s.history.History(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(matches)+1)
	rows = append(rows, historyHeaders)
	for _, m := range matches {
		date := ""
		if m.ScheduledAt != nil {
			date = m.ScheduledAt.Format(excelDateFormat)
		}
		venue := ""
		if m.Venue != nil {
			venue = *m.Venue
		}
		rows = append(rows, []interface{}{
			m.ID,
			date,
			s.names.Name(ctx, m.HomeTeamID),
			s.names.Name(ctx, m.AwayTeamID),
			formatScore(m.Score),
			venue,
		})
	}
	return rows, nil
}
