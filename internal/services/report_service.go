package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/entities"
	"dorm-portal/internal/repositories"
)

const (
	reportDateFmt     = "02.01.2006"
	reportDateTimeFmt = "02.01.2006 15:04"
)

type ReportServiceInterface interface {
	ExportWorkShifts(ctx context.Context, w io.Writer) error
	ExportCleanliness(ctx context.Context, w io.Writer, floor int, from, to time.Time) error
}

type reportService struct {
	shiftRepo   repositories.WorkShiftRepositoryInterface
	cleanliness CleanlinessServiceInterface
	gatekeeper  *authz.Gatekeeper
	logger      *zap.Logger
}

func NewReportService(
	shiftRepo repositories.WorkShiftRepositoryInterface,
	cleanliness CleanlinessServiceInterface,
	gatekeeper *authz.Gatekeeper,
	logger *zap.Logger,
) ReportServiceInterface {
	return &reportService{
		shiftRepo:   shiftRepo,
		cleanliness: cleanliness,
		gatekeeper:  gatekeeper,
		logger:      logger,
	}
}

func (s *reportService) authorize(ctx context.Context) error {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return err
	}
	if !s.gatekeeper.Can(actor, authz.ReportsExport, nil) {
		s.logger.Warn("Попытка выгрузки отчёта без права", zap.String("userID", actor.ID.String()))
		return forbidden("Выгрузка отчётов доступна персоналу и руководству совета")
	}
	return nil
}

var (
	shiftSummaryHeaders = []string{"Жилец", "Отработок", "Осталось дней", "Выполнено дней"}
	shiftHeaders        = []string{
		"№", "Жилец", "Дней", "Выполнено", "Осталось", "Причина",
		"Назначил", "Дата назначения", "Засчитал", "Дата засчитывания",
	}
	archiveHeaders = []string{"№", "Жилец", "Дней", "Выполнено", "Причина", "Назначил", "В архиве с", "Причина архивации"}
)

func shiftRow(ws entities.WorkShift) []interface{} {
	var completedAt string
	if ws.CompletedAt.Valid {
		completedAt = ws.CompletedAt.Time.Format(reportDateTimeFmt)
	}
	return []interface{}{
		ws.ID, ws.UserName, ws.Days, ws.CompletedDays, ws.Remaining(), ws.Reason,
		ws.AssignedByName, ws.CreatedAt.Format(reportDateFmt), ws.CompletedByName.String, completedAt,
	}
}

func archiveReasonName(reason string) string {
	if reason == entities.ArchiveReasonDeleted {
		return "Удалена"
	}
	return "Выполнена"
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	return f.SetColWidth(sheet, "B", lastCol, 18)
}

// ExportWorkShifts - три листа: сводка по жильцам, активные отработки, архив.
func (s *reportService) ExportWorkShifts(ctx context.Context, w io.Writer) error {
	if err := s.authorize(ctx); err != nil {
		return err
	}
	summaries, err := s.shiftRepo.Summaries(ctx)
	if err != nil {
		return err
	}
	active, err := s.shiftRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	archived, err := s.shiftRepo.ListArchived(ctx, nil)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	summaryRows := make([][]interface{}, 0, len(summaries))
	for _, sm := range summaries {
		summaryRows = append(summaryRows, []interface{}{sm.UserName, sm.Shifts, sm.Remaining, sm.Completed})
	}
	activeRows := make([][]interface{}, 0, len(active))
	for _, ws := range active {
		activeRows = append(activeRows, shiftRow(ws))
	}
	archiveRows := make([][]interface{}, 0, len(archived))
	for _, a := range archived {
		archiveRows = append(archiveRows, []interface{}{
			a.ID, a.UserName, a.Days, a.CompletedDays, a.Reason, a.AssignedByName,
			a.ArchivedAt.Format(reportDateTimeFmt), archiveReasonName(a.ArchiveReason),
		})
	}

	if err := writeSheet(f, "Сводка", shiftSummaryHeaders, summaryRows); err != nil {
		return err
	}
	if err := writeSheet(f, "Отработки", shiftHeaders, activeRows); err != nil {
		return err
	}
	if err := writeSheet(f, "Архив", archiveHeaders, archiveRows); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	s.logger.Info("Выгрузка отработок", zap.Int("active", len(active)), zap.Int("archived", len(archived)))
	return f.Write(w)
}

// ExportCleanliness - таблица этажа: комнаты по строкам, даты по столбцам, среднее в конце.
func (s *reportService) ExportCleanliness(ctx context.Context, w io.Writer, floor int, from, to time.Time) error {
	if err := s.authorize(ctx); err != nil {
		return err
	}
	grid, err := s.cleanliness.FloorGrid(ctx, floor, from, to)
	if err != nil {
		return err
	}

	headers := []string{"Комната"}
	for _, d := range grid.Days {
		label := d.Date
		if !d.Working {
			label += " (вых.)"
		}
		headers = append(headers, label)
	}
	headers = append(headers, "Среднее")

	rows := make([][]interface{}, 0, len(grid.Rooms))
	for _, room := range grid.Rooms {
		row := []interface{}{room}
		for _, d := range grid.Days {
			cell := grid.Cells[room][d.Date]
			switch {
			case cell.Score > 0:
				row = append(row, cell.Score)
			case cell.Closed:
				row = append(row, "закр.")
			default:
				row = append(row, "")
			}
		}
		if avg := grid.Averages[room]; avg != nil {
			row = append(row, *avg)
		} else {
			row = append(row, "")
		}
		rows = append(rows, row)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := fmt.Sprintf("Этаж %d", floor)
	if err := writeSheet(f, sheet, headers, rows); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	return f.Write(w)
}
