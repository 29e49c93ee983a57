// Package export renders the booking schedule into an Excel workbook:
// one row per subject, one column per day, cells listing the bookings
// that occupy the subject on that day.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"staffcal/internal/domain"
	"staffcal/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	iconConfirmed = "✅"
	iconPending   = "⏳"
	iconCancelled = "❌"
)

// ScheduleExporter пишет расписание бронирований в Excel файл
type ScheduleExporter struct {
	repo   domain.Repository
	path   string
	logger zerolog.Logger
}

func NewScheduleExporter(repo domain.Repository, path string, logger zerolog.Logger) *ScheduleExporter {
	return &ScheduleExporter{
		repo:   repo,
		path:   path,
		logger: logger.With().Str("component", "export").Logger(),
	}
}

// Export создает Excel файл с расписанием за период и возвращает путь к нему
func (e *ScheduleExporter) Export(ctx context.Context, startDate, endDate time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	dailyBookings, err := e.repo.GetDailyBookings(ctx, startDate, endDate)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %w", err)
	}

	subjects, err := e.repo.GetActiveSubjects(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting active subjects: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Расписание"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Период: %s - %s",
		startDate.Format("02.01.2006"), endDate.Format("02.01.2006")))

	dateHeaders := e.writeDateHeaders(f, sheetName, startDate, endDate)
	e.writeSubjectHeaders(f, sheetName, subjects)
	e.writeBookingData(f, sheetName, dailyBookings, subjects, dateHeaders)

	_ = f.SetColWidth(sheetName, "A", "A", 25)
	for i := 'B'; i <= 'Z'; i++ {
		_ = f.SetColWidth(sheetName, string(i), string(i), 20)
	}

	lastCol := lastColumn(len(dateHeaders) + 1)
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")

	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", style)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("schedule_%s_to_%s.xlsx",
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Schedule workbook created")
	return filePath, nil
}

func (e *ScheduleExporter) writeDateHeaders(f *excelize.File, sheetName string, startDate, endDate time.Time) map[string]int {
	col := 2
	currentDate := startDate
	dateHeaders := make(map[string]int)

	for !currentDate.After(endDate) {
		cell, _ := excelize.CoordinatesToCellName(col, 2)
		_ = f.SetCellValue(sheetName, cell, currentDate.Format("02.01"))
		dateHeaders[currentDate.Format("2006-01-02")] = col

		style, _ := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
			Font:      &excelize.Font{Bold: true},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		_ = f.SetCellStyle(sheetName, cell, cell, style)

		col++
		currentDate = currentDate.AddDate(0, 0, 1)
	}
	return dateHeaders
}

func (e *ScheduleExporter) writeSubjectHeaders(f *excelize.File, sheetName string, subjects []models.Subject) {
	row := 3
	for _, subject := range subjects {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(sheetName, cell, fmt.Sprintf("%s (%s)", subject.Name, subject.Role))

		style, _ := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
			Font: &excelize.Font{Bold: true},
		})
		_ = f.SetCellStyle(sheetName, cell, cell, style)

		row++
	}
}

func (e *ScheduleExporter) writeBookingData(
	f *excelize.File, sheetName string,
	dailyBookings map[string][]models.Booking,
	subjects []models.Subject,
	dateHeaders map[string]int,
) {
	for dateKey, bookings := range dailyBookings {
		col, exists := dateHeaders[dateKey]
		if !exists {
			continue
		}

		bookingsBySubject := make(map[int64][]models.Booking)
		for _, booking := range bookings {
			bookingsBySubject[booking.SubjectID] = append(bookingsBySubject[booking.SubjectID], booking)
		}

		row := 3
		for _, subject := range subjects {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			subjectBookings := bookingsBySubject[subject.ID]

			var cellValue string
			if len(subjectBookings) > 0 {
				for _, booking := range subjectBookings {
					cellValue += fmt.Sprintf("%s %s %s\n", statusIcon(booking.Status), booking.EventName, timingLabel(booking))
					if booking.Comment != "" {
						cellValue += fmt.Sprintf("   💬 %s\n", booking.Comment)
					}
				}
			} else {
				cellValue = "Свободно"
			}

			_ = f.SetCellValue(sheetName, cell, cellValue)

			styleID, err := e.cellStyle(f, subjectBookings)
			if err == nil {
				_ = f.SetCellStyle(sheetName, cell, cell, styleID)
			}
			row++
		}
	}
}

// timingLabel возвращает отображаемый интервал времени брони
func timingLabel(booking models.Booking) string {
	switch booking.TimingMode {
	case models.ModeHourly:
		if booking.StartTime != "" && booking.EndTime != "" {
			return fmt.Sprintf("%s-%s", booking.StartTime, booking.EndTime)
		}
		return "весь день"
	case models.ModeMultiDay:
		return "несколько дней"
	default:
		return "весь день"
	}
}

func statusIcon(status string) string {
	switch status {
	case models.StatusConfirmed, models.StatusCompleted:
		return iconConfirmed
	case models.StatusPending:
		return iconPending
	case models.StatusCancelled:
		return iconCancelled
	default:
		return "❓"
	}
}

// cellStyle возвращает стиль ячейки в зависимости от статусов броней
func (e *ScheduleExporter) cellStyle(f *excelize.File, bookings []models.Booking) (int, error) {
	alignment := &excelize.Alignment{
		Horizontal: "left",
		Vertical:   "top",
		WrapText:   true,
	}

	active := activeBookings(bookings)

	// Нет активных заявок - без заливки
	if len(active) == 0 {
		return f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFFFFF"}, Pattern: 1},
			Alignment: alignment,
		})
	}

	// Есть неподтвержденные заявки - желтый
	for _, booking := range active {
		if booking.Status == models.StatusPending {
			return f.NewStyle(&excelize.Style{
				Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFEB9C"}, Pattern: 1},
				Alignment: alignment,
			})
		}
	}

	// Все заявки подтверждены - красный, день занят
	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
		Alignment: alignment,
	})
}

func activeBookings(bookings []models.Booking) []models.Booking {
	var active []models.Booking
	for _, booking := range bookings {
		if booking.Status != models.StatusCancelled {
			active = append(active, booking)
		}
	}
	return active
}

// lastColumn возвращает последнюю колонку для объединения ячеек
func lastColumn(colCount int) string {
	if colCount <= 26 {
		return string(rune('A' + colCount - 1))
	}

	firstChar := string(rune('A' + (colCount-1)/26 - 1))
	secondChar := string(rune('A' + (colCount-1)%26))
	return firstChar + secondChar
}
