// Package export writes time entries to spreadsheet workbooks.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/amonks/timeclock/entry"
	"github.com/xuri/excelize/v2"
)

// SheetName is the single sheet in an exported workbook.
const SheetName = "Task Entries"

// TimeLayout formats start and end times in exported rows.
const TimeLayout = "2006-01-02 15:04:05"

const missing = "-"

// ErrNoEntries is returned when there is nothing to export.
var ErrNoEntries = errors.New("no task entries to export")

// Headers are the exported column titles.
var Headers = []string{"#", "Task Name", "Start Time", "End Time", "Total Hours", "Status", "Comment"}

// Options configures an export.
type Options struct {
	// Location renders times; nil means time.Local.
	Location *time.Location
}

// Rows converts entries to the cell values written to the sheet.
func Rows(entries []entry.Entry, opts Options) [][]any {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	rows := make([][]any, 0, len(entries))
	for i, item := range entries {
		row := []any{
			i + 1,
			orMissing(item.Label()),
			formatTime(item.StartTime, loc),
			missing,
			missing,
			orMissing(string(item.Status)),
			orMissing(item.Comment),
		}
		if item.EndTime != nil {
			row[3] = formatTime(*item.EndTime, loc)
		}
		if item.TotalHours != nil && *item.TotalHours != 0 {
			row[4] = *item.TotalHours
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteEntries writes an xlsx workbook with one row per entry.
func WriteEntries(w io.Writer, entries []entry.Entry, opts Options) error {
	if len(entries) == 0 {
		return ErrNoEntries
	}

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := writeRow(file, 1, toAny(Headers)); err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(Headers), 1)
	if err != nil {
		return err
	}
	if err := file.SetCellStyle(SheetName, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range Rows(entries, opts) {
		if err := writeRow(file, i+2, row); err != nil {
			return err
		}
	}

	if err := file.SetColWidth(SheetName, "B", "D", 22); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	if err := file.SetColWidth(SheetName, "G", "G", 40); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// FileName returns the download name for an employee's export.
func FileName(employee entry.Employee) string {
	name := strings.Join(strings.Fields(employee.Name), "_")
	if name == "" {
		name = "employee_" + employee.UserID.String()
	}
	return name + "_Task_Entries.xlsx"
}

func writeRow(file *excelize.File, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(SheetName, cell, value); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	return nil
}

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return missing
	}
	return t.In(loc).Format(TimeLayout)
}

func orMissing(value string) string {
	if strings.TrimSpace(value) == "" {
		return missing
	}
	return value
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}
	return out
}
