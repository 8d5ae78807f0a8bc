// Package report renders attendance data as spreadsheets.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
)

const sheetName = "Check-ins"

var header = []interface{}{"Employee ID", "Day", "Checked in at", "Method", "Distance (m)", "Site ID", "Record ID"}

// WriteDailyCheckIns writes one row per record to w as an XLSX workbook.
// Times are shown in loc.
func WriteDailyCheckIns(w io.Writer, day string, records []*domain.CheckInRecord, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", "Attendance "+day); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, "A3", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		var distance interface{} = ""
		if r.DistanceMeters != nil {
			distance = *r.DistanceMeters
		}
		row := []interface{}{
			r.EmployeeID,
			r.Day,
			r.CreatedAt.In(loc).Format("15:04:05"),
			string(r.Method),
			distance,
			r.SiteID.String(),
			r.ID.String(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "F", "G", 38); err != nil {
		return err
	}

	return f.Write(w)
}
