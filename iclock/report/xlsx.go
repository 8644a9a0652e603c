// Package report renders stored attendance for people.
package report

import (
	"fmt"
	"io"
	"time"

	"axiapac.com/adms/iclock/model"
	"axiapac.com/adms/iclock/protocol"
	"github.com/xuri/excelize/v2"
)

const AttendanceSheet = "Attendance"

var attendanceHeader = []interface{}{"PIN", "Device Time", "Stored Time", "Status", "Verify", "Machine", "Serial Number"}

// WriteAttendance writes rows as an xlsx workbook. Device Time is the
// terminal-local string; Stored Time is rendered in loc.
func WriteAttendance(w io.Writer, rows []model.AttendanceHistory, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", AttendanceSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(AttendanceSheet, "A1", &attendanceHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(AttendanceSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.Pin,
			protocol.Localize(row.Date, row.MachineOffset),
			row.Date.In(loc).Format(protocol.DateLayout),
			row.Status,
			row.Verify,
			row.MachineName,
			row.SerialNumber,
		}
		if err := f.SetSheetRow(AttendanceSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(AttendanceSheet, "B", "C", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(AttendanceSheet, "F", "G", 24); err != nil {
		return err
	}
	if err := f.SetPanes(AttendanceSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
