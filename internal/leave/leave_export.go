package leave

import (
	"bytes"
	"fmt"
	"time"

	"go-leave/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	exportSheet       = "Leave Requests"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportColumns = []struct {
	title string
	width float64
	value func(r model.LeaveRequest) any
}{
	{"ID", 38, func(r model.LeaveRequest) any { return r.ID }},
	{"Employee ID", 14, func(r model.LeaveRequest) any { return r.EmployeeID }},
	{"Employee", 22, func(r model.LeaveRequest) any { return r.EmployeeName }},
	{"Department", 20, func(r model.LeaveRequest) any { return r.Department }},
	{"Leave Type", 12, func(r model.LeaveRequest) any { return string(r.LeaveType) }},
	{"From", 12, func(r model.LeaveRequest) any { return r.FromDate.String() }},
	{"To", 12, func(r model.LeaveRequest) any { return r.ToDate.String() }},
	{"Days", 8, func(r model.LeaveRequest) any { return dayCount(r) }},
	{"Reason", 40, func(r model.LeaveRequest) any { return r.Reason }},
	{"Status", 12, func(r model.LeaveRequest) any { return string(r.Status) }},
	{"Approved By", 20, func(r model.LeaveRequest) any { return r.ApprovedBy }},
	{"Rejection Reason", 32, func(r model.LeaveRequest) any { return r.RejectionReason }},
	{"Submitted At", 22, func(r model.LeaveRequest) any { return r.SubmittedAt.UTC().Format(time.RFC3339) }},
}

// dayCount is inclusive; an inverted range counts as zero.
func dayCount(r model.LeaveRequest) int {
	if r.FromDate.IsZero() || r.ToDate.IsZero() || r.ToDate.Before(r.FromDate.Time) {
		return 0
	}
	return int(r.ToDate.Sub(r.FromDate.Time).Hours()/24) + 1
}

// ExportFileName names an export taken at now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("leave-requests-%s.xlsx", now.UTC().Format("20060102-150405"))
}

// WriteXLSX renders reqs as a single-sheet workbook, one row per request.
func WriteXLSX(reqs []model.LeaveRequest) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	for i, col := range exportColumns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(exportSheet, name, name, col.width); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, name+"1", col.title); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.ColumnNumberToName(len(exportColumns))
	if err := f.SetCellStyle(exportSheet, "A1", last+"1", headerStyle); err != nil {
		return nil, err
	}

	for row, r := range reqs {
		for i, col := range exportColumns {
			cell, _ := excelize.CoordinatesToCellName(i+1, row+2)
			if err := f.SetCellValue(exportSheet, cell, col.value(r)); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
