package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rahulm/classtrack/internal/app/models"
)

var rosterHeader = []string{
	"Username", "Name", "Phone", "Email", "Parent Name", "Parent Phone",
	"Year", "Government ID", "Address", "Attendance", "Marks",
}

// StudentsWorkbook builds a single-sheet XLSX roster of all students.
func StudentsWorkbook(students []*models.Student) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Students"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for col, h := range rosterHeader {
		cell := fmt.Sprintf("%s1", colName(col+1))
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	end := colName(len(rosterHeader)) + "1"
	_ = f.SetCellStyle(sheet, "A1", end, bold)
	_ = f.AutoFilter(sheet, "A1:"+end, nil)

	for r, s := range students {
		marks, err := models.EncodeMarks(s.Marks)
		if err != nil {
			return nil, fmt.Errorf("encode marks for %s: %w", s.Username, err)
		}
		row := []string{
			s.Username, s.Name, s.Phone, s.Email, s.ParentName, s.ParentPhone,
			s.Year, s.GovernmentID, s.Address, s.Attendance, marks,
		}
		for c, val := range row {
			cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
			if err := f.SetCellStr(sheet, cell, val); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	// width by header length, clamped to a readable range
	for c := 1; c <= len(rosterHeader); c++ {
		w := float64(len(rosterHeader[c-1])) * 1.4
		if w < 12 {
			w = 12
		}
		if w > 40 {
			w = 40
		}
		_ = f.SetColWidth(sheet, colName(c), colName(c), w)
	}

	return f, nil
}

// colName converts a 1-based column index into an Excel column name.
func colName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}
